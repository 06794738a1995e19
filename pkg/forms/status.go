package forms

type Status string

const (
	// StatusIdle is the state before the first load is requested.
	StatusIdle Status = "idle"

	StatusLoading Status = "loading"

	// StatusEmpty is a successful load that returned zero entries. The form
	// renders an empty-state affordance instead of inputs.
	StatusEmpty Status = "success_empty"

	StatusPopulated Status = "success_populated"

	StatusError Status = "error"
)

// Every state may re-enter loading (any key change forces a refetch) and may
// fail directly to error when the governing key is incomplete.
var validTransitions = map[Status][]Status{
	StatusIdle:      {StatusLoading, StatusError},
	StatusLoading:   {StatusLoading, StatusEmpty, StatusPopulated, StatusError},
	StatusEmpty:     {StatusLoading, StatusError},
	StatusPopulated: {StatusLoading, StatusError},
	StatusError:     {StatusLoading, StatusError},
}

func isValidTransition(current, next Status) bool {
	for _, valid := range validTransitions[current] {
		if valid == next {
			return true
		}
	}
	return false
}
