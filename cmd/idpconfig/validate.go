package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/angryss/idp-config/pkg/binding"
	"github.com/angryss/idp-config/pkg/fetch"
	"github.com/angryss/idp-config/pkg/schema"
	"github.com/angryss/idp-config/pkg/validation"
)

type resourceFile struct {
	Context   schema.Context     `yaml:"context"`
	Resources []binding.Resource `yaml:"resources"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a declared resource list against its property schemas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var file resourceFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("could not parse %s: %w", args[0], err)
			}
			if file.Context == "" {
				file.Context = schema.ContextBlueprint
			}

			cache := fetch.NewCache(fetch.NewClient(commonCfg.apiURL))
			failures := 0
			for _, resource := range file.Resources {
				key := schema.FetchKey{
					ResourceTypeID:  resource.ResourceTypeID,
					CloudProviderID: resource.CloudProviderID,
					Context:         file.Context,
					Actor:           commonCfg.actor,
				}
				result, err := cache.Schema(cmd.Context(), key)
				if err != nil {
					return err
				}
				results := validation.ValidateAll(result.Properties, resource.Configuration)
				names := make([]string, 0, len(results))
				for name := range results {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					if r := results[name]; !r.Valid {
						failures++
						fmt.Printf("%s: %s\n", resource.Name, r.Error)
					}
				}
				zap.S().Debugf("validated %s against %d properties", resource.Name, len(result.Properties))
			}
			if failures > 0 {
				return fmt.Errorf("%d validation failure(s)", failures)
			}
			fmt.Println("all resource configurations are valid")
			return nil
		},
	}
}
