package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/angryss/idp-config/pkg/fetch"
	"github.com/angryss/idp-config/pkg/schema"
)

func newSchemaCmd() *cobra.Command {
	var artifact string

	cmd := &cobra.Command{
		Use:   "schema [resource-type-id] [cloud-provider-id]",
		Short: "Fetch the property schema for a resource type and cloud provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resourceTypeID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid resource type id %q: %w", args[0], err)
			}
			cloudProviderID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid cloud provider id %q: %w", args[1], err)
			}

			cache := fetch.NewCache(fetch.NewClient(commonCfg.apiURL))
			result, err := cache.Schema(cmd.Context(), schema.FetchKey{
				ResourceTypeID:  resourceTypeID,
				CloudProviderID: cloudProviderID,
				Context:         schema.Context(artifact),
				Actor:           commonCfg.actor,
			})
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(result)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&artifact, "context", string(schema.ContextBlueprint), `Artifact context ("blueprint" or "stack")`)
	return cmd
}
