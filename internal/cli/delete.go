package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vexxhost/osm-deploy/internal/cli/resources"
)

func newDeleteCommand(root *rootOptions) *cobra.Command {
	registry := resources.NewRegistry()

	return &cobra.Command{
		Use:   "delete [resource] [name...]",
		Short: "Delete OSM resources by name or id",
		Long: `Delete OSM resources by name or id.

Examples:
  # Delete a network service instance
  osm-deploy delete ns ims

  # Same, using the resource/name form
  osm-deploy delete ns/ims`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("you must specify the type of resource to delete")
			}

			resourceType, names, err := parseResourceArgs(args)
			if err != nil {
				return err
			}

			if len(names) == 0 {
				return fmt.Errorf("you must specify at least one %s to delete", resourceType)
			}

			resource, ok := registry.Get(resourceType)
			if !ok {
				return fmt.Errorf("unknown resource type: %s. Available resources: %s",
					resourceType, strings.Join(registry.List(), ", "))
			}

			deleter, ok := resource.(resources.Deleter)
			if !ok {
				return fmt.Errorf("resource type %s does not support delete", resource.Name())
			}

			client, err := root.osmClient(cmd)
			if err != nil {
				return err
			}

			for _, name := range names {
				if err := deleter.Delete(cmd.Context(), client, name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s deleted\n", resource.Name(), name)
			}

			return nil
		},
	}
}
