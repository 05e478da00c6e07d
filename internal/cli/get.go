package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vexxhost/osm-deploy/internal/cli/resources"
)

// GetCmd handles the get command
type GetCmd struct {
	root     *rootOptions
	registry *resources.Registry

	outputFormat string
	noHeaders    bool
}

func newGetCommand(root *rootOptions) *cobra.Command {
	g := &GetCmd{
		root:     root,
		registry: resources.NewRegistry(),
	}

	cmd := &cobra.Command{
		Use:   "get [resource] [name...]",
		Short: "Display one or many OSM resources",
		Long:  g.getLongDescription(),
		RunE:  g.run,
	}

	cmd.Flags().StringVarP(&g.outputFormat, "output", "o", "", "Output format. One of: (json, yaml)")
	cmd.Flags().BoolVar(&g.noHeaders, "no-headers", false, "When using the default output format, don't print headers")

	return cmd
}

func (g *GetCmd) getLongDescription() string {
	return fmt.Sprintf(`Display one or many OSM resources.

Prints a table of the most important information about the specified resources.
Resources can be selected by name or id.

Available resources: %s

Examples:
  # List all network service instances
  osm-deploy get ns

  # Show a network service instance as YAML
  osm-deploy get ns/ims -o yaml

  # Show several instances
  osm-deploy get ns ims,epc

  # Show a VIM account as JSON
  osm-deploy get vim openstack-site -o json`, strings.Join(g.registry.List(), ", "))
}

func (g *GetCmd) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("you must specify the type of resource to get. Available resources: %s",
			strings.Join(g.registry.List(), ", "))
	}

	resourceType, resourceNames, err := parseResourceArgs(args)
	if err != nil {
		return err
	}

	resource, ok := g.registry.Get(resourceType)
	if !ok {
		return fmt.Errorf("unknown resource type: %s. Available resources: %s",
			resourceType, strings.Join(g.registry.List(), ", "))
	}

	switch g.outputFormat {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", g.outputFormat)
	}

	client, err := g.root.osmClient(cmd)
	if err != nil {
		return err
	}

	list, err := resource.List(cmd.Context(), client, resourceNames)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if g.outputFormat == "" {
		return printTable(list, out, g.noHeaders)
	}

	var obj interface{} = list.Items
	if len(resourceNames) == 1 && len(list.Items) == 1 {
		obj = list.Items[0]
	}

	return printObject(obj, out, g.outputFormat)
}

// parseResourceArgs accepts both "resource name..." and "resource/name"
// forms. Names may be comma separated.
func parseResourceArgs(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("no arguments provided")
	}

	firstArg := strings.ToLower(args[0])

	if strings.Contains(firstArg, "/") {
		parts := strings.Split(args[0], "/")
		if len(parts) != 2 {
			return "", nil, fmt.Errorf("arguments in resource/name form may not have more than one slash")
		}

		resourceType := strings.ToLower(parts[0])
		resourceName := parts[1]

		if len(resourceType) == 0 || len(resourceName) == 0 {
			return "", nil, fmt.Errorf("arguments in resource/name form must have a single resource and name")
		}

		if len(args) > 1 {
			return "", nil, fmt.Errorf("there is no need to specify additional arguments when using resource/name form")
		}

		return resourceType, splitNames(resourceName), nil
	}

	var resourceNames []string
	for _, arg := range args[1:] {
		resourceNames = append(resourceNames, splitNames(arg)...)
	}

	return firstArg, resourceNames, nil
}

func splitNames(arg string) []string {
	seen := map[string]bool{}

	var names []string
	for _, name := range strings.Split(arg, ",") {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}
