package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/vexxhost/osm-deploy/internal/cli/resources"
)

// printTable prints a borderless table in the style of kubectl get
func printTable(list *resources.List, out io.Writer, noHeaders bool) error {
	if len(list.Rows) == 0 {
		_, err := fmt.Fprintln(out, "No resources found.")
		return err
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(3)
		}).
		Rows(list.Rows...)

	if !noHeaders {
		t = t.Headers(list.Headers...)
	}

	_, err := fmt.Fprintln(out, t.Render())
	return err
}

// printObject prints data in JSON or YAML format
func printObject(obj interface{}, out io.Writer, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
