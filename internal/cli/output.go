package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/goevidently/internal/evclient"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// PrintResult writes an evaluation result in the given format.
// The text format is three lines: reason, variation, value.
func PrintResult(w io.Writer, r *evclient.Result, format OutputFormat) error {
	switch format {
	case FormatText, "":
		return printText(w, r)
	case FormatJSON:
		return printJSON(w, r)
	case FormatYAML:
		return printYAML(w, r)
	case FormatTable:
		return printTable(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printText(w io.Writer, r *evclient.Result) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", r.Reason, r.Variation, evclient.FormatValue(r.Value))
	return err
}

func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printTable(w io.Writer, r *evclient.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Entity ID", "Reason", "Variation", "Value")
	if err := table.Append(r.EntityID, r.Reason, r.Variation, evclient.FormatValue(r.Value)); err != nil {
		return err
	}
	return table.Render()
}
