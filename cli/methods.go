package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/replicalint/replicalint/analyzer/replica"
	"github.com/replicalint/replicalint/cli/output"
)

// methodsOutput is the machine-readable shape of the methods listing.
type methodsOutput struct {
	Read  []replica.Method `json:"read" yaml:"read"`
	Write []replica.Method `json:"write" yaml:"write"`
}

// NewMethodsCommand creates the methods command.
func NewMethodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the store methods tracked by the scanner",
		Long: `List the write and read methods the scanner classifies.

The vocabulary is fixed: calls to any method outside this set are ignored by
the analysis.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMethods(cmd)
		},
	}
}

func runMethods(cmd *cobra.Command) error {
	r := GetRenderer(cmd.Context())

	listing := methodsOutput{
		Read:  replica.ReadMethods(),
		Write: replica.WriteMethods(),
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(listing)
	case output.ModeYAML:
		return r.YAML(listing)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Method", "Kind"})
	for _, method := range listing.Write {
		t.AppendRow(table.Row{string(method), string(replica.Write)})
	}
	for _, method := range listing.Read {
		t.AppendRow(table.Row{string(method), string(replica.Read)})
	}
	t.Render()
	return nil
}
