// Package output renders command results for terminals and machine
// consumers. Results go to stdout; advisory notices go to stderr so piped
// json or yaml output stays parseable.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Mode selects how command output is rendered.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
)

// Styles bundles the lipgloss styles used for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Path    lipgloss.Style
}

func newStyles() *Styles {
	return &Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Path:    lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

func plainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:  plain,
		Bold:    plain,
		Muted:   plain,
		Success: plain,
		Error:   plain,
		Warning: plain,
		Info:    plain,
		Path:    plain,
	}
}

// Renderer writes command output for one invocation.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer for the given output mode.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return &Renderer{out: out, errOut: errOut, mode: mode, styles: newStyles()}
}

// DisableColor switches all styles to plain text rendering.
func (r *Renderer) DisableColor() {
	r.styles = plainStyles()
}

// EffectiveMode resolves the configured mode to the one used for rendering.
// ModeAuto and unknown values fall back to text.
func (r *Renderer) EffectiveMode() Mode {
	switch r.mode {
	case ModeJSON:
		return ModeJSON
	case ModeYAML, "yml":
		return ModeYAML
	default:
		return ModeText
	}
}

// Writer returns the stream results are written to.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Styles returns the active style set.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Println writes a line to the output stream.
func (r *Renderer) Println(line string) {
	_, _ = fmt.Fprintln(r.out, line)
}

// Success writes a highlighted confirmation line.
func (r *Renderer) Success(message string) {
	r.Println(r.styles.Success.Render(message))
}

// Warn writes an advisory line to the error stream.
func (r *Renderer) Warn(message string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render(message))
}

// JSON encodes v to the output stream with indentation.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML encodes v to the output stream.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
