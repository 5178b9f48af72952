// Package ui renders command output as styled terminal text, plain text,
// JSON or YAML.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/oukaro/pkg/reconcile"
	"github.com/arthur-debert/oukaro/pkg/types"
	"gopkg.in/yaml.v3"
)

// Renderer writes command results in one format.
type Renderer struct {
	w      io.Writer
	format Format
	styles styles
}

// NewRenderer resolves FormatAuto against output and returns a renderer.
func NewRenderer(format Format, output io.Writer) *Renderer {
	if format == FormatAuto {
		format = FormatText
		if file, ok := output.(*os.File); ok {
			format = DetectFormat(file)
		}
	}
	return &Renderer{w: output, format: format, styles: newStyles(format == FormatTerminal)}
}

// Format returns the resolved output format.
func (r *Renderer) Format() Format {
	return r.format
}

func (r *Renderer) encode(v interface{}) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %s is not structured", r.format)
	}
}

func (r *Renderer) structured() bool {
	return r.format == FormatJSON || r.format == FormatYAML
}

// RenderStatus prints one row per package.
func (r *Renderer) RenderStatus(rows []types.PackageStatus) error {
	if r.structured() {
		if rows == nil {
			rows = []types.PackageStatus{}
		}
		return r.encode(map[string]interface{}{"packages": rows})
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.w, MsgNoPackages)
		return err
	}

	width := 0
	for _, row := range rows {
		if n := len(row.Package); n > width {
			width = n
		}
	}

	var b strings.Builder
	current := ""
	for _, row := range rows {
		if row.Role != current {
			if current != "" {
				b.WriteString("\n")
			}
			b.WriteString(r.styles.heading.Render(row.Role + ":"))
			b.WriteString("\n")
			current = row.Role
		}
		state := r.styles.state(row.State).Render(fmt.Sprintf("%-13s", row.State))
		fmt.Fprintf(&b, "  %-*s  %s  %s", width, row.Package, state, r.styles.muted.Render(row.Target))
		if row.Message != "" {
			fmt.Fprintf(&b, "  %s", row.Message)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

type desiredView struct {
	SystemApp []string `json:"system_app" yaml:"system_app"`
	PrivApp   []string `json:"priv_app" yaml:"priv_app"`
}

// RenderDesired prints the declared packages per role.
func (r *Renderer) RenderDesired(state types.DesiredState) error {
	if r.structured() {
		return r.encode(desiredView{
			SystemApp: state.SystemApps.Strings(),
			PrivApp:   state.PrivApps.Strings(),
		})
	}

	var b strings.Builder
	for i, role := range types.AllRoles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.styles.heading.Render(role.String() + ":"))
		b.WriteString("\n")
		set := state.Set(role)
		if set.Len() == 0 {
			b.WriteString(r.styles.muted.Render("  (none)"))
			b.WriteString("\n")
			continue
		}
		for _, name := range set.Strings() {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

type passView struct {
	Results  []packageResultView `json:"results" yaml:"results"`
	Injected desiredView         `json:"injected" yaml:"injected"`
	Duration string              `json:"duration" yaml:"duration"`
}

type packageResultView struct {
	Package string `json:"package" yaml:"package"`
	Role    string `json:"role" yaml:"role"`
	Op      string `json:"op" yaml:"op"`
	Outcome string `json:"outcome" yaml:"outcome"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RenderPass prints the outcome of a reconciliation pass.
func (r *Renderer) RenderPass(result reconcile.PassResult) error {
	if r.structured() {
		view := passView{
			Results: []packageResultView{},
			Injected: desiredView{
				SystemApp: result.Snapshot.Set(types.RoleSystemApp).Strings(),
				PrivApp:   result.Snapshot.Set(types.RolePrivApp).Strings(),
			},
			Duration: result.Duration.String(),
		}
		for _, res := range result.Results {
			v := packageResultView{
				Package: string(res.Package),
				Role:    res.Role.String(),
				Op:      string(res.Op),
				Outcome: string(res.Outcome),
				Source:  res.Source,
			}
			if res.Err != nil {
				v.Error = res.Err.Error()
			}
			view.Results = append(view.Results, v)
		}
		return r.encode(view)
	}

	if len(result.Results) == 0 {
		_, err := fmt.Fprintln(r.w, MsgNothingToDo)
		return err
	}
	var b strings.Builder
	for _, res := range result.Results {
		mark := r.styles.outcome(res.Outcome).Render(fmt.Sprintf("%-9s", res.Outcome))
		fmt.Fprintf(&b, "  %s  %s %s", mark, res.Role, res.Package)
		if res.Err != nil {
			fmt.Fprintf(&b, ": %v", res.Err)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, MsgPassSummary, result.Count(reconcile.OutcomeApplied),
		result.Count(reconcile.OutcomeRetracted), result.Count(reconcile.OutcomeSkipped),
		result.Count(reconcile.OutcomeFailed))
	_, err := io.WriteString(r.w, b.String())
	return err
}

// RenderMessage prints a plain message line.
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, r.styles.success.Render(msg))
	return err
}

// Message templates
const (
	MsgNoPackages  = "No packages declared or injected."
	MsgNothingToDo = "Nothing to do."
	MsgPassSummary = "\n%d applied, %d retracted, %d skipped, %d failed\n"
)
