package ui

import (
	"github.com/arthur-debert/oukaro/pkg/reconcile"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors for light and dark terminals
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#EF6C00", Dark: "#FFB74D"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
)

type styles struct {
	heading lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	plain   lipgloss.Style
}

// newStyles returns colored styles, or no-op styles for plain output.
func newStyles(color bool) styles {
	plain := lipgloss.NewStyle()
	if !color {
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		heading: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
		failure: lipgloss.NewStyle().Bold(true).Foreground(colorError),
		plain:   plain,
	}
}

func (s styles) state(state types.StatusState) lipgloss.Style {
	switch state {
	case types.StatusStateInjected:
		return s.success
	case types.StatusStatePending, types.StatusStateNotInstalled:
		return s.warning
	case types.StatusStateOrphaned:
		return s.muted
	case types.StatusStateError:
		return s.failure
	default:
		return s.plain
	}
}

func (s styles) outcome(outcome reconcile.Outcome) lipgloss.Style {
	switch outcome {
	case reconcile.OutcomeApplied, reconcile.OutcomeRetracted:
		return s.success
	case reconcile.OutcomeSkipped:
		return s.warning
	case reconcile.OutcomeFailed:
		return s.failure
	default:
		return s.muted
	}
}
