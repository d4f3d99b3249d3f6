package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles, symbols and the panel border.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, DoneText, Index                     lipgloss.Style
	Frame                                         lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

var current = classic()

// SetTheme switches the active theme. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

// Current returns the active theme.
func Current() Theme { return current }

func classic() Theme {
	s := lipgloss.NewStyle
	return Theme{
		Name:         "classic",
		Title:        s().Bold(true),
		Muted:        s().Faint(true),
		Accent:       s().Foreground(lipgloss.Color("12")),
		Success:      s().Foreground(lipgloss.Color("42")),
		Error:        s().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      s().Foreground(lipgloss.Color("214")),
		Selected:     s().Bold(true).Reverse(true),
		DoneText:     s().Faint(true).Strikethrough(true),
		Index:        s().Faint(true),
		Frame:        s().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		BoxUnchecked: "☐",
		BoxChecked:   "☑",
		SymDone:      "✔",
		SymPending:   "•",
	}
}

func neon() Theme {
	t := classic()
	s := lipgloss.NewStyle
	t.Name = "neon"
	t.Title = s().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = s().Foreground(lipgloss.Color("14"))
	t.Pending = s().Foreground(lipgloss.Color("11"))
	t.Frame = s().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("13")).Padding(0, 1)
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:  "mono",
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
		Selected: plain, DoneText: plain, Index: plain,
		Frame:        lipgloss.NewStyle().Border(asciiBorder).Padding(0, 1),
		BoxUnchecked: "[ ]",
		BoxChecked:   "[x]",
		SymDone:      "x",
		SymPending:   "-",
	}
}
