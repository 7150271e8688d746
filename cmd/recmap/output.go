package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"record-mapper/internal/diagnostic"
)

// styles renders for one writer. Color is dropped when w is not a terminal.
type styles struct {
	r       *lipgloss.Renderer
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)

	return &styles{
		r:       r,
		Header:  r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("12")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func (s *styles) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Muted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header.Padding(0, 1)
			}

			return s.r.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func (s *styles) severity(sev diagnostic.DiagnosticSeverity) lipgloss.Style {
	switch sev {
	case diagnostic.DiagnosticError:
		return s.Error
	case diagnostic.DiagnosticWarning:
		return s.Warning
	default:
		return s.Info
	}
}

func (s *styles) diagnostic(d diagnostic.Diagnostic) string {
	label := s.severity(d.Severity).Render(d.Severity.String())
	return label + " " + d.String()
}
