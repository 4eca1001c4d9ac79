// Package report renders the end-of-run summary for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/course"
)

// Renderer styles a TraversalResult for terminal output.
type Renderer struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	subtle lipgloss.Style
}

// NewRenderer builds a renderer with the default color scheme.
func NewRenderer() *Renderer {
	return &Renderer{
		title:  lipgloss.NewStyle().Bold(true),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		subtle: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Summary renders the whole run: a header line, one line per module, and
// the failure table when anything was written off.
func (r *Renderer) Summary(result *course.TraversalResult) string {
	var b strings.Builder

	b.WriteString(r.title.Render("Run summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d modules seen, %s, %s\n",
		result.ModulesSeen,
		r.ok.Render(fmt.Sprintf("%d lessons completed", result.LessonsCompleted)),
		r.renderFailureCount(len(result.Failures)),
	))

	for _, m := range result.Modules {
		b.WriteString(r.moduleLine(m))
		b.WriteString("\n")
	}

	if len(result.Failures) > 0 {
		b.WriteString(r.fail.Render("Abandoned lessons:"))
		b.WriteString("\n")
		for _, f := range result.Failures {
			b.WriteString(fmt.Sprintf("  module %d (%s), lesson %d (%s): %s\n",
				f.Module, f.ModuleTitle, f.Lesson, f.LessonTitle, f.Reason))
		}
	}

	return b.String()
}

func (r *Renderer) renderFailureCount(n int) string {
	if n == 0 {
		return r.subtle.Render("no failures")
	}
	return r.fail.Render(fmt.Sprintf("%d lessons abandoned", n))
}

func (r *Renderer) moduleLine(m course.ModuleReport) string {
	progress := fmt.Sprintf("%d/%d", m.Done, m.Total)
	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = fmt.Sprintf("module %d", m.Position)
	}

	var state string
	switch m.State {
	case course.ModuleDone:
		state = r.ok.Render("done")
	case course.ModuleFailed:
		state = r.fail.Render("failed")
	default:
		state = r.warn.Render(m.State.String())
	}
	return fmt.Sprintf("  [%d] %s %s %s", m.Position, title, r.subtle.Render(progress), state)
}
