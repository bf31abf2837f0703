package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const help = "ctrl+r run · ctrl+x reset · ctrl+l clear · ctrl+n/ctrl+b lesson · ctrl+p search · " +
	"ctrl+e preview · ctrl+g mini website · ctrl+o/ctrl+k click · ctrl+t minimize · alt+arrows move · ctrl+c quit"

// View implements tea.Model.
func (m *Model) View() string {
	w := m.Current()
	header := titleStyle.Render(fmt.Sprintf("[%d/%d] %s", m.current+1, len(m.widgets), w.Title()))

	var source string
	if m.preview {
		source = highlight(m.editor.Value())
	} else {
		source = m.editor.View()
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		paneStyle.Render(source),
		paneStyle.Render(m.output.View()),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.fixtureView())

	parts := []string{header, body}
	if m.searching {
		parts = append(parts, m.search.View())
	}
	parts = append(parts, statusStyle.Render(m.status), helpStyle.Render(help))
	return strings.Join(parts, "\n")
}

func (m *Model) fixtureView() string {
	width := m.width - m.width*3/5 - 4
	if width < 20 {
		width = 20
	}
	style := fixtureStyle.Width(width)

	if !m.fixture.Exists {
		return style.Render(helpStyle.Render("No mini website yet (ctrl+g)"))
	}

	lines := []string{
		titleStyle.Render("Mini Website"),
		fmt.Sprintf("at %g,%g", m.fixture.Position.X, m.fixture.Position.Y),
	}
	if m.fixture.Minimized {
		lines = append(lines, helpStyle.Render("(minimized, ctrl+t to expand)"))
	} else {
		lines = append(lines, "", fixtureText(m.fixture.HTML))
	}
	lines = append(lines, "", "click target: "+targetStyle.Render(m.targets[m.target]))
	return style.Render(strings.Join(lines, "\n"))
}
