package internal

import (
	"stopwatch_tui/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorGreen   = lipgloss.Color("82")
	colorRed     = lipgloss.Color("196")
	colorNeutral = lipgloss.Color("69")
	colorDark    = lipgloss.Color("235")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorDark).
			Bold(true).
			Padding(0, 1)

	countStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.DoubleBorder())

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	focusedButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Underline(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 4)

	errStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// stateColor is the two-tone color tied to the running flag.
func stateColor(running bool) lipgloss.Color {
	if running {
		return colorGreen
	}
	return colorRed
}

func (m *Model) mainView(s timer.State) string {
	widget := lipgloss.JoinVertical(lipgloss.Center,
		m.statusView(s),
		"",
		titleStyle.Render("Stopwatch"),
		"",
		m.displayView(s),
		"",
		m.buttonsView(s),
	)
	if m.Err != nil {
		widget = lipgloss.JoinVertical(lipgloss.Center, widget, "", errStyle.Render(m.Err.Error()))
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		boxStyle.Render(widget),
		m.help.View(m.keys),
	)

	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) statusView(s timer.State) string {
	return badgeStyle.Background(stateColor(s.Running)).Render(s.Label())
}

func (m *Model) displayView(s timer.State) string {
	c := stateColor(s.Running)
	return countStyle.
		Foreground(c).
		BorderForeground(c).
		Render(timer.FormatTime(s.Elapsed))
}

func (m *Model) buttonsView(s timer.State) string {
	label := "Start"
	color := colorGreen
	if s.Running {
		label = "Stop"
		color = colorRed
	}

	primary := m.renderButton(label, color, m.Focus == focusPrimary)
	reset := m.renderButton("Reset", colorNeutral, m.Focus == focusReset)
	return lipgloss.JoinHorizontal(lipgloss.Center, primary, "  ", reset)
}

func (m *Model) renderButton(label string, color lipgloss.Color, focused bool) string {
	if focused {
		label = focusedButtonStyle.Render(label)
	}
	return buttonStyle.
		Foreground(color).
		BorderForeground(color).
		Render(label)
}
