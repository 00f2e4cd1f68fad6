package tui

import (
	"treeline/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(s store.Store, st store.State) error {
	applyColorProfilePreference()
	m := newAppModel(s, st)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
