package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// handleSearchInput edits the search buffer. The filter is re-applied on
// every keystroke.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m.applyTerm(""), nil

	case tea.KeyEnter:
		m.inputMode = NormalMode
		m.inputBuffer = ""
		if nodetree.IsBlankTerm(m.state.Term) {
			return m, nil
		}
		m.state = m.state.ExpandMatches()
		m.syncTree()
		m.state = m.state.SetMessage(m.matchSummary(), false)
		return m, m.flash()

	case tea.KeyBackspace, tea.KeyDelete:
		if r := []rune(m.inputBuffer); len(r) > 0 {
			m.inputBuffer = string(r[:len(r)-1])
		}
		return m.applyTerm(m.inputBuffer), nil

	case tea.KeyCtrlU:
		m.inputBuffer = ""
		return m.applyTerm(""), nil

	case tea.KeySpace:
		m.inputBuffer += " "
		return m.applyTerm(m.inputBuffer), nil

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
		return m.applyTerm(m.inputBuffer), nil
	}

	return m, nil
}

func (m Model) applyTerm(term string) Model {
	m.state = m.state.SetTerm(term)
	m.syncTree()
	return m
}

// searchMatches counts nodes matching the active term on their own path.
func (m Model) searchMatches() int {
	return nodetree.CountMatches(m.state.Nodes, m.state.Term)
}

func (m Model) matchSummary() string {
	switch n := m.searchMatches(); n {
	case 0:
		return fmt.Sprintf("No matches for %q", m.state.Term)
	case 1:
		return "1 match"
	default:
		return fmt.Sprintf("%d matches", n)
	}
}
