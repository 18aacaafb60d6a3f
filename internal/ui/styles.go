package ui

import (
	"github.com/charmbracelet/lipgloss"

	"dreamlog/internal/display"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dreamTitle    = lipgloss.NewStyle().Bold(true)
	lucidBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("141")).Padding(0, 1)
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	signStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	selectedEntry = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("63")).
			PaddingLeft(1)
	entryStyle   = lipgloss.NewStyle().PaddingLeft(2)
	formBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	currentPage  = lipgloss.NewStyle().Bold(true).Underline(true)
	noticeStyles = map[display.NoticeKind]lipgloss.Style{
		display.NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		display.NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		display.NoticeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		display.NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)
