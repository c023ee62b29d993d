package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	NameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fd7ff"))
	FaintStyle = lipgloss.NewStyle().Faint(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	OkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)
