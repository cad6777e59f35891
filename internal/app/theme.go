package app

import "charm.land/lipgloss/v2"

var (
	headerStyle              = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle                = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle              = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activityStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	errorStyle               = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	noteStyle                = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noteSummaryStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	selectedStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	dirtyMarkerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Bold(true)
	dividerStyle             = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	fieldLabelStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	fieldLabelFocusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
	menuDropStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235"))
	dialogHeaderStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).Background(lipgloss.Color("235")).Bold(true)
	confirmDialogBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208"))
	previewFrameStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	toastInfoStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	toastErrorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
)
