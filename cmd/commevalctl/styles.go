package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/scoring"
)

type styles struct {
	header lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	dim    lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (s styles) grade(g string) lipgloss.Style {
	switch g {
	case scoring.GradeExcellent, scoring.GradeGood:
		return s.good
	case scoring.GradeMedium, scoring.GradePassing:
		return s.warn
	default:
		return s.bad
	}
}
