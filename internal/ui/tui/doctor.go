package tui

import (
	"fmt"
	"strings"
)

// DoctorCheck is one line of the doctor report.
type DoctorCheck struct {
	Name     string `json:"name"`
	Ok       bool   `json:"ok"`
	Required bool   `json:"required"`
	Detail   string `json:"detail,omitempty"`
}

// Mark returns the status mark for the check: required failures get the
// cross, optional failures the warning mark.
func (c DoctorCheck) Mark() string {
	switch {
	case c.Ok:
		return checkMark
	case c.Required:
		return crossMark
	default:
		return warnMark
	}
}

// RenderDoctorReport renders the styled doctor report for interactive
// terminals. Sections are rendered in order; a section is a named group of
// checks.
func RenderDoctorReport(title string, sections []DoctorSection) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for _, section := range sections {
		b.WriteString(sectionStyle.Render("  " + section.Name))
		b.WriteString("\n")
		for _, check := range section.Checks {
			b.WriteString(renderCheck(check))
		}
	}

	return b.String()
}

// DoctorSection groups related checks under one heading.
type DoctorSection struct {
	Name   string        `json:"name"`
	Checks []DoctorCheck `json:"checks"`
}

// Failed reports whether any required check in any section failed.
func Failed(sections []DoctorSection) bool {
	for _, section := range sections {
		for _, check := range section.Checks {
			if !check.Ok && check.Required {
				return true
			}
		}
	}
	return false
}

func renderCheck(c DoctorCheck) string {
	var mark, name string
	switch {
	case c.Ok:
		mark = readyStyle.Render(c.Mark())
		name = c.Name
	case c.Required:
		mark = failedStyle.Render(c.Mark())
		name = failedStyle.Render(c.Name)
	default:
		mark = warningStyle.Render(c.Mark())
		name = warningStyle.Render(c.Name)
	}

	detail := ""
	if c.Detail != "" {
		detail = "  " + dimStyle.Render(c.Detail)
	}
	return fmt.Sprintf("  %s %s%s\n", mark, name, detail)
}
