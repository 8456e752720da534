package tui

import (
	"fmt"
	"strings"
	"time"
)

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderPhases(&b, m)

	if len(m.Warnings) > 0 {
		renderWarnings(&b, m)
	}
	if m.Done && m.Err == nil && len(m.Credentials) > 0 {
		renderCredentials(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("socksup: SOCKS5 proxy on port %d", m.Port)))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Failed: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Provisioned")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render("Provisioning...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Pipeline"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var mark, name string
		switch {
		case phase.Err != nil:
			mark = failedStyle.Render(crossMark)
			name = failedStyle.Render(phase.Name)
		case phase.Done:
			mark = readyStyle.Render(checkMark)
			name = phase.Name
		case phase.Active:
			mark = activeStyle.Render(currentSpinner(m.SpinnerFrame))
			name = activeStyle.Render(phase.Name)
		default:
			mark = dimStyle.Render(pending)
			name = dimStyle.Render(phase.Name)
		}

		progress := ""
		if phase.Active && phase.Total > 0 {
			progress = dimStyle.Render(fmt.Sprintf("  %d/%d", phase.Current, phase.Total))
		}
		fmt.Fprintf(b, "  %s %s%s\n", mark, name, progress)

		if phase.Err != nil {
			fmt.Fprintf(b, "       %s\n", failedStyle.Render(phase.Err.Error()))
		}
	}

	if !m.Done && m.LastLog != "" {
		fmt.Fprintf(b, "  %s\n", dimStyle.Render(truncate(m.LastLog, m.Width)))
	}
}

func renderWarnings(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Warnings"))
	b.WriteString("\n")
	for _, w := range m.Warnings {
		fmt.Fprintf(b, "  %s %s\n", warningStyle.Render(warnMark), warningStyle.Render(w))
	}
}

// renderCredentials shows the generated accounts in the final frame. The
// rendered proxy config is their only other record.
func renderCredentials(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Credentials (shown once)"))
	b.WriteString("\n")
	for _, cred := range m.Credentials {
		fmt.Fprintf(b, "  %s\n", credentialStyle.Render(fmt.Sprintf("%s / %s", cred.Username, cred.Password)))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	if m.Done {
		b.WriteString(footerStyle.Render(fmt.Sprintf("  finished in %s", elapsed)))
	} else {
		b.WriteString(footerStyle.Render(fmt.Sprintf("  %s elapsed • q to abort", elapsed)))
	}
	b.WriteString("\n")
}

func truncate(s string, width int) string {
	if width <= 4 || len(s) <= width-4 {
		return s
	}
	return s[:width-4] + "…"
}
