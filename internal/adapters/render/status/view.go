package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/bilive-keeper/internal/application"
	"github.com/bnema/bilive-keeper/internal/domain"
)

func renderView(statuses []application.Status, s styles) string {
	lines := []string{
		s.title.Render("Bilibili Live Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderAccount(status, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(status application.Status, s styles) string {
	parts := []string{
		s.account.Render(accountTitle(status.Account)),
		stateLine(status.Account, s),
		tasksLine(status.Account.Tasks, s),
		credentialsLine(status, s),
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func accountTitle(account domain.Account) string {
	label := strings.TrimSpace(account.Label())
	if label != string(account.ID) {
		return fmt.Sprintf("%s (uid %s)", label, account.ID)
	}
	return fmt.Sprintf("uid %s", account.ID)
}

func stateLine(account domain.Account, s styles) string {
	if account.Active {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			s.key.Render("state: "),
			s.enabled.Render("active"),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.key.Render("state: "),
		s.disabled.Render("paused"),
	)
}

func tasksLine(tasks domain.TaskFlags, s styles) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.key.Render("tasks: "),
		flag("sign", tasks.DoSign, s),
		s.detail.Render("  "),
		flag("treasure", tasks.TreasureBox, s),
		s.detail.Render("  "),
		flag("events", tasks.EventRooms, s),
	)
}

func credentialsLine(status application.Status, s styles) string {
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		s.key.Render("auth:  "),
		flag("token", status.TokenConfigured, s),
		s.detail.Render("  "),
		flag("cookie", status.CookieConfigured, s),
	)

	if !status.TokenConfigured && !status.CookieConfigured {
		line += " " + s.warning.Render("[no credentials]")
	}

	return line
}

func flag(name string, on bool, s styles) string {
	if on {
		return s.enabled.Render(name + ":on")
	}
	return s.disabled.Render(name + ":off")
}
