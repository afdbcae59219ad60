// ABOUTME: Read-only profile panel for the logged-in user

package dashboard

import (
	"strings"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/tui/icons"
	"github.com/flyair/flyair-cli/internal/tui/styles"
)

// Profile renders the user's details in a panel.
func Profile(u *client.User) string {
	if u == nil {
		return styles.Panel.Render("No profile loaded")
	}
	twoFactor := "off"
	if u.TwoFactorEnabled {
		twoFactor = "on"
	}

	fields := [][2]string{
		{"Name", u.FullName()},
		{"Username", u.Username},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Role", string(u.Role)},
		{"Two-factor", twoFactor},
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.User.String() + " Profile"))
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(styles.KeyStyle.Render(padRight(f[0], 12)))
		sb.WriteString(styles.ValueStyle.Render(f[1]))
	}
	return styles.Panel.Render(sb.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
