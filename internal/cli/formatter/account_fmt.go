package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftbook/internal/domain"
)

// FormatUser renders the signed-in account.
func FormatUser(u *domain.User, backend string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("NAME   "), Bold(u.DisplayName()))
	fmt.Fprintf(&b, "%s  %s\n", Dim("EMAIL  "), u.Email)
	if u.AvatarURL != "" {
		fmt.Fprintf(&b, "%s  %s\n", Dim("AVATAR "), u.AvatarURL)
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "%s  %s\n", Dim("SINCE  "), u.CreatedAt.Local().Format("Jan 2, 2006"))
	}
	fmt.Fprintf(&b, "%s  %s", Dim("BACKEND"), backend)
	return RenderBox("Account", b.String())
}
