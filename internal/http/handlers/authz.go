package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"nexusshop/internal/domain"
	applog "nexusshop/internal/log"
)

// Decision is the outcome of an access check.
type Decision int

const (
	Allowed Decision = iota
	// DeniedLogin: nobody is signed in; send them to the login page.
	DeniedLogin
	// DeniedRedirect: signed in without the needed role; send them home.
	DeniedRedirect
)

// Authorize decides whether u may use an operation that needs role. A zero
// role only requires a signed-in user.
func Authorize(u *domain.User, role domain.Role) Decision {
	if u == nil {
		return DeniedLogin
	}
	if role != 0 && u.Role != role {
		return DeniedRedirect
	}
	return Allowed
}

func guard(role domain.Role, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch Authorize(currentUser(c), role) {
		case DeniedLogin:
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		case DeniedRedirect:
			applog.Security(c, action, nil)
			return c.Redirect("/")
		}
		return c.Next()
	}
}

// RequireUser lets any signed-in user through.
func RequireUser() fiber.Handler { return guard(0, "access.denied.user") }

// RequireSeller lets only sellers through.
func RequireSeller() fiber.Handler { return guard(domain.RoleSeller, "access.denied.seller") }
