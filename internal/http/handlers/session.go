package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"nexusshop/internal/domain"
	"nexusshop/internal/services"
)

const (
	localSession = "session"
	localUser    = "user"
	localCount   = "CartCount"

	sessUserID = "user_id"
)

// Sessions loads the visitor's session once per request and parks it in
// Locals. Handlers that change it must call Save and stop using it.
func Sessions(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		c.Locals(localSession, sess)
		return c.Next()
	}
}

func sessionOf(c *fiber.Ctx) (*session.Session, error) {
	sess, ok := c.Locals(localSession).(*session.Session)
	if !ok || sess == nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "session middleware missing")
	}
	return sess, nil
}

// LoadUser attaches the signed-in user, if any, to Locals("user").
func LoadUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess, err := sessionOf(c); err == nil {
			if id, ok := sess.Get(sessUserID).(int64); ok && id > 0 {
				if u, err := auth.CurrentUser(c.UserContext(), id); err == nil {
					c.Locals(localUser, u)
				}
			}
		}
		return c.Next()
	}
}

// CartCount exposes the cart's item total to every rendered page.
func CartCount(cart *services.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n := 0
		if sess, err := sessionOf(c); err == nil {
			n = cart.TotalCount(sess)
		}
		c.Locals(localCount, n)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(localUser).(*domain.User)
	return u
}

// signIn rotates the session id and binds it to u.
func signIn(c *fiber.Ctx, u *domain.User) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessUserID, u.ID)
	return sess.Save()
}
