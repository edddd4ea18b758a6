package handlers

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"nexusshop/internal/domain"
	applog "nexusshop/internal/log"
	"nexusshop/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// landing is where a user goes after signing in.
func landing(u *domain.User) string {
	if u.IsSeller() {
		return "/seller/dashboard"
	}
	return "/"
}

// safeNext only honours local paths. Browsers drop control characters from
// URLs, so any of them could turn "/x/y" into a protocol-relative redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	if strings.ContainsFunc(next, unicode.IsControl) {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if u := currentUser(c); u != nil {
		return c.Redirect(landing(u))
	}
	return render(c, "login", fiber.Map{"Next": safeNext(c.Query("next"))})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	next := safeNext(c.FormValue("next"))
	u, err := h.Auth.Login(c.UserContext(), username, c.FormValue("password"))
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{
			"Err":      "Invalid username or password.",
			"Username": username,
			"Next":     next,
		})
	}
	if err != nil {
		return err
	}
	if err := signIn(c, u); err != nil {
		return err
	}
	c.Locals(localUser, u)
	applog.Audit(c, "auth.login.success", nil)
	if next != "" {
		return c.Redirect(next)
	}
	return c.Redirect(landing(u))
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	if u := currentUser(c); u != nil {
		return c.Redirect(landing(u))
	}
	return render(c, "register", fiber.Map{"Form": registerForm(services.RegisterInput{}, "buyer")})
}

func registerForm(in services.RegisterInput, kind string) fiber.Map {
	return fiber.Map{
		"Username": in.Username, "Email": in.Email, "Phone": in.Phone,
		"Address": in.Address, "UserType": kind,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	in := services.RegisterInput{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
		Phone:     c.FormValue("phone"),
		Address:   c.FormValue("address"),
	}
	kind := c.FormValue("user_type", "buyer")
	role, _ := domain.ParseRole(kind)

	u, err := h.Auth.Register(c.UserContext(), in, role)
	if v, ok := services.AsValidation(err); ok {
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{
			"Errors": v.Fields,
			"Form":   registerForm(in, kind),
		})
	}
	if err != nil {
		return err
	}
	if err := signIn(c, u); err != nil {
		return err
	}
	c.Locals(localUser, u)
	applog.Audit(c, "auth.register", map[string]any{"role": u.Role.String()})
	if u.IsSeller() {
		setFlash(c, "success", "Welcome! Set up your store to start selling.")
		return c.Redirect("/seller/profile")
	}
	setFlash(c, "success", "Your account has been created.")
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.logout", nil)
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/")
}

// Dashboard is the signed-in landing for buyers; sellers get their own.
func (h *AuthHandler) Dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	if u.IsSeller() {
		return c.Redirect("/seller/dashboard")
	}
	return render(c, "dashboard", nil)
}
