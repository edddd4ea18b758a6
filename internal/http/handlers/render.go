package handlers

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

type Flash struct {
	Kind string // success | error
	Text string
}

// setFlash leaves a one-shot message for the next rendered page.
func setFlash(c *fiber.Ctx, kind, text string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(kind + "|" + text)),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func popFlash(c *fiber.Ctx) (Flash, bool) {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return Flash{}, false
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Flash{}, false
	}
	kind, text, ok := strings.Cut(string(b), "|")
	if !ok {
		return Flash{}, false
	}
	return Flash{Kind: kind, Text: text}, true
}

// titles names each page for the <title> tag. Pages about one record pass
// their own Title.
var titles = map[string]string{
	"products":         "All products",
	"categories":       "Categories",
	"about":            "About us",
	"faq":              "FAQ",
	"return_policy":    "Return policy",
	"shipping_info":    "Shipping information",
	"contact":          "Contact us",
	"login":            "Log in",
	"register":         "Create an account",
	"dashboard":        "My account",
	"seller_dashboard": "Your products",
	"seller_profile":   "Set up your store",
	"add_product":      "Add a product",
	"cart":             "Your cart",
	"notfound":         "Not found",
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Title"]; !ok {
		if t, ok := titles[tmpl]; ok {
			data["Title"] = t
		}
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		// Fallback for handlers mounted without the CSRF middleware's context key.
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	n, _ := c.Locals(localCount).(int)
	data["CartCount"] = n
	if f, ok := popFlash(c); ok {
		data["Flash"] = f
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	c.Status(fiber.StatusNotFound)
	return render(c, "notfound", fiber.Map{"Message": msg})
}
