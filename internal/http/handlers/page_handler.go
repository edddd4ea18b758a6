package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	applog "nexusshop/internal/log"
	"nexusshop/internal/services"
)

type PageHandler struct {
	Contact *services.ContactService
	Subs    *services.SubscriptionService
}

// Static returns a handler that renders tmpl with no extra data.
func Static(tmpl string) fiber.Handler {
	return func(c *fiber.Ctx) error { return render(c, tmpl, nil) }
}

func (h *PageHandler) ContactForm(c *fiber.Ctx) error {
	return render(c, "contact", nil)
}

func (h *PageHandler) SendContact(c *fiber.Ctx) error {
	name, email, msg := c.FormValue("name"), c.FormValue("email"), c.FormValue("message")
	err := h.Contact.Send(c.UserContext(), name, email, msg)
	switch {
	case err == nil:
		applog.Audit(c, "contact.sent", nil)
		setFlash(c, "success", "Your message has been sent. We'll be in touch soon.")
		return c.Redirect("/contact")
	case errors.Is(err, services.ErrBadHeader):
		applog.Security(c, "contact.bad_header", nil)
		setFlash(c, "error", "Invalid header found.")
		return c.Redirect("/contact")
	case errors.Is(err, services.ErrTransport):
		applog.Error(c, "contact.send", err, nil)
		setFlash(c, "error", "Sorry, your message could not be sent. Please try again later.")
		return c.Redirect("/contact")
	}
	if v, ok := services.AsValidation(err); ok {
		c.Status(fiber.StatusBadRequest)
		return render(c, "contact", fiber.Map{
			"Errors": v.Fields,
			"Form":   fiber.Map{"Name": name, "Email": email, "Message": msg},
		})
	}
	return err
}

func (h *PageHandler) Subscribe(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if email == "" {
		return c.Redirect("/")
	}
	err := h.Subs.Subscribe(c.UserContext(), email)
	if v, ok := services.AsValidation(err); ok {
		setFlash(c, "error", v.Fields["email"])
		return c.Redirect("/")
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "newsletter.subscribe", nil)
	setFlash(c, "success", "Thank you for subscribing to our newsletter!")
	return c.Redirect("/")
}
