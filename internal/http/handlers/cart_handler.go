package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	applog "nexusshop/internal/log"
	"nexusshop/internal/services"
	"nexusshop/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	cv, err := h.Cart.View(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return notFound(c, "Product not found")
	}
	qty := 1
	if raw := c.FormValue("qty"); raw != "" {
		if qty, ok = validate.Qty(raw); !ok {
			return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("quantity must be a whole number from 1 to %d", validate.MaxQty))
		}
	}
	err = h.Cart.Add(c.UserContext(), sess, id, qty)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, "Product not found")
	}
	if v, ok := services.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).SendString(v.Fields["quantity"])
	}
	if err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}
	applog.Audit(c, "cart.add", map[string]any{"product": id, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid product")
	}
	qty, err := cast.ToIntE(strings.TrimSpace(c.FormValue("qty")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid quantity")
	}
	err = h.Cart.SetQuantity(sess, id, qty)
	if v, ok := services.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).SendString(v.Fields["quantity"])
	}
	if err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}
	applog.Audit(c, "cart.update", map[string]any{"product": id, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid product")
	}
	if err := h.Cart.Remove(sess, id); err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}
	applog.Audit(c, "cart.remove", map[string]any{"product": id})
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	h.Cart.Clear(sess)
	if err := sess.Save(); err != nil {
		return err
	}
	applog.Audit(c, "cart.clear", nil)
	return c.Redirect("/cart")
}

// Count serves the header badge.
func (h *CartHandler) Count(c *fiber.Ctx) error {
	n, _ := c.Locals(localCount).(int)
	return c.JSON(fiber.Map{"count": n})
}
