package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"nexusshop/internal/services"
	"nexusshop/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	featured, err := h.Catalog.ListFeatured(c.UserContext())
	if err != nil {
		return err
	}
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "home", fiber.Map{"Featured": featured, "Categories": cats})
}

func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	prods, err := h.Catalog.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "products", fiber.Map{"Products": prods})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Product not found")
	}
	p, err := h.Catalog.GetDetail(c.UserContext(), id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, "Product not found")
	}
	if err != nil {
		return err
	}
	return render(c, "product", fiber.Map{"Product": p, "Title": p.Name})
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "categories", fiber.Map{"Categories": cats})
}

func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return notFound(c, "Category not found")
	}
	cat, prods, err := h.Catalog.ListByCategory(c.UserContext(), slug)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, "Category not found")
	}
	if err != nil {
		return err
	}
	return render(c, "category", fiber.Map{"Category": cat, "Products": prods, "Title": cat.Name})
}
