package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	applog "nexusshop/internal/log"
	"nexusshop/internal/services"
)

type SellerHandler struct {
	Auth     *services.AuthService
	Seller   *services.SellerService
	Catalog  *services.CatalogService
	MediaDir string
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

const maxImageBytes = 5 << 20

func (h *SellerHandler) Dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	has, err := h.Auth.HasSellerProfile(c.UserContext(), u)
	if err != nil {
		return err
	}
	if !has {
		return c.Redirect("/seller/profile")
	}
	prods, err := h.Seller.ListOwnProducts(c.UserContext(), u)
	if err != nil {
		return err
	}
	return render(c, "seller_dashboard", fiber.Map{"Products": prods})
}

func (h *SellerHandler) ProfileForm(c *fiber.Ctx) error {
	has, err := h.Auth.HasSellerProfile(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	if has {
		return c.Redirect("/seller/dashboard")
	}
	return render(c, "seller_profile", nil)
}

func (h *SellerHandler) CreateProfile(c *fiber.Ctx) error {
	in := services.ProfileInput{StoreName: c.FormValue("store_name"), Bio: c.FormValue("bio")}
	_, err := h.Auth.CreateSellerProfile(c.UserContext(), currentUser(c), in)
	if v, ok := services.AsValidation(err); ok {
		c.Status(fiber.StatusBadRequest)
		return render(c, "seller_profile", fiber.Map{"Errors": v.Fields, "Form": in})
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "seller.profile.create", nil)
	setFlash(c, "success", "Your store is ready.")
	return c.Redirect("/seller/dashboard")
}

func (h *SellerHandler) AddProductForm(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "add_product", fiber.Map{"Categories": cats})
}

// saveImage stores the uploaded "image" file under MediaDir/products and
// returns its media-relative path. A missing file yields "".
func (h *SellerHandler) saveImage(c *fiber.Ctx) (rel, full string, msg string, err error) {
	fh, ferr := c.FormFile("image")
	if ferr != nil {
		return "", "", "", nil
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", "", "Upload a JPG, PNG, GIF or WEBP image.", nil
	}
	if fh.Size > maxImageBytes {
		return "", "", "Image must be 5 MB or smaller.", nil
	}
	dir := filepath.Join(h.MediaDir, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", "", errors.Wrap(err, "media dir")
	}
	name := uuid.NewString() + ext
	full = filepath.Join(dir, name)
	if err := c.SaveFile(fh, full); err != nil {
		return "", "", "", errors.Wrap(err, "save image")
	}
	return "products/" + name, full, "", nil
}

func (h *SellerHandler) AddProduct(c *fiber.Ctx) error {
	u := currentUser(c)
	rel, full, imgMsg, err := h.saveImage(c)
	if err != nil {
		return err
	}
	in := services.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Image:       rel,
		Category:    c.FormValue("category"),
		Stock:       c.FormValue("stock"),
	}
	p, err := h.Seller.CreateProduct(c.UserContext(), u, in)
	if err != nil && full != "" {
		_ = os.Remove(full)
	}
	if v, ok := services.AsValidation(err); ok {
		if imgMsg != "" {
			v.Fields["image"] = imgMsg
		}
		cats, cerr := h.Catalog.ListCategories(c.UserContext())
		if cerr != nil {
			return cerr
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "add_product", fiber.Map{"Categories": cats, "Errors": v.Fields, "Form": in})
	}
	if errors.Is(err, services.ErrForbidden) {
		applog.Security(c, "access.denied.seller", nil)
		return c.Redirect("/")
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "seller.product.create", map[string]any{"product": p.ID})
	setFlash(c, "success", "Product added.")
	return c.Redirect("/seller/dashboard")
}
