package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"nexusshop/internal/domain"
	"nexusshop/internal/repos"
	"nexusshop/internal/validate"
)

type SellerService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewSellerService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *SellerService {
	return &SellerService{Cats: cats, Prods: prods}
}

// ProductInput is the raw add-product form.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Image       string
	Category    string
	Stock       string
}

func (s *SellerService) ListOwnProducts(ctx context.Context, actor *domain.User) ([]domain.Product, error) {
	if !actor.IsSeller() {
		return nil, ErrForbidden
	}
	return s.Prods.BySeller(ctx, actor.ID)
}

// CreateProduct validates in and stores a product owned by actor. Non-sellers
// are refused before the input is looked at.
func (s *SellerService) CreateProduct(ctx context.Context, actor *domain.User, in ProductInput) (*domain.Product, error) {
	if !actor.IsSeller() {
		return nil, ErrForbidden
	}
	verr := &ValidationError{}
	name, ok := validate.Text(in.Name, 200)
	if !ok {
		verr.Add("name", "Name is required (up to 200 characters).")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		verr.Add("description", "Description is required.")
	}
	price, ok := validate.Price(in.Price)
	if !ok {
		verr.Add("price", "Enter a non-negative price with at most 2 decimal places.")
	}
	image := strings.TrimSpace(in.Image)
	if image == "" {
		verr.Add("image", "An image is required.")
	}
	stock, ok := validate.Stock(in.Stock)
	if !ok {
		verr.Add("stock", "Stock must be a whole number of 0 or more.")
	}
	var catID int64
	if id, ok := validate.ID(in.Category); !ok {
		verr.Add("category", "Select a category.")
	} else if _, err := s.Cats.ByID(ctx, id); err != nil {
		if !errors.Is(err, repos.ErrNotFound) {
			return nil, err
		}
		verr.Add("category", "Select a valid category.")
	} else {
		catID = id
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{
		SellerID:    actor.ID,
		CategoryID:  sql.NullInt64{Int64: catID, Valid: true},
		Name:        name,
		Slug:        slug,
		Description: desc,
		Price:       price,
		Image:       image,
		Stock:       stock,
	}
	err = s.Prods.Create(ctx, p)
	if errors.Is(err, repos.ErrDuplicate) {
		// lost a race on the slug
		p.Slug = slug + "-" + uuid.NewString()[:8]
		err = s.Prods.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SellerService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := validate.Slugify(name)
	if base == "" {
		base = "product"
	}
	if len(base) > 180 {
		base = strings.Trim(base[:180], "-")
	}
	for i := 1; i <= 50; i++ {
		cand := base
		if i > 1 {
			cand = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := s.Prods.SlugExists(ctx, cand)
		if err != nil {
			return "", err
		}
		if !taken {
			return cand, nil
		}
	}
	return base + "-" + uuid.NewString()[:8], nil
}
