package services

import (
	"context"

	"nexusshop/internal/domain"
	"nexusshop/internal/repos"
)

const featuredLimit = 8

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

// ListFeatured returns up to eight in-stock products.
func (s *CatalogService) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.Featured(ctx, featuredLimit)
}

func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.All(ctx)
}

func (s *CatalogService) GetDetail(ctx context.Context, id int64) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

// ListByCategory fails with ErrNotFound for an unknown slug; a known category
// without products yields an empty slice.
func (s *CatalogService) ListByCategory(ctx context.Context, slug string) (domain.Category, []domain.Product, error) {
	cat, err := s.Cats.BySlug(ctx, slug)
	if err != nil {
		return domain.Category{}, nil, err
	}
	prods, err := s.Prods.ByCategory(ctx, cat.ID)
	if err != nil {
		return domain.Category{}, nil, err
	}
	return cat, prods, nil
}
