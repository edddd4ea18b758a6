package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"nexusshop/internal/domain"
	"nexusshop/internal/repos"
	"nexusshop/internal/validate"
)

// SessionStore is the per-visitor key/value capability the cart lives in.
// *session.Session from Fiber satisfies it.
type SessionStore interface {
	Get(key string) interface{}
	Set(key string, val interface{})
	Delete(key string)
}

const cartSessionKey = "cart"

type CartService struct {
	Prods *repos.ProductRepo
}

func NewCartService(prods *repos.ProductRepo) *CartService {
	return &CartService{Prods: prods}
}

// Get returns the visitor's cart; absent or unreadable data is an empty cart.
func (s *CartService) Get(store SessionStore) domain.Cart {
	raw, _ := store.Get(cartSessionKey).(string)
	c, err := domain.DecodeCart(raw)
	if err != nil {
		return domain.Cart{}
	}
	return c
}

func (s *CartService) put(store SessionStore, c domain.Cart) error {
	if len(c) == 0 {
		store.Delete(cartSessionKey)
		return nil
	}
	raw, err := c.Encode()
	if err != nil {
		return err
	}
	store.Set(cartSessionKey, raw)
	return nil
}

var msgLineCap = fmt.Sprintf("At most %d of one product per cart.", validate.MaxQty)

// Add merges qty units of the product into the cart. Stock is not consulted,
// but a line never exceeds validate.MaxQty.
func (s *CartService) Add(ctx context.Context, store SessionStore, productID int64, qty int) error {
	if qty < 1 || qty > validate.MaxQty {
		return fieldError("quantity", "Quantity must be a positive whole number.")
	}
	if _, err := s.Prods.Get(ctx, productID); err != nil {
		return err
	}
	c := s.Get(store)
	if c.Quantity(productID) > validate.MaxQty-qty {
		return fieldError("quantity", msgLineCap)
	}
	c.Add(productID, qty)
	return s.put(store, c)
}

// SetQuantity replaces a line; qty <= 0 removes it.
func (s *CartService) SetQuantity(store SessionStore, productID int64, qty int) error {
	if qty > validate.MaxQty {
		return fieldError("quantity", msgLineCap)
	}
	c := s.Get(store)
	c.Set(productID, qty)
	return s.put(store, c)
}

func (s *CartService) Remove(store SessionStore, productID int64) error {
	c := s.Get(store)
	c.Remove(productID)
	return s.put(store, c)
}

func (s *CartService) Clear(store SessionStore) {
	store.Delete(cartSessionKey)
}

func (s *CartService) TotalCount(store SessionStore) int {
	return s.Get(store).TotalCount()
}

type CartLine struct {
	Product  domain.Product
	Quantity int
	Subtotal decimal.Decimal
}

type CartView struct {
	Lines []CartLine
	Count int
	Total decimal.Decimal
}

// View prices the cart against the current catalog. Lines whose product has
// gone away are left out.
func (s *CartService) View(ctx context.Context, store SessionStore) (CartView, error) {
	c := s.Get(store)
	ids := c.ProductIDs()
	prods, err := s.Prods.ByIDs(ctx, ids)
	if err != nil {
		return CartView{}, err
	}
	v := CartView{Lines: []CartLine{}, Total: decimal.Zero}
	for _, id := range ids {
		p, ok := prods[id]
		if !ok {
			continue
		}
		q := c.Quantity(id)
		sub := p.Price.Mul(decimal.NewFromInt(int64(q)))
		v.Lines = append(v.Lines, CartLine{Product: p, Quantity: q, Subtotal: sub})
		v.Count += q
		v.Total = v.Total.Add(sub)
	}
	return v, nil
}
