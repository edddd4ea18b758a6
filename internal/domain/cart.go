package domain

import (
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type CartItem struct {
	Quantity int `json:"quantity"`
}

// Cart maps a product id (decimal string) to its line. It lives in the
// visitor's session, never in the relational store.
type Cart map[string]CartItem

func cartKey(productID int64) string { return strconv.FormatInt(productID, 10) }

// Add merges qty into any existing line for the product.
func (c Cart) Add(productID int64, qty int) {
	k := cartKey(productID)
	it := c[k]
	it.Quantity += qty
	c[k] = it
}

// Set replaces the line quantity; qty <= 0 drops the line.
func (c Cart) Set(productID int64, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	c[cartKey(productID)] = CartItem{Quantity: qty}
}

func (c Cart) Remove(productID int64) { delete(c, cartKey(productID)) }

func (c Cart) Quantity(productID int64) int { return c[cartKey(productID)].Quantity }

func (c Cart) TotalCount() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// ProductIDs returns the ids in the cart in ascending order. Keys that are
// not valid ids are skipped.
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for k := range c {
		if id, err := strconv.ParseInt(k, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c Cart) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeCart parses a stored cart. Lines with a non-positive quantity are
// discarded.
func DecodeCart(s string) (Cart, error) {
	c := Cart{}
	if s == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return Cart{}, err
	}
	if c == nil {
		c = Cart{}
	}
	for k, it := range c {
		if it.Quantity <= 0 {
			delete(c, k)
		}
	}
	return c, nil
}
