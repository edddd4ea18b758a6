package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestHomeListsFeaturedAndCategories(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.client(t).get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	s := body(t, resp)
	for _, want := range []string{"Wireless Headphones", "Smart Watch", "$199.99", "/category/home-kitchen"} {
		if !strings.Contains(s, want) {
			t.Fatalf("home missing %q", want)
		}
	}
}

func TestProductDetail(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.client(t).get("/products/2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	s := body(t, resp)
	for _, want := range []string{"<title>Smart Watch | NexusShop</title>", "$249.99", "30 in stock", `name="productId" value="2"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("detail missing %q", want)
		}
	}
}

func TestCategoryPages(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	s := body(t, c.get("/categories"))
	for _, want := range []string{"Electronics", "Fashion", "Home &amp; Kitchen"} {
		if !strings.Contains(s, want) {
			t.Fatalf("categories missing %q", want)
		}
	}

	s = body(t, c.get("/category/electronics"))
	if !strings.Contains(s, "Wireless Headphones") || !strings.Contains(s, "Smart Watch") {
		t.Fatal("electronics should list both seeded products")
	}
	s = body(t, c.get("/category/fashion"))
	if !strings.Contains(s, "No products in this category yet.") {
		t.Fatal("fashion should be empty")
	}
}

func TestInfoPages(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)
	pages := map[string]string{
		"/about":            "About us",
		"/faq":              "FAQ",
		"/return-policy":    "Return policy",
		"/shipping-info":    "Shipping information",
		"/contact":          "Contact us",
		"/products":         "All products",
		"/category/fashion": "Fashion",
	}
	for p, title := range pages {
		resp := c.get(p)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", p, resp.StatusCode)
		}
		if want := "<title>" + title + " | NexusShop</title>"; !strings.Contains(body(t, resp), want) {
			t.Fatalf("%s: missing %s", p, want)
		}
	}
	if !strings.Contains(body(t, c.get("/")), "<title>NexusShop</title>") {
		t.Fatal("home keeps the bare site title")
	}
}
