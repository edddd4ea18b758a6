package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestLoginRedirectsByRole(t *testing.T) {
	ta := newTestApp(t)

	buyer := ta.client(t)
	resp := buyer.post("/login", url.Values{"username": {"buyer1"}, "password": {"Passw0rd!"}})
	expectRedirect(t, resp, "/")

	seller := ta.client(t)
	resp = seller.post("/login", url.Values{"username": {"SELLER1"}, "password": {"Passw0rd!"}})
	expectRedirect(t, resp, "/seller/dashboard")
}

func TestLoginFailureIsGeneric(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	for _, form := range []url.Values{
		{"username": {"buyer1"}, "password": {"wrong"}},
		{"username": {"ghost"}, "password": {"Passw0rd!"}},
	} {
		resp := c.post("/login", form)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		if !strings.Contains(body(t, resp), "Invalid username or password.") {
			t.Fatal("generic error missing")
		}
	}
	if _, ok := c.jar["sid"]; ok {
		t.Fatal("failed login must not establish a session")
	}
}

func TestLoginHonoursLocalNextOnly(t *testing.T) {
	ta := newTestApp(t)

	c := ta.client(t)
	resp := c.post("/login", url.Values{"username": {"buyer1"}, "password": {"Passw0rd!"}, "next": {"/cart"}})
	expectRedirect(t, resp, "/cart")

	c = ta.client(t)
	resp = c.post("/login", url.Values{"username": {"buyer1"}, "password": {"Passw0rd!"}, "next": {"/products/1?ref=mail"}})
	expectRedirect(t, resp, "/products/1?ref=mail")

	for _, next := range []string{
		"//evil.example",
		"/\\evil.example",
		"/\t/evil.example",
		"/\r\n/evil.example",
		"https://evil.example/",
		"evil.example",
	} {
		c = ta.client(t)
		resp = c.post("/login", url.Values{"username": {"buyer1"}, "password": {"Passw0rd!"}, "next": {next}})
		expectRedirect(t, resp, "/")
	}
}

func TestRegisterBuyerSignsIn(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	resp := c.post("/register", url.Values{
		"username": {"alice"}, "email": {"Alice@Example.com"},
		"password1": {"Str0ng!pass"}, "password2": {"Str0ng!pass"},
		"user_type": {"buyer"},
	})
	expectRedirect(t, resp, "/")

	home := body(t, c.get("/"))
	if !strings.Contains(home, "Your account has been created.") {
		t.Fatal("welcome flash missing")
	}
	if !strings.Contains(home, "Log out (alice)") {
		t.Fatal("new user is not signed in")
	}

	resp = c.get("/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "alice@example.com") {
		t.Fatal("email should be stored lowercased")
	}
}

func TestRegisterSellerGoesToProfile(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	resp := c.post("/register", url.Values{
		"username": {"bob"}, "email": {"bob@example.com"},
		"password1": {"Str0ng!pass"}, "password2": {"Str0ng!pass"},
		"user_type": {"seller"},
	})
	expectRedirect(t, resp, "/seller/profile")

	resp = c.post("/seller/profile", url.Values{"store_name": {"Bob's Gadgets"}, "bio": {"Cables and more"}})
	expectRedirect(t, resp, "/seller/dashboard")

	resp = c.get("/seller/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "You have not listed any products yet.") {
		t.Fatal("empty product table missing")
	}

	// A second profile is not offered.
	expectRedirect(t, c.get("/seller/profile"), "/seller/dashboard")
}

func TestRegisterRejectsBadInput(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	resp := c.post("/register", url.Values{
		"username": {"buyer1"}, "email": {"nope"},
		"password1": {"short"}, "password2": {"different"},
		"user_type": {"admin"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	s := body(t, resp)
	for _, want := range []string{"Select a valid account type.", "Enter a valid email address."} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q", want)
		}
	}
	var n int
	if err := ta.db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("no user should be created, have %d", n)
	}
}

func TestRegisterEscapesEchoedInput(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	resp := c.post("/register", url.Values{
		"username": {`"><script>alert(1)</script>`}, "email": {"x@example.com"},
		"password1": {"Str0ng!pass"}, "password2": {"Str0ng!pass"},
		"user_type": {"buyer"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if strings.Contains(body(t, resp), "<script>alert(1)</script>") {
		t.Fatal("echoed input was not escaped")
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)
	c.login("buyer1")

	if resp := c.get("/dashboard"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 while signed in, got %d", resp.StatusCode)
	}
	expectRedirect(t, c.post("/logout", nil), "/")
	expectRedirect(t, c.get("/dashboard"), "/login?next=%2Fdashboard")
}

func TestLoginRotatesSessionID(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	c.post("/cart", url.Values{"productId": {"1"}})
	before := c.jar["sid"]
	if before == "" {
		t.Fatal("cart should start a session")
	}
	c.login("buyer1")
	if after := c.jar["sid"]; after == "" || after == before {
		t.Fatalf("session id not rotated: %q -> %q", before, after)
	}
	if !strings.Contains(body(t, c.get("/api/v1/cart/count")), `"count":1`) {
		t.Fatal("cart should survive login")
	}
}
