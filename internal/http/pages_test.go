package handlers_test

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestSubscribeIsIdempotent(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	for i := 0; i < 2; i++ {
		expectRedirect(t, c.post("/subscribe", url.Values{"email": {"Fan@Example.com"}}), "/")
		if !strings.Contains(body(t, c.get("/")), "Thank you for subscribing to our newsletter!") {
			t.Fatalf("attempt %d: thank-you flash missing", i)
		}
	}
	var n int
	if err := ta.db.Get(&n, `SELECT COUNT(*) FROM subscribers WHERE email = 'fan@example.com'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected one subscriber row, got %d", n)
	}
}

func TestSubscribeEmptyAndInvalid(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	expectRedirect(t, c.post("/subscribe", url.Values{"email": {""}}), "/")
	if strings.Contains(body(t, c.get("/")), "flash") {
		t.Fatal("empty email should be silent")
	}

	expectRedirect(t, c.post("/subscribe", url.Values{"email": {"not-an-email"}}), "/")
	if !strings.Contains(body(t, c.get("/")), "flash-error") {
		t.Fatal("invalid email should flash an error")
	}
}

func TestContactSendsMail(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	resp := c.post("/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello there"}})
	expectRedirect(t, resp, "/contact")
	if !strings.Contains(body(t, c.get("/contact")), "Your message has been sent.") {
		t.Fatal("success flash missing")
	}
	if len(ta.sender.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(ta.sender.sent))
	}
	m := ta.sender.sent[0]
	if m.Subject != "Contact Form Submission from Ada" || m.To[0] != "support@nexusshop.test" {
		t.Fatalf("unexpected mail: %+v", m)
	}
}

func TestContactRejectsHeaderInjection(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	resp := c.post("/contact", url.Values{"name": {"Eve\r\nBcc: all@example.com"}, "email": {"eve@example.com"}, "message": {"hi"}})
	expectRedirect(t, resp, "/contact")
	if !strings.Contains(body(t, c.get("/contact")), "Invalid header found.") {
		t.Fatal("header flash missing")
	}
	if len(ta.sender.sent) != 0 {
		t.Fatal("no mail should be sent")
	}
}

func TestContactTransportFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.sender.err = errors.New("connection refused")
	c := ta.client(t)

	resp := c.post("/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello"}})
	expectRedirect(t, resp, "/contact")
	s := body(t, c.get("/contact"))
	if !strings.Contains(s, "could not be sent") || strings.Contains(s, "connection refused") {
		t.Fatal("transport failure should flash a generic error")
	}
}

func TestContactValidation(t *testing.T) {
	ta := newTestApp(t)
	c := ta.client(t)

	resp := c.post("/contact", url.Values{"name": {""}, "email": {"bad"}, "message": {""}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if len(ta.sender.sent) != 0 {
		t.Fatal("no mail should be sent")
	}
}
