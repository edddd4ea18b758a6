package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"nexusshop/internal/config"
	applog "nexusshop/internal/log"
	"nexusshop/internal/mail"
	"nexusshop/internal/repos"
	"nexusshop/internal/server"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

type testApp struct {
	app    *fiber.App
	db     *sqlx.DB
	cfg    config.Config
	sender *fakeSender
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DBDSN:        ":memory:",
		TemplatesDir: "../../web/templates",
		StaticDir:    "../../web/static",
		MediaDir:     t.TempDir(),
		SessionTTL:   time.Hour,
		RateLimit:    1000,
		ContactTo:    "support@nexusshop.test",
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := testConfig(t)
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	sender := &fakeSender{}
	app, _ := server.New(cfg, db, sender)
	return &testApp{app: app, db: db, cfg: cfg, sender: sender}
}

// client replays cookies between requests like a browser would.
type client struct {
	t   *testing.T
	app *fiber.App
	jar map[string]string
}

func (ta *testApp) client(t *testing.T) *client {
	return &client{t: t, app: ta.app, jar: map[string]string{}}
}

func (c *client) send(req *http.Request) *http.Response {
	c.t.Helper()
	for k, v := range c.jar {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	for _, ck := range resp.Cookies() {
		expired := ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now()))
		if ck.Value == "" || expired {
			delete(c.jar, ck.Name)
			continue
		}
		c.jar[ck.Name] = ck.Value
	}
	return resp
}

func (c *client) get(path string) *http.Response {
	c.t.Helper()
	return c.send(httptest.NewRequest(http.MethodGet, path, nil))
}

// token makes sure a CSRF cookie exists and returns it.
func (c *client) token() string {
	c.t.Helper()
	if tok := c.jar["csrf_"]; tok != "" {
		return tok
	}
	c.get("/login")
	tok := c.jar["csrf_"]
	if tok == "" {
		c.t.Fatal("csrf cookie missing")
	}
	return tok
}

// post submits form with a valid CSRF token.
func (c *client) post(path string, form url.Values) *http.Response {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf") == "" {
		form.Set("csrf", c.token())
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *client) postMultipart(path string, fields map[string]string, fileField, fileName string, content []byte) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if _, ok := fields["csrf"]; !ok {
		_ = w.WriteField("csrf", c.token())
	}
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			c.t.Fatal(err)
		}
		_, _ = fw.Write(content)
	}
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req)
}

func (c *client) login(username string) {
	c.t.Helper()
	resp := c.post("/login", url.Values{"username": {username}, "password": {repos.SeedPassword}})
	if resp.StatusCode != http.StatusFound {
		c.t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 to %s, got %d", to, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != to {
		t.Fatalf("expected redirect to %s, got %s", to, loc)
	}
}

type logEntry struct {
	Action string         `json:"action"`
	Kind   string         `json:"kind"`
	Level  string         `json:"level"`
	UserID int64          `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

// captureLogs collects the application log entries written during fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	defer applog.Setup("info", "")
	fn()

	var out []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
