package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"noithat/internal/config"
	"noithat/internal/http/handlers"
	"noithat/internal/repos"
	"noithat/internal/services"
)

func newCartApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", MediaDir: "../../web/media"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	deps := handlers.NewDeps(db, cfg, authSvc)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/api/v1/cart/summary", deps.CartHandler.Summary)
	app.Get("/login", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	return app, db
}

type summary struct {
	Count int   `json:"count"`
	Total int64 `json:"total"`
}

func getSummary(t *testing.T, app *fiber.App, sid string) summary {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/cart/summary", nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	var s summary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	return s
}

func postForm(t *testing.T, app *fiber.App, path, csrfTok, sid, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader("csrf="+csrfTok+"&"+body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCartFlowAddMergeUpdateRemove(t *testing.T) {
	app, db := newCartApp(t)

	respTok, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respTok, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	// First add mints a session cookie.
	resp := postForm(t, app, "/cart", csrfTok, "", "productId=1&qty=2")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("add expected redirect, got %d", resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("sid not set after cart add")
	}

	// Same product again merges into one line.
	postForm(t, app, "/cart", csrfTok, sid, "productId=1&qty=1")
	if s := getSummary(t, app, sid); s.Count != 3 || s.Total != 3*1590000 {
		t.Fatalf("after merge want count=3 total=4770000, got %+v", s)
	}

	// The durable slot holds the snapshot in its wire shape.
	var snap string
	if err := db.Get(&snap, `SELECT snapshot FROM cart_slots WHERE session_id=?`, sid); err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if !strings.Contains(snap, `"sanPham"`) || !strings.Contains(snap, `"soLuong":3`) {
		t.Fatalf("unexpected snapshot: %s", snap)
	}

	// Second product, then drop it again.
	postForm(t, app, "/cart", csrfTok, sid, "productId=2&qty=1")
	if s := getSummary(t, app, sid); s.Count != 4 {
		t.Fatalf("want count=4, got %+v", s)
	}
	postForm(t, app, "/cart/remove", csrfTok, sid, "productId=2")
	if s := getSummary(t, app, sid); s.Count != 3 {
		t.Fatalf("after remove want count=3, got %+v", s)
	}

	// Quantity zero removes the remaining line.
	postForm(t, app, "/cart/update", csrfTok, sid, "productId=1&qty=0")
	if s := getSummary(t, app, sid); s.Count != 0 || s.Total != 0 {
		t.Fatalf("after zeroing want empty cart, got %+v", s)
	}
}

func TestCartIsolatedPerSession(t *testing.T) {
	app, _ := newCartApp(t)

	respTok, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respTok, "csrf_")

	resp := postForm(t, app, "/cart", csrfTok, "", "productId=1&qty=1")
	sid := extractCookie(resp, "sid")

	if s := getSummary(t, app, sid); s.Count != 1 {
		t.Fatalf("owner should see 1 item, got %+v", s)
	}
	if s := getSummary(t, app, "someone-else"); s.Count != 0 {
		t.Fatalf("stranger should see empty cart, got %+v", s)
	}
}
