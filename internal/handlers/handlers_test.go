package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"atelier/web/internal/cache"
	"atelier/web/internal/config"
	"atelier/web/internal/content"
	"atelier/web/internal/service"
	"atelier/web/internal/session"
	"atelier/web/internal/work"
)

const (
	testToken  = "session-token"
	testCookie = "atelier_token"
)

// fakeContentAPI stands in for the real content service. It accepts one
// credential pair and serves a small fixed catalog.
type fakeContentAPI struct {
	works map[int]work.Work
}

func text(s string) *string { return &s }

func newFakeContentAPI() *fakeContentAPI {
	return &fakeContentAPI{
		works: map[int]work.Work{
			1: {ID: 1, Title: "morning rain", Author: "mira", Category: work.CategoryPoem,
				ContentType: work.ContentTypeText, Content: text("drops on glass"), IsPublished: true,
				CreatedAt: time.Now(), UpdatedAt: time.Now()},
			2: {ID: 2, Title: "unfinished draft", Author: "mira", Category: work.CategoryPoem,
				ContentType: work.ContentTypeText, Content: text("not yet"), IsPublished: false,
				CreatedAt: time.Now(), UpdatedAt: time.Now()},
		},
	}
}

func (f *fakeContentAPI) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+testToken
}

func (f *fakeContentAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /admin/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "admin" || creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": testToken})
	})

	mux.HandleFunc("GET /admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	})

	mux.HandleFunc("GET /works", func(w http.ResponseWriter, r *http.Request) {
		list := make([]work.Work, 0, len(f.works))
		for id := 1; id <= len(f.works)+1; id++ {
			if item, ok := f.works[id]; ok {
				list = append(list, item)
			}
		}
		json.NewEncoder(w).Encode(list)
	})

	mux.HandleFunc("GET /work/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		item, ok := f.works[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(item)
	})

	mux.HandleFunc("PUT /work/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id, _ := strconv.Atoi(r.PathValue("id"))
		item, ok := f.works[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		item.IsPublished = !item.IsPublished
		f.works[id] = item
		json.NewEncoder(w).Encode(item)
	})

	mux.HandleFunc("DELETE /works/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id, _ := strconv.Atoi(r.PathValue("id"))
		if _, ok := f.works[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.works, id)
		w.Write([]byte(`{}`))
	})

	return mux
}

func newTestApp(t *testing.T) (*gin.Engine, *fakeContentAPI) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := newFakeContentAPI()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	cfg := &config.AppConfig{
		ContentAPI: config.ContentAPIConfig{
			BaseURL:        srv.URL,
			AssetBaseURL:   srv.URL,
			RequestTimeout: 5 * time.Second,
		},
		Session: config.SessionConfig{
			CookieName:    testCookie,
			CookieMaxAge:  time.Hour,
			VerifyTimeout: time.Second,
		},
		Site:        config.SiteConfig{Title: "atelier", AdminUserID: 1},
		TemplateDir: "../../web/templates",
	}

	logger := zerolog.Nop()
	client := content.NewClient(cfg.ContentAPI, srv.Client(), logger)
	works := service.NewWorkService(client, cache.NewWorkCache(nil, time.Minute, logger), logger)
	store := session.NewCookieStore(cfg.Session)
	guard := session.NewGuard(store, client, "/admin/login", cfg.Session.VerifyTimeout, logger)

	handlerSet, err := NewHandlerSet(logger, cfg, works, client, guard, store)
	if err != nil {
		t.Fatalf("build handlers: %v", err)
	}

	engine := gin.New()
	handlerSet.Register(engine)
	return engine, api
}

func get(engine *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func postForm(engine *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: testCookie, Value: testToken}
}

// csrfPair fetches the login page to obtain a matching cookie and form token.
func csrfPair(t *testing.T, engine *gin.Engine) (*http.Cookie, string) {
	t.Helper()
	rec := get(engine, "/admin/login")
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "atelier_csrf" {
			return cookie, cookie.Value
		}
	}
	t.Fatal("login page did not issue a form token")
	return nil, ""
}

func TestPublicGalleryHidesDrafts(t *testing.T) {
	engine, _ := newTestApp(t)

	rec := get(engine, "/works")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "morning rain") {
		t.Error("published work missing from the gallery")
	}
	if strings.Contains(body, "unfinished draft") {
		t.Error("draft leaked into the public gallery")
	}
}

func TestDraftDetailLooksMissing(t *testing.T) {
	engine, _ := newTestApp(t)

	published := get(engine, "/works/poem/1")
	if published.Code != http.StatusOK {
		t.Fatalf("published detail status %d", published.Code)
	}

	draft := get(engine, "/works/poem/2")
	if draft.Code != http.StatusNotFound {
		t.Fatalf("draft detail status %d, want 404", draft.Code)
	}
	if strings.Contains(draft.Body.String(), "unfinished draft") {
		t.Fatal("draft content leaked")
	}
}

func TestUnknownCategoryIsNotFound(t *testing.T) {
	engine, _ := newTestApp(t)
	if rec := get(engine, "/works/sculpture"); rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestAdminRedirectsWithoutSession(t *testing.T) {
	engine, _ := newTestApp(t)

	rec := get(engine, "/admin/dashboard")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want redirect", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/admin/login" {
		t.Fatalf("location %q", got)
	}
}

func TestLoginFlow(t *testing.T) {
	engine, _ := newTestApp(t)
	csrfCookie, csrfToken := csrfPair(t, engine)

	rec := postForm(engine, "/admin/login", url.Values{
		"username":   {"admin"},
		"password":   {"secret"},
		"csrf_token": {csrfToken},
	}, csrfCookie)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/admin/dashboard" {
		t.Fatalf("location %q", got)
	}

	var stored *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookie {
			stored = cookie
		}
	}
	if stored == nil || stored.Value != testToken {
		t.Fatalf("credential not stored: %+v", stored)
	}

	dashboard := get(engine, "/admin/dashboard", stored)
	if dashboard.Code != http.StatusOK {
		t.Fatalf("dashboard status %d", dashboard.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine, _ := newTestApp(t)
	csrfCookie, csrfToken := csrfPair(t, engine)

	rec := postForm(engine, "/admin/login", url.Values{
		"username":   {"admin"},
		"password":   {"wrong"},
		"csrf_token": {csrfToken},
	}, csrfCookie)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "invalid credentials") {
		t.Error("rejection message missing")
	}
	if !strings.Contains(body, "admin") {
		t.Error("entered username not preserved")
	}
}

func TestLoginPostWithoutFormTokenRejected(t *testing.T) {
	engine, _ := newTestApp(t)

	rec := postForm(engine, "/admin/login", url.Values{
		"username": {"admin"},
		"password": {"secret"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}

func TestStaleSessionClearedOnAdminView(t *testing.T) {
	engine, _ := newTestApp(t)

	rec := get(engine, "/admin/dashboard", &http.Cookie{Name: testCookie, Value: "stale"})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want redirect", rec.Code)
	}

	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookie && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("rejected credential left in place")
	}
}

func TestAdminWorksListsDrafts(t *testing.T) {
	engine, _ := newTestApp(t)

	rec := get(engine, "/admin/works", sessionCookie())
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "morning rain") || !strings.Contains(body, "unfinished draft") {
		t.Fatal("admin listing must include drafts")
	}
}

func TestTogglePublishFromAdmin(t *testing.T) {
	engine, api := newTestApp(t)
	csrfCookie, csrfToken := csrfPair(t, engine)

	rec := postForm(engine, "/admin/works/2/publish", url.Values{
		"csrf_token": {csrfToken},
	}, csrfCookie, sessionCookie())

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if !api.works[2].IsPublished {
		t.Fatal("toggle did not reach the content service")
	}

	// the draft is now visible publicly
	if gallery := get(engine, "/works"); !strings.Contains(gallery.Body.String(), "unfinished draft") {
		t.Fatal("published work still hidden from the gallery")
	}
}

func TestDeleteWorkFromAdmin(t *testing.T) {
	engine, api := newTestApp(t)
	csrfCookie, csrfToken := csrfPair(t, engine)

	rec := postForm(engine, "/admin/works/1/delete", url.Values{
		"csrf_token": {csrfToken},
	}, csrfCookie, sessionCookie())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/admin/works" {
		t.Fatalf("location %q", got)
	}
	if _, still := api.works[1]; still {
		t.Fatal("work not deleted")
	}
}

func TestCreateWorkValidationReRendersForm(t *testing.T) {
	engine, _ := newTestApp(t)
	csrfCookie, csrfToken := csrfPair(t, engine)

	rec := postForm(engine, "/admin/works", url.Values{
		"title":      {""},
		"author":     {"mira"},
		"category":   {"poem"},
		"content":    {"kept text"},
		"csrf_token": {csrfToken},
	}, csrfCookie, sessionCookie())

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kept text") {
		t.Fatal("entered content not preserved on the re-rendered form")
	}
}
