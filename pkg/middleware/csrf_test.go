package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/volt-go/volt/pkg/httpx"
	"github.com/volt-go/volt/pkg/session"
)

func csrfSetup(t *testing.T) (*session.Manager, func(method string, body io.Reader, decorate func(*http.Request)) *httpx.Request) {
	t.Helper()
	manager := session.NewManager(session.NewMemoryStore(time.Minute), nil)

	var cookie *http.Cookie
	build := func(method string, body io.Reader, decorate func(*http.Request)) *httpx.Request {
		raw := httptest.NewRequest(method, "/form", body)
		if cookie != nil {
			raw.AddCookie(cookie)
		}
		if decorate != nil {
			decorate(raw)
		}
		req := httpx.NewRequest(raw, "")
		manager.Middleware().Handle(req)
		if cookie == nil {
			cookie = &http.Cookie{Name: "volt_session", Value: session.FromRequest(req).ID()}
		}
		return req
	}
	return manager, build
}

func TestCSRFIssuesTokenOnSafeMethod(t *testing.T) {
	_, build := csrfSetup(t)
	mw := CSRF(CSRFConfig{})

	req := build(http.MethodGet, nil, nil)
	if resp := mw.Handle(req); resp != nil {
		t.Fatalf("safe method short-circuited: %+v", resp)
	}
	if Token(req, "") == "" {
		t.Error("safe request should have a token issued")
	}
}

func TestCSRFBlocksMissingToken(t *testing.T) {
	_, build := csrfSetup(t)
	mw := CSRF(CSRFConfig{})

	mw.Handle(build(http.MethodGet, nil, nil))

	resp := mw.Handle(build(http.MethodPost, nil, nil))
	if resp == nil {
		t.Fatal("mutating request without a token should be blocked")
	}
	if resp.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.Status)
	}
}

func TestCSRFAcceptsFormToken(t *testing.T) {
	_, build := csrfSetup(t)
	mw := CSRF(CSRFConfig{})

	first := build(http.MethodGet, nil, nil)
	mw.Handle(first)
	token := Token(first, "")

	body := strings.NewReader("_token=" + token)
	req := build(http.MethodPost, body, func(r *http.Request) {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	})
	if resp := mw.Handle(req); resp != nil {
		t.Errorf("valid form token rejected: %+v", resp)
	}
}

func TestCSRFAcceptsHeaderToken(t *testing.T) {
	_, build := csrfSetup(t)
	mw := CSRF(CSRFConfig{})

	first := build(http.MethodGet, nil, nil)
	mw.Handle(first)
	token := Token(first, "")

	req := build(http.MethodPost, nil, func(r *http.Request) {
		r.Header.Set("X-CSRF-Token", token)
	})
	if resp := mw.Handle(req); resp != nil {
		t.Errorf("valid header token rejected: %+v", resp)
	}
}

func TestCSRFWithoutSessionMiddleware(t *testing.T) {
	mw := CSRF(CSRFConfig{})
	req := httpx.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil), "")

	resp := mw.Handle(req)
	if resp == nil || resp.Status != http.StatusInternalServerError {
		t.Errorf("missing session should be a hard error, got %+v", resp)
	}
}
