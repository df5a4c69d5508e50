package chi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/shopassist/internal/domain/reply"
)

func TestRouter_RequiresTokenForChat(t *testing.T) {
	a := &mockAssistant{reply: reply.Canned("greeting", "Hello!")}
	h := newTestRouter(t, a, RouterConfig{APIKeys: []string{"secret"}})

	rr := postJSON(h, "/chat", `{"message":"hi"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("with token: got %d, want 200", rr.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	a := &mockAssistant{reply: reply.Canned("greeting", "Hello!")}
	h := newTestRouter(t, a, RouterConfig{RateLimit: 2, RateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		if rr := postJSON(h, "/chat", `{"message":"hi"}`); rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i, rr.Code)
		}
	}
	rr := postJSON(h, "/chat", `{"message":"hi"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("over limit: got %d, want 429", rr.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrorCodeRateLimited {
		t.Errorf("code: got %q", resp.Code)
	}

	// Listing is outside the limited group.
	req := httptest.NewRequest(http.MethodGet, "/products", http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/products: got %d, want 200", rec.Code)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	a := &mockAssistant{reply: reply.Canned("greeting", "Hello!")}
	h := newTestRouter(t, a, RouterConfig{})

	for i := 0; i < 20; i++ {
		if rr := postJSON(h, "/chat", `{"message":"hi"}`); rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i, rr.Code)
		}
	}
}

func TestRouter_PanicRecovered(t *testing.T) {
	h := newTestRouter(t, &mockAssistant{panic: true}, RouterConfig{})

	rr := postJSON(h, "/chat", `{"message":"hi"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrorCodeInternal {
		t.Errorf("code: got %q", resp.Code)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	h := newTestRouter(t, &mockAssistant{}, RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID: got %q, want req-42", got)
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, &mockAssistant{}, RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/recommend", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown route: got %d, want 404", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/chat", http.NoBody)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /chat: got %d, want 405", rr.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(t, &mockAssistant{}, RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/chat", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin: got %q", got)
	}
}
