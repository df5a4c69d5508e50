package chi

import (
	"context"
	"encoding/xml"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/domain/product"
	"github.com/kailas-cloud/shopassist/internal/domain/reply"
	"github.com/kailas-cloud/shopassist/internal/domain/retrieval"
	healthuc "github.com/kailas-cloud/shopassist/internal/usecase/health"
)

// --- Mocks ---

type mockAssistant struct {
	reply  reply.Reply
	tokens int // embedding tokens reported per call
	calls  []string
	panic  bool
}

func (m *mockAssistant) Respond(ctx context.Context, text string) reply.Reply {
	if m.panic {
		panic("boom")
	}
	m.calls = append(m.calls, text)
	if m.tokens > 0 {
		domain.UsageFromContext(ctx).AddTokens(m.tokens)
	}
	return m.reply
}

type mockCatalog struct {
	products []product.Product
}

func (m *mockCatalog) Len() int { return len(m.products) }

func (m *mockCatalog) Products(limit int) []product.Product {
	if limit > 0 && limit < len(m.products) {
		return m.products[:limit]
	}
	return m.products
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- Helpers ---

func mustProduct(t *testing.T, sku, name string, attrs product.Attributes, price float64) product.Product {
	t.Helper()
	p, err := product.New(sku, name, attrs, price, 4.5, 3)
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}

func catalogReply(t *testing.T) reply.Reply {
	t.Helper()
	ring := mustProduct(t, "R1", "Gold Wedding Ring",
		product.Attributes{Category: "Ring", Material: "Gold", Occasion: "Wedding"}, 50000)
	band := mustProduct(t, "R3", "Silver Band",
		product.Attributes{Category: "Ring", Material: "Silver"}, 30000)
	res := retrieval.Found([]retrieval.Hit{
		retrieval.NewHit(ring, 0.81),
		retrieval.NewHit(band, 0.42),
	})
	return reply.FromCatalog("I found the **Gold Wedding Ring** for you.", res)
}

func newTestServer(t *testing.T, a Assistant) (*Server, *mockCatalog) {
	t.Helper()
	cat := &mockCatalog{}
	for i, name := range []string{"Gold Wedding Ring", "Silver Band", "Pearl Necklace"} {
		cat.products = append(cat.products, mustProduct(t, string(rune('A'+i)), name,
			product.Attributes{Category: "Ring", Material: "Gold", Style: "Classic", Color: "Yellow",
				Gender: "Women", Occasion: "Wedding"}, float64(1000*(i+1))))
	}
	h := &mockHealth{report: healthuc.Report{
		Status:   healthuc.Healthy,
		Checks:   map[string]healthuc.CheckResult{healthuc.ComponentCatalog: healthuc.CheckOK},
		Products: len(cat.products),
	}}
	return NewServer(a, cat, h, nil), cat
}

func newTestRouter(t *testing.T, a Assistant, cfg RouterConfig) http.Handler {
	t.Helper()
	s, _ := newTestServer(t, a)
	return NewRouter(s, cfg, nil)
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type parsedTwiML struct {
	XMLName xml.Name `xml:"Response"`
	Says    []string `xml:"Say"`
	Pauses  []struct {
		Length int `xml:"length,attr"`
	} `xml:"Pause"`
	Gathers []struct {
		Input         string `xml:"input,attr"`
		Action        string `xml:"action,attr"`
		SpeechTimeout string `xml:"speechTimeout,attr"`
	} `xml:"Gather"`
}

func parseTwiML(t *testing.T, rr *httptest.ResponseRecorder) parsedTwiML {
	t.Helper()
	if ct := rr.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("content type: got %q, want application/xml", ct)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing xml declaration: %q", body)
	}
	var doc parsedTwiML
	if err := xml.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse twiml: %v\n%s", err, body)
	}
	return doc
}

// --- Tests ---

func TestChat_CatalogReply(t *testing.T) {
	a := &mockAssistant{reply: catalogReply(t)}
	h := newTestRouter(t, a, RouterConfig{})

	rr := postJSON(h, "/chat", `{"message":"gold ring for a wedding"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if len(a.calls) != 1 || a.calls[0] != "gold ring for a wedding" {
		t.Errorf("assistant calls: %v", a.calls)
	}

	var resp ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ResponseText != "I found the **Gold Wedding Ring** for you." {
		t.Errorf("response_text: got %q", resp.ResponseText)
	}
	if len(resp.Products) != 2 {
		t.Fatalf("products: got %d, want 2", len(resp.Products))
	}
	got := resp.Products[0]
	want := ProductItem{
		ProductID:    "R1",
		ProductName:  "Gold Wedding Ring",
		CategoryCode: "Ring",
		Price:        50000,
		ImageURL:     "https://placehold.co/300x300?text=Gold+Wedding+Ring",
		Material:     "Gold",
		Score:        0.81,
	}
	if got != want {
		t.Errorf("product: got %+v, want %+v", got, want)
	}
}

func TestChat_EmbeddingTokensHeader(t *testing.T) {
	a := &mockAssistant{reply: catalogReply(t), tokens: 12}
	h := newTestRouter(t, a, RouterConfig{})

	rr := postJSON(h, "/chat", `{"message":"gold ring"}`)
	if got := rr.Header().Get("X-Embedding-Tokens"); got != "12" {
		t.Errorf("X-Embedding-Tokens: got %q, want 12", got)
	}

	a = &mockAssistant{reply: reply.Canned("greeting", "Hello!")}
	h = newTestRouter(t, a, RouterConfig{})
	rr = postJSON(h, "/chat", `{"message":"hi"}`)
	if got := rr.Header().Get("X-Embedding-Tokens"); got != "" {
		t.Errorf("canned reply must not set X-Embedding-Tokens, got %q", got)
	}
}

func TestChat_CannedReplyHasEmptyProductArray(t *testing.T) {
	a := &mockAssistant{reply: reply.Canned("greeting", "Hello!")}
	h := newTestRouter(t, a, RouterConfig{})

	rr := postJSON(h, "/chat", `{"message":"hi"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"products":[]`) {
		t.Errorf("products must encode as an empty array: %s", rr.Body.String())
	}
}

func TestChat_UnencodableReplyIsInternalError(t *testing.T) {
	ring := mustProduct(t, "R1", "Gold Wedding Ring", product.Attributes{Material: "Gold"}, 50000)
	res := retrieval.Found([]retrieval.Hit{retrieval.NewHit(ring, math.NaN())})
	a := &mockAssistant{reply: reply.FromCatalog("I found the Gold Wedding Ring.", res)}
	h := newTestRouter(t, a, RouterConfig{})

	rr := postJSON(h, "/chat", `{"message":"gold ring"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	if resp.Code != ErrorCodeInternal {
		t.Errorf("code: got %q, want %q", resp.Code, ErrorCodeInternal)
	}
}

func TestChat_BadRequest(t *testing.T) {
	for name, body := range map[string]string{
		"malformed": `{"message":`,
		"empty":     ``,
		"wrong":     `{"message": 42}`,
	} {
		t.Run(name, func(t *testing.T) {
			a := &mockAssistant{}
			h := newTestRouter(t, a, RouterConfig{})

			rr := postJSON(h, "/chat", body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rr.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != ErrorCodeBadRequest {
				t.Errorf("code: got %q, want %q", resp.Code, ErrorCodeBadRequest)
			}
			if len(a.calls) != 0 {
				t.Error("assistant must not be called on a bad request")
			}
		})
	}
}

func TestVoiceChat_StripsEmphasis(t *testing.T) {
	a := &mockAssistant{reply: catalogReply(t)}
	h := newTestRouter(t, a, RouterConfig{})

	rr := postJSON(h, "/voice/chat", `{"message":"wedding ring"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp VoiceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "I found the Gold Wedding Ring for you." {
		t.Errorf("response: got %q", resp.Response)
	}
}

func TestVoiceStart_Greeting(t *testing.T) {
	h := newTestRouter(t, &mockAssistant{}, RouterConfig{})

	rr := postForm(h, "/voice/start", url.Values{"From": {"+911234567890"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	doc := parseTwiML(t, rr)
	if len(doc.Says) != 2 || doc.Says[0] != callGreeting || doc.Says[1] != callSilence {
		t.Errorf("says: %q", doc.Says)
	}
	if len(doc.Gathers) != 1 {
		t.Fatalf("gathers: got %d, want 1", len(doc.Gathers))
	}
	g := doc.Gathers[0]
	if g.Input != "speech" || g.Action != "/voice/process" || g.SpeechTimeout != "auto" {
		t.Errorf("gather: %+v", g)
	}
}

func TestVoiceProcess_EmptySpeechRetries(t *testing.T) {
	for name, form := range map[string]url.Values{
		"absent": {},
		"blank":  {"SpeechResult": {"   "}},
	} {
		t.Run(name, func(t *testing.T) {
			a := &mockAssistant{reply: catalogReply(t)}
			h := newTestRouter(t, a, RouterConfig{})

			rr := postForm(h, "/voice/process", form)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d", rr.Code)
			}
			doc := parseTwiML(t, rr)
			if len(doc.Says) != 1 || doc.Says[0] != callRetry {
				t.Errorf("says: %q", doc.Says)
			}
			if len(doc.Gathers) != 1 || doc.Gathers[0].Action != "/voice/process" {
				t.Errorf("gathers: %+v", doc.Gathers)
			}
			if len(a.calls) != 0 {
				t.Errorf("assistant must not be called, got %v", a.calls)
			}
		})
	}
}

func TestVoiceProcess_SpeaksReply(t *testing.T) {
	a := &mockAssistant{reply: catalogReply(t)}
	h := newTestRouter(t, a, RouterConfig{})

	rr := postForm(h, "/voice/process", url.Values{"SpeechResult": {"wedding ring"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if len(a.calls) != 1 || a.calls[0] != "wedding ring" {
		t.Errorf("assistant calls: %v", a.calls)
	}

	doc := parseTwiML(t, rr)
	want := []string{"I found the Gold Wedding Ring for you.", callFollowUp, callGoodbye}
	if len(doc.Says) != len(want) {
		t.Fatalf("says: got %q, want %q", doc.Says, want)
	}
	for i := range want {
		if doc.Says[i] != want[i] {
			t.Errorf("say[%d]: got %q, want %q", i, doc.Says[i], want[i])
		}
	}
	if len(doc.Pauses) != 1 || doc.Pauses[0].Length != 1 {
		t.Errorf("pauses: %+v", doc.Pauses)
	}
	if len(doc.Gathers) != 1 || doc.Gathers[0].SpeechTimeout != "auto" {
		t.Errorf("gathers: %+v", doc.Gathers)
	}
}

func TestVoiceProcess_EscapesMarkup(t *testing.T) {
	a := &mockAssistant{reply: reply.Canned("x", `Rings < 500 & "bands"</Say><Hangup/>`)}
	h := newTestRouter(t, a, RouterConfig{})

	rr := postForm(h, "/voice/process", url.Values{"SpeechResult": {"cheap rings"}})
	if strings.Contains(rr.Body.String(), "<Hangup/>") {
		t.Fatalf("reply text was not escaped: %s", rr.Body.String())
	}
	doc := parseTwiML(t, rr)
	if doc.Says[0] != `Rings < 500 & "bands"</Say><Hangup/>` {
		t.Errorf("say round trip: got %q", doc.Says[0])
	}
}

func TestListProducts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLen    int
	}{
		{"default limit", "", http.StatusOK, 3},
		{"limit", "?limit=2", http.StatusOK, 2},
		{"zero", "?limit=0", http.StatusBadRequest, 0},
		{"negative", "?limit=-1", http.StatusBadRequest, 0},
		{"not a number", "?limit=abc", http.StatusBadRequest, 0},
		{"too large", "?limit=5000", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &mockAssistant{}, RouterConfig{})
			req := httptest.NewRequest(http.MethodGet, "/products"+tt.query, http.NoBody)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var items []ListingItem
			if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(items) != tt.wantLen {
				t.Fatalf("items: got %d, want %d", len(items), tt.wantLen)
			}
			first := items[0]
			if first.ProductID != "A" || first.Gem != "Classic" || first.Gender != "Women" ||
				first.Rating != 4.5 || first.Stock != 3 || first.Price != 1000 {
				t.Errorf("first item: %+v", first)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t, &mockAssistant{})
	h := NewRouter(s, RouterConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["catalog"] != "ok" || resp.Products != 3 {
		t.Errorf("health: %+v", resp)
	}
}

func TestHealthCheck_Unhealthy503(t *testing.T) {
	s, _ := newTestServer(t, &mockAssistant{})
	s.health = &mockHealth{report: healthuc.Report{
		Status: healthuc.Unhealthy,
		Checks: map[string]healthuc.CheckResult{healthuc.ComponentCatalog: healthuc.CheckError},
	}}
	h := NewRouter(s, RouterConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}

func TestRoot_Banner(t *testing.T) {
	h := newTestRouter(t, &mockAssistant{}, RouterConfig{APIKeys: []string{"secret"}})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp BannerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != bannerMessage || resp.Products != 3 {
		t.Errorf("banner: %+v", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, &mockAssistant{}, RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d", rr.Code)
	}
}
