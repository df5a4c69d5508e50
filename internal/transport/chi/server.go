package chi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/domain/product"
	"github.com/kailas-cloud/shopassist/internal/domain/reply"
	"github.com/kailas-cloud/shopassist/internal/logger"
	healthuc "github.com/kailas-cloud/shopassist/internal/usecase/health"
	"github.com/kailas-cloud/shopassist/internal/version"
)

const (
	defaultListingLimit = 50
	maxListingLimit     = 1000
	maxBodyBytes        = 64 << 10
	bannerMessage       = "AI Jewelry API is running"
)

// Server serves the chat, voice and telephone front-ends over one Assistant.
type Server struct {
	assistant Assistant
	catalog   Catalog
	health    HealthChecker
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(assistant Assistant, catalog Catalog, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		assistant: assistant,
		catalog:   catalog,
		health:    health,
		logger:    logger,
	}
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, BannerResponse{
		Message:  bannerMessage,
		Version:  version.Version,
		Products: s.catalog.Len(),
	})
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChat(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	rep := s.assistant.Respond(ctx, req.Message)
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, ChatResponse{
		ResponseText: rep.Text,
		Products:     productItems(rep),
	})
}

// VoiceChat handles POST /voice/chat for browser speech front-ends.
func (s *Server) VoiceChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChat(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	rep := s.assistant.Respond(ctx, req.Message)
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, VoiceResponse{Response: spokenText(rep.Text)})
}

// VoiceStart handles POST /voice/start, the telephone call webhook.
func (s *Server) VoiceStart(w http.ResponseWriter, r *http.Request) {
	logger.FromContextOr(r.Context(), s.logger).Debug("call started",
		zap.String("from", r.PostFormValue("From")),
	)
	s.writeTwiML(w, r, greetingTwiML())
}

// VoiceProcess handles POST /voice/process with a transcribed utterance.
func (s *Server) VoiceProcess(w http.ResponseWriter, r *http.Request) {
	speech := strings.TrimSpace(r.PostFormValue("SpeechResult"))
	if speech == "" {
		s.writeTwiML(w, r, retryTwiML())
		return
	}

	logger.FromContextOr(r.Context(), s.logger).Debug("caller said", zap.String("speech", speech))
	rep := s.assistant.Respond(r.Context(), speech)
	s.writeTwiML(w, r, answerTwiML(spokenText(rep.Text)))
}

// ListProducts handles GET /products?limit=N.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := defaultListingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListingLimit {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
				fmt.Sprintf("limit must be an integer between 1 and %d", maxListingLimit))
			return
		}
		limit = n
	}

	products := s.catalog.Products(limit)
	items := make([]ListingItem, len(products))
	for i := range products {
		items[i] = listingItem(&products[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Products: report.Products,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) writeTwiML(w http.ResponseWriter, r *http.Request, doc twimlResponse) {
	body, err := marshalTwiML(doc)
	if err != nil {
		logger.FromContextOr(r.Context(), s.logger).Error("render twiml", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorCodeInternal, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func decodeChat(w http.ResponseWriter, r *http.Request) (ChatRequest, bool) {
	var req ChatRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		msg := "Invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "Invalid request body: empty"
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, msg)
		return ChatRequest{}, false
	}
	return req, true
}

func productItems(rep reply.Reply) []ProductItem {
	items := make([]ProductItem, len(rep.Products))
	for i := range rep.Products {
		h := &rep.Products[i]
		p := h.Product()
		items[i] = ProductItem{
			ProductID:    p.SKU(),
			ProductName:  p.Name(),
			CategoryCode: p.Category(),
			Price:        p.Price(),
			ImageURL:     p.ImageURL(),
			Material:     p.Material(),
			Score:        h.Score(),
		}
	}
	return items
}

func listingItem(p *product.Product) ListingItem {
	a := p.Attributes()
	return ListingItem{
		ProductID:    p.SKU(),
		ProductName:  p.Name(),
		CategoryCode: a.Category,
		Price:        p.Price(),
		ImageURL:     p.ImageURL(),
		Material:     a.Material,
		Gem:          a.Style,
		Color:        a.Color,
		Gender:       a.Gender,
		Occasion:     a.Occasion,
		Rating:       p.Rating(),
		Stock:        p.Stock(),
	}
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

// writeJSON encodes before writing the status, so an unencodable value
// becomes a 500 instead of a 200 with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Code: ErrorCodeInternal, Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
