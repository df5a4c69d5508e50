package chi

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed ErrorCode = "method_not_allowed"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeInternal         ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ChatRequest is the body of POST /chat and POST /voice/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	ResponseText string        `json:"response_text"`
	Products     []ProductItem `json:"products"`
}

// ProductItem is a retrieved product as seen by the chat widget.
type ProductItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CategoryCode string  `json:"category_code"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url"`
	Material     string  `json:"material"`
	Score        float64 `json:"score"`
}

// VoiceResponse is the body returned by POST /voice/chat.
type VoiceResponse struct {
	Response string `json:"response"`
}

// ListingItem is a catalog product in GET /products.
type ListingItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CategoryCode string  `json:"category_code"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url"`
	Material     string  `json:"material"`
	Gem          string  `json:"gem"`
	Color        string  `json:"color"`
	Gender       string  `json:"gender"`
	Occasion     string  `json:"occasion"`
	Rating       float64 `json:"rating"`
	Stock        int     `json:"stock"`
}

// BannerResponse is the body of GET /.
type BannerResponse struct {
	Message  string `json:"message"`
	Version  string `json:"version"`
	Products int    `json:"products"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Products int               `json:"products"`
}
