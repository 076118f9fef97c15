package premium

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/imagegen"
)

// uploadFolder groups every premium room photo on the media host.
const uploadFolder = "experiencias-premium"

// Request is one premium experience submission. Image and the product
// identity fields are mandatory; Idea and ProductURL are optional.
type Request struct {
	Image       []byte
	ProductID   string
	ProductName string
	Idea        string
	ProductURL  string
}

// Result is the fully populated response payload. GeneratedImageURL is never
// empty: it degrades to the synthesis placeholder instead of being absent.
type Result struct {
	Message           string `json:"message"`
	UserImageURL      string `json:"userImageUrl"`
	GeneratedImageURL string `json:"generatedImageUrl"`
	ProductURL        string `json:"productUrl"`
	ProductName       string `json:"productName"`
}

// ValidationError rejects a request before any outbound call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("premium: invalid request: %s", e.Field)
}

// Uploader pushes a binary image into a folder and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}

// Synthesizer resolves to an image URL, real or placeholder, never an error.
type Synthesizer interface {
	Visualize(ctx context.Context, req imagegen.Request) string
}

// Orchestrator sequences upload, synthesis, product-URL resolution and
// message templating for one premium request. It holds no mutable state, so
// concurrent requests never interact.
type Orchestrator struct {
	uploader    Uploader
	synthesizer Synthesizer
	shopDomain  string
	logger      zerolog.Logger
}

func NewOrchestrator(uploader Uploader, synthesizer Synthesizer, shopDomain string, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		uploader:    uploader,
		synthesizer: synthesizer,
		shopDomain:  strings.TrimSpace(shopDomain),
		logger:      logger,
	}
}

// Process runs the premium sequence. A *ValidationError means client input
// was rejected before any outbound call; any other error means the upload
// failed and the caller should answer with a generic internal error.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	userImageURL, err := o.uploader.Upload(ctx, req.Image, uploadFolder)
	if err != nil {
		return nil, fmt.Errorf("upload room photo: %w", err)
	}

	generatedURL := o.synthesizer.Visualize(ctx, imagegen.Request{
		SceneURL:    userImageURL,
		ProductName: req.ProductName,
		Idea:        req.Idea,
	})

	productURL := strings.TrimSpace(req.ProductURL)
	if productURL == "" {
		productURL = fmt.Sprintf("https://%s/products/%s", o.shopDomain, req.ProductID)
	}

	o.logger.Info().
		Str("product_id", req.ProductID).
		Bool("placeholder", generatedURL == imagegen.PlaceholderURL).
		Msg("premium experience composed")

	return &Result{
		Message:           buildMessage(req.ProductName, req.Idea),
		UserImageURL:      userImageURL,
		GeneratedImageURL: generatedURL,
		ProductURL:        productURL,
		ProductName:       req.ProductName,
	}, nil
}

func validate(req Request) error {
	if len(req.Image) == 0 {
		return &ValidationError{Field: "image", Message: "Falta la imagen de la habitación"}
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return &ValidationError{Field: "productId", Message: "Falta el identificador del producto"}
	}
	if strings.TrimSpace(req.ProductName) == "" {
		return &ValidationError{Field: "productName", Message: "Falta el nombre del producto"}
	}
	return nil
}
