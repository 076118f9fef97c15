package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// PlaceholderURL is returned whenever synthesis cannot produce a real image.
// Callers must treat it as a regular URL, never as an error signal.
const PlaceholderURL = "https://via.placeholder.com/1024x768.png?text=Visualizacion+no+disponible"

// Fixed generation controls. These are not tunable per request.
const (
	modelVersion    = "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b"
	promptStrength  = 0.55
	inferenceSteps  = 30
	guidanceScale   = 7.5
	syncWaitSeconds = 60
)

// Request carries everything needed to compose one visualization.
type Request struct {
	SceneURL    string
	ProductName string
	Idea        string
}

type Options struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to a Replicate-style synchronous prediction endpoint. Its
// Visualize method never fails: generation is best-effort and any problem
// degrades to PlaceholderURL so the premium flow can still complete.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     zerolog.Logger
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.replicate.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: syncWaitSeconds * time.Second}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.Token),
		logger:     opts.Logger,
	}
}

type predictionRequest struct {
	Version string `json:"version"`
	Input   struct {
		Image          string  `json:"image"`
		Prompt         string  `json:"prompt"`
		NegativePrompt string  `json:"negative_prompt"`
		PromptStrength float64 `json:"prompt_strength"`
		InferenceSteps int     `json:"num_inference_steps"`
		GuidanceScale  float64 `json:"guidance_scale"`
	} `json:"input"`
}

type predictionResponse struct {
	Output []string `json:"output"`
	Status string   `json:"status"`
	Error  string   `json:"error"`
}

// Visualize renders the product into the uploaded scene and returns the
// resulting image URL, or PlaceholderURL on any failure.
func (c *Client) Visualize(ctx context.Context, req Request) string {
	if c == nil || c.token == "" {
		c.warn().Msg("replicate token missing, returning placeholder")
		return PlaceholderURL
	}
	url, err := c.predict(ctx, req)
	if err != nil {
		c.warn().Err(err).Msg("image synthesis degraded to placeholder")
		return PlaceholderURL
	}
	return url
}

func (c *Client) predict(ctx context.Context, req Request) (string, error) {
	var payload predictionRequest
	payload.Version = modelVersion
	payload.Input.Image = strings.TrimSpace(req.SceneURL)
	payload.Input.Prompt = BuildInstruction(req.ProductName, req.Idea)
	payload.Input.NegativePrompt = NegativePrompt
	payload.Input.PromptStrength = promptStrength
	payload.Input.InferenceSteps = inferenceSteps
	payload.Input.GuidanceScale = guidanceScale

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Token "+c.token)
	httpReq.Header.Set("Prefer", fmt.Sprintf("wait=%d", syncWaitSeconds))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("replicate: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out predictionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("replicate: decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("replicate: %s", out.Error)
	}
	if len(out.Output) == 0 || strings.TrimSpace(out.Output[0]) == "" {
		return "", errors.New("replicate: empty output list")
	}
	return out.Output[0], nil
}

func (c *Client) warn() *zerolog.Event {
	if c == nil {
		nop := zerolog.Nop()
		return nop.Warn()
	}
	return c.logger.Warn()
}
