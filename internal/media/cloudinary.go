package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadError reports a failed upload with the provider's detail attached.
// The detail is for operator logs; callers must not expose it.
type UploadError struct {
	Status int
	Detail string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("media: upload failed (%d): %s", e.Status, e.Detail)
}

type Options struct {
	CloudName  string
	APIKey     string
	APISecret  string
	BaseURL    string // overrides the cloud-derived endpoint, used in tests
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Uploader pushes image buffers to Cloudinary and returns public HTTPS URLs.
// Each upload is atomic: a usable URL comes back or the call fails, no retry.
type Uploader struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	apiSecret  string
}

func NewUploader(opts Options) *Uploader {
	endpoint := strings.TrimRight(opts.BaseURL, "/")
	if endpoint == "" && opts.CloudName != "" {
		endpoint = fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", opts.CloudName)
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Uploader{
		httpClient: client,
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiSecret:  strings.TrimSpace(opts.APISecret),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload performs one signed upload into the given folder and returns the
// public URL of the stored image.
func (u *Uploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if u == nil || u.endpoint == "" || u.apiKey == "" || u.apiSecret == "" {
		return "", &UploadError{Detail: "cloudinary credentials not configured"}
	}
	if len(data) == 0 {
		return "", &UploadError{Detail: "empty image buffer"}
	}

	publicID := uuid.NewString()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"api_key":   u.apiKey,
		"folder":    folder,
		"public_id": publicID,
		"timestamp": timestamp,
		"signature": signUpload(folder, publicID, timestamp, u.apiSecret),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return "", fmt.Errorf("media: write form field: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", publicID)
	if err != nil {
		return "", fmt.Errorf("media: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("media: write image payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("media: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", &UploadError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UploadError{Status: resp.StatusCode, Detail: err.Error()}
	}
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &UploadError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := out.Error.Message
		if detail == "" {
			detail = strings.TrimSpace(string(raw))
		}
		return "", &UploadError{Status: resp.StatusCode, Detail: detail}
	}
	if out.SecureURL == "" {
		return "", &UploadError{Status: resp.StatusCode, Detail: "response missing secure_url"}
	}
	return out.SecureURL, nil
}

// signUpload builds the SHA-1 signature Cloudinary expects: the signed
// parameters in alphabetical order, concatenated with the API secret.
func signUpload(folder, publicID, timestamp, secret string) string {
	toSign := fmt.Sprintf("folder=%s&public_id=%s&timestamp=%s%s", folder, publicID, timestamp, secret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
