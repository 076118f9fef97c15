package premium

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/imagegen"
)

type stubUploader struct {
	calls int
	url   string
	err   error
}

func (s *stubUploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type stubSynthesizer struct {
	calls int
	url   string
	last  imagegen.Request
}

func (s *stubSynthesizer) Visualize(ctx context.Context, req imagegen.Request) string {
	s.calls++
	s.last = req
	return s.url
}

func newTestOrchestrator(up *stubUploader, synth *stubSynthesizer) *Orchestrator {
	return NewOrchestrator(up, synth, "tienda.example.com", zerolog.Nop())
}

func validRequest() Request {
	return Request{
		Image:       []byte("fake-image"),
		ProductID:   "12345",
		ProductName: "sofá modular gris",
	}
}

func TestProcessSuccess(t *testing.T) {
	up := &stubUploader{url: "https://res.cloudinary.com/demo/room.jpg"}
	synth := &stubSynthesizer{url: "https://replicate.delivery/out.png"}
	o := newTestOrchestrator(up, synth)

	req := validRequest()
	req.Idea = " junto a la ventana "
	res, err := o.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if res.UserImageURL != up.url {
		t.Fatalf("UserImageURL mismatch: %s", res.UserImageURL)
	}
	if res.GeneratedImageURL != synth.url {
		t.Fatalf("GeneratedImageURL mismatch: %s", res.GeneratedImageURL)
	}
	if res.ProductName != req.ProductName {
		t.Fatalf("ProductName mismatch: %s", res.ProductName)
	}
	if synth.last.SceneURL != up.url {
		t.Fatalf("synthesis must receive the uploaded URL, got %s", synth.last.SceneURL)
	}
	if up.calls != 1 || synth.calls != 1 {
		t.Fatalf("unexpected call counts: upload=%d synth=%d", up.calls, synth.calls)
	}
}

func TestProcessValidationSkipsOutboundCalls(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"missing image", func(r *Request) { r.Image = nil }, "image"},
		{"missing product id", func(r *Request) { r.ProductID = "  " }, "productId"},
		{"missing product name", func(r *Request) { r.ProductName = "" }, "productName"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			up := &stubUploader{url: "https://x/y.jpg"}
			synth := &stubSynthesizer{url: "https://x/z.png"}
			o := newTestOrchestrator(up, synth)

			req := validRequest()
			tc.mutate(&req)
			_, err := o.Process(context.Background(), req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field mismatch: got %s want %s", verr.Field, tc.field)
			}
			if up.calls != 0 || synth.calls != 0 {
				t.Fatalf("no outbound calls expected: upload=%d synth=%d", up.calls, synth.calls)
			}
		})
	}
}

func TestProcessUploadFailureSkipsSynthesis(t *testing.T) {
	up := &stubUploader{err: errors.New("provider rejected upload")}
	synth := &stubSynthesizer{url: "https://x/z.png"}
	o := newTestOrchestrator(up, synth)

	_, err := o.Process(context.Background(), validRequest())
	if err == nil {
		t.Fatalf("expected error when upload fails")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatalf("upload failure must not be a validation error: %v", err)
	}
	if synth.calls != 0 {
		t.Fatalf("synthesis must not run after a failed upload, ran %d times", synth.calls)
	}
}

func TestProcessPlaceholderStillSucceeds(t *testing.T) {
	up := &stubUploader{url: "https://x/y.jpg"}
	synth := &stubSynthesizer{url: imagegen.PlaceholderURL}
	o := newTestOrchestrator(up, synth)

	res, err := o.Process(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if res.GeneratedImageURL != imagegen.PlaceholderURL {
		t.Fatalf("expected placeholder URL, got %s", res.GeneratedImageURL)
	}
	if res.GeneratedImageURL == "" {
		t.Fatalf("GeneratedImageURL must never be empty")
	}
}

func TestProcessProductURLResolution(t *testing.T) {
	up := &stubUploader{url: "https://x/y.jpg"}
	synth := &stubSynthesizer{url: "https://x/z.png"}
	o := newTestOrchestrator(up, synth)

	req := validRequest()
	req.ProductURL = "https://tienda.example.com/products/custom-handle"
	res, err := o.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if res.ProductURL != req.ProductURL {
		t.Fatalf("explicit product URL must pass through exactly, got %s", res.ProductURL)
	}

	req = validRequest()
	res, err = o.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if res.ProductURL != "https://tienda.example.com/products/12345" {
		t.Fatalf("synthesized product URL mismatch: %s", res.ProductURL)
	}
}

func TestBuildMessageIdeaClause(t *testing.T) {
	withIdea := buildMessage("sofá modular", "cerca de la chimenea")
	if !strings.Contains(withIdea, "\"cerca de la chimenea\"") {
		t.Fatalf("message must quote the idea verbatim: %s", withIdea)
	}

	for _, idea := range []string{"", "   "} {
		msg := buildMessage("sofá modular", idea)
		if strings.Contains(msg, "tu idea") {
			t.Fatalf("blank idea must not add a quoted clause: %s", msg)
		}
		if !strings.Contains(msg, "Sofá Modular") {
			t.Fatalf("message must name the product: %s", msg)
		}
	}
}

func TestBuildMessageTrimsIdea(t *testing.T) {
	msg := buildMessage("mesa", "  con flores  ")
	if !strings.Contains(msg, "\"con flores\"") {
		t.Fatalf("idea must be trimmed before quoting: %s", msg)
	}
}
