package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jlin/promptfinder/internal/apperr"
)

// tinyPNG returns a valid 1x1 PNG for decode-sniffing in tests.
func tinyPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 128, G: 64, B: 32, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestCaptionService(baseURL string, models []string) *CaptionService {
	return NewCaptionService(&CaptionConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Models:  models,
		Timeout: 5 * time.Second,
	})
}

func TestCaptionService_EmptyInput(t *testing.T) {
	svc := newTestCaptionService("http://unused", []string{"model-a"})

	_, _, err := svc.Caption(context.Background(), nil)
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Errorf("expected validation error for empty input, got %v", err)
	}
}

func TestCaptionService_UndecodableInput(t *testing.T) {
	svc := newTestCaptionService("http://unused", []string{"model-a"})

	_, _, err := svc.Caption(context.Background(), []byte("definitely not an image"))
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Errorf("expected validation error for garbage input, got %v", err)
	}
}

func TestCaptionService_FirstModelSucceeds(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		w.Write([]byte(`[{"generated_text": "a red square on a white background"}]`))
	}))
	defer server.Close()

	svc := newTestCaptionService(server.URL, []string{"model-a", "model-b"})

	text, format, err := svc.Caption(context.Background(), tinyPNG(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "a red square on a white background" {
		t.Errorf("unexpected caption: %q", text)
	}
	if format != "png" {
		t.Errorf("expected png format, got %q", format)
	}
	if len(calls) != 1 || !strings.HasSuffix(calls[0], "/models/model-a") {
		t.Errorf("expected a single call to model-a, got %v", calls)
	}
}

func TestCaptionService_FallsBackInOrder(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/models/model-c") {
			w.Write([]byte(`[{"text": "third time is the charm"}]`))
			return
		}
		// Model still loading; the client should move on
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := newTestCaptionService(server.URL, []string{"model-a", "model-b", "model-c"})

	text, _, err := svc.Caption(context.Background(), tinyPNG(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "third time is the charm" {
		t.Errorf("unexpected caption: %q", text)
	}

	want := []string{"/models/model-a", "/models/model-b", "/models/model-c"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d: %v", len(want), len(calls), calls)
	}
	for i, path := range want {
		if calls[i] != path {
			t.Errorf("call %d: expected %s, got %s", i, path, calls[i])
		}
	}
}

func TestCaptionService_ObjectResponseShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_text": "an object-shaped response"}`))
	}))
	defer server.Close()

	svc := newTestCaptionService(server.URL, []string{"model-a"})

	text, _, err := svc.Caption(context.Background(), tinyPNG(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "an object-shaped response" {
		t.Errorf("unexpected caption: %q", text)
	}
}

func TestCaptionService_AllModelsFailUsesHeuristic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestCaptionService(server.URL, []string{"model-a", "model-b"})

	data := tinyPNG(t)
	text, format, err := svc.Caption(context.Background(), data)
	if err != nil {
		t.Fatalf("expected heuristic fallback, got error: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png format, got %q", format)
	}
	if !strings.Contains(text, heuristicByFormat["png"]) {
		t.Errorf("expected png heuristic phrase in %q", text)
	}

	// Same input produces the same fallback caption
	again, _, err := svc.Caption(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if again != text {
		t.Errorf("heuristic caption not deterministic: %q vs %q", text, again)
	}
}

func TestCaptionService_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestCaptionService(server.URL, []string{"model-a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.Caption(ctx, tinyPNG(t))
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestParseCaptionResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{"array generated_text", `[{"generated_text": "a"}]`, "a", true},
		{"array text", `[{"text": "b"}]`, "b", true},
		{"array skips empty entries", `[{}, {"generated_text": "c"}]`, "c", true},
		{"object generated_text", `{"generated_text": "d"}`, "d", true},
		{"empty array", `[]`, "", false},
		{"empty object", `{}`, "", false},
		{"malformed", `not json`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCaptionResponse([]byte(tt.body))
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseCaptionResponse(%q) = (%q, %v), want (%q, %v)", tt.body, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHeuristicCaption_SizeBuckets(t *testing.T) {
	tests := []struct {
		name   string
		format string
		size   int64
		prefix string
	}{
		{"very large", "jpeg", 6 * 1024 * 1024, "a very large, high-resolution image: "},
		{"large", "jpeg", 2 * 1024 * 1024, "a high-resolution image: "},
		{"small", "jpeg", 50 * 1024, "a small, web-optimized image: "},
		{"medium has no prefix", "jpeg", 500 * 1024, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heuristicCaption(tt.format, tt.size)
			want := tt.prefix + heuristicByFormat[tt.format]
			if got != want {
				t.Errorf("heuristicCaption(%s, %d) = %q, want %q", tt.format, tt.size, got, want)
			}
		})
	}

	if got := heuristicCaption("tiff", 500*1024); got != heuristicDefault {
		t.Errorf("unknown format: got %q, want default phrase", got)
	}
}
