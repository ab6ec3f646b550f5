package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeClip(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("webm-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write clip: %v", err)
	}
	return path
}

func voiceServiceAgainst(url string) *voiceVerificationService {
	return &voiceVerificationService{
		endpoint:   url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestVoiceVerifyBypassWhenUnconfigured(t *testing.T) {
	svc := voiceServiceAgainst("")
	if !svc.Verify(context.Background(), "clip.webm", "ref.webm") {
		t.Error("unconfigured voice check must allow")
	}
}

func TestVoiceVerifyAllowsMissingFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("endpoint must not be called when files are missing")
	}))
	t.Cleanup(srv.Close)
	svc := voiceServiceAgainst(srv.URL)

	if !svc.Verify(context.Background(), "missing-clip.webm", "") {
		t.Error("missing reference must allow")
	}
	if !svc.Verify(context.Background(), "missing-clip.webm", "missing-ref.webm") {
		t.Error("missing files must allow")
	}
}

func TestVoiceVerifySimilarityThreshold(t *testing.T) {
	tests := []struct {
		similarity float64
		want       bool
	}{
		{0.9, true},
		{0.5, true},
		{0.49, false},
		{0.1, false},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("bad multipart request: %v", err)
			}
			fmt.Fprintf(w, `{"similarity": %v}`, tt.similarity)
		}))
		svc := voiceServiceAgainst(srv.URL)

		got := svc.Verify(context.Background(), writeClip(t, "clip.webm"), writeClip(t, "ref.webm"))
		if got != tt.want {
			t.Errorf("similarity %v: Verify() = %v, want %v", tt.similarity, got, tt.want)
		}
		srv.Close()
	}
}

func TestVoiceVerifyAllowsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	svc := voiceServiceAgainst(srv.URL)

	if !svc.Verify(context.Background(), writeClip(t, "clip.webm"), writeClip(t, "ref.webm")) {
		t.Error("server error must allow")
	}
}
