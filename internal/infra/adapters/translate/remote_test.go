package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JUDEBARNABAS/atim/internal/domain"
)

func TestRemoteTranslateSuccess(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"translated_text": "wamukulu"})
	}))
	defer ts.Close()

	remote, err := NewRemote(ts.URL, time.Second)
	if err != nil {
		t.Fatalf("new remote: %v", err)
	}
	out, err := remote.Translate(context.Background(), "elder", "eng", "lug")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "wamukulu" {
		t.Fatalf("out = %q", out)
	}
	if gotPath != "/translate" {
		t.Fatalf("path = %q, want /translate", gotPath)
	}
	want := map[string]string{"text": "elder", "source_language": "eng", "target_language": "lug"}
	for k, v := range want {
		if gotBody[k] != v {
			t.Fatalf("body[%s] = %q, want %q", k, gotBody[k], v)
		}
	}
}

func TestRemoteTranslateEmptyResultAllowed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"translated_text": ""})
	}))
	defer ts.Close()

	remote, _ := NewRemote(ts.URL, time.Second)
	out, err := remote.Translate(context.Background(), "x", "eng", "lug")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "" {
		t.Fatalf("out = %q, want empty", out)
	}
}

func TestRemoteTranslateRemoteError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "model not loaded"})
	}))
	defer ts.Close()

	remote, _ := NewRemote(ts.URL, time.Second)
	_, err := remote.Translate(context.Background(), "x", "eng", "lug")
	if !errors.Is(err, domain.ErrTranslationFailed) {
		t.Fatalf("err = %v, want ErrTranslationFailed", err)
	}
}

func TestRemoteTranslateMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"missing fields": `{"something_else": true}`,
		"not json":       `<html>gateway error</html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer ts.Close()

			remote, _ := NewRemote(ts.URL, time.Second)
			_, err := remote.Translate(context.Background(), "x", "eng", "lug")
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestRemoteTranslateHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	remote, _ := NewRemote(ts.URL, time.Second)
	_, err := remote.Translate(context.Background(), "x", "eng", "lug")
	var unavailable *domain.ServiceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want ServiceUnavailableError", err)
	}
}

func TestRemoteTranslateConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // shut down before calling

	remote, _ := NewRemote(ts.URL, time.Second)
	_, err := remote.Translate(context.Background(), "x", "eng", "lug")
	var unavailable *domain.ServiceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want ServiceUnavailableError", err)
	}
	if unavailable.Cause == nil {
		t.Fatalf("cause missing for diagnostics")
	}
}

func TestRemoteTranslateTimeout(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() { close(block); ts.Close() }()

	remote, _ := NewRemote(ts.URL, 50*time.Millisecond)
	_, err := remote.Translate(context.Background(), "x", "eng", "lug")
	if !errors.Is(err, domain.ErrTranslationTimeout) {
		t.Fatalf("err = %v, want ErrTranslationTimeout", err)
	}
}

func TestNewRemoteRequiresURL(t *testing.T) {
	if _, err := NewRemote("  ", time.Second); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
