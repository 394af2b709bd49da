package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
)

// Compile-time check
var _ Backend = (*Remote)(nil)

// Remote calls the hosted translation service over HTTP. The wire contract
// is a single POST endpoint taking {text, source_language, target_language}
// and answering {translated_text} on success or {error} on failure.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote builds a remote backend for the given base URL. The translation
// endpoint lives at <base>/translate. The timeout covers the whole call;
// the reference deployment uses 90s because the model can be slow to decode.
func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("translator base url empty")
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Remote{
		url:    strings.TrimRight(baseURL, "/") + "/translate",
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Translate(ctx context.Context, text string, source, target model.LanguageCode) (string, error) {
	reqBody := struct {
		Text           string `json:"text"`
		SourceLanguage string `json:"source_language"`
		TargetLanguage string `json:"target_language"`
	}{Text: text, SourceLanguage: string(source), TargetLanguage: string(target)}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(b))
	if err != nil {
		return "", &domain.ServiceUnavailableError{Service: "translation", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", domain.ErrTranslationTimeout
		}
		return "", &domain.ServiceUnavailableError{Service: "translation", Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &domain.ServiceUnavailableError{
			Service: "translation",
			Cause:   fmt.Errorf("translator http %d", resp.StatusCode),
		}
	}

	var payload struct {
		TranslatedText *string `json:"translated_text"`
		Error          string  `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", domain.ErrMalformedResponse
	}
	switch {
	case payload.TranslatedText != nil:
		return *payload.TranslatedText, nil
	case payload.Error != "":
		return "", fmt.Errorf("%w: %s", domain.ErrTranslationFailed, payload.Error)
	default:
		return "", domain.ErrMalformedResponse
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
