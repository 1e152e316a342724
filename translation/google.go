// Package translation implements the machine-translation collaborator and the
// one-shot translated retry used when a substance query comes back empty.
package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/triskis777/ketaverso-bot/interfaces"
)

// DefaultEndpoint is the public Google Translate "gtx" endpoint
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

const maxTranslationBytes = 1 << 20

// ErrUnexpectedResponse is returned when the translation payload cannot be read
var ErrUnexpectedResponse = errors.New("unexpected translation response")

var _ interfaces.Translator = (*GoogleTranslator)(nil)

// GoogleTranslator translates text with source-language auto-detection
type GoogleTranslator struct {
	endpoint   string
	target     string
	httpClient *http.Client
}

// NewGoogleTranslator creates a translator towards target (e.g. "en").
// An empty endpoint selects DefaultEndpoint.
func NewGoogleTranslator(endpoint, target string, timeout time.Duration) *GoogleTranslator {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if target == "" {
		target = "en"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleTranslator{
		endpoint:   endpoint,
		target:     target,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate returns text translated to the target language
func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", g.target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building translation request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranslationBytes))
	if err != nil {
		return "", fmt.Errorf("reading translation response: %w", err)
	}

	return parseGTX(body)
}

// parseGTX extracts the translated text from the nested array payload:
// [[["translated","source",...],...],...]
func parseGTX(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrUnexpectedResponse)
	}

	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}
