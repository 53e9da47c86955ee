package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const defaultOllamaModel = "llama3.2:latest"

type ollamaTranslator struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewOllama creates a Translator backed by an Ollama /api/generate endpoint.
// No timeout is imposed here; callers wanting bounded latency should pass a
// context with a deadline.
func NewOllama(endpoint, model string) Translator {
	if model == "" {
		model = defaultOllamaModel
	}
	return &ollamaTranslator{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		client:   http.DefaultClient,
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (t *ollamaTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	payload := ollamaRequest{
		Model:  t.model,
		Prompt: text,
		System: fmt.Sprintf(
			"Translate the user's text from %s to %s. Respond with the translation only, no commentary.",
			sourceLang, targetLang),
		Stream:  false,
		Options: ollamaOptions{Temperature: 0},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{SourceLang: sourceLang, TargetLang: targetLang, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &Error{SourceLang: sourceLang, TargetLang: targetLang, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", &Error{SourceLang: sourceLang, TargetLang: targetLang, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &Error{
			SourceLang: sourceLang,
			TargetLang: targetLang,
			Err:        fmt.Errorf("ollama returned status %s", resp.Status),
		}
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{SourceLang: sourceLang, TargetLang: targetLang, Err: err}
	}
	return strings.TrimSpace(out.Response), nil
}
