package languagemodel

import (
	"context"
	"errors"
	"net"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"mcpflow/internal/mcperr"
)

// Fixed generation configuration, per the LanguageModel capability design.
// There is no generationTopK: the Chat Completions API this client calls
// has no top-k parameter (see DESIGN.md), so top-k is not configurable here.
const (
	generationTemperature = 0.7
	generationTopP        = 0.8
	generationMaxTokens   = 2048
)

// RemoteConfig configures the vendor-backed generative variant.
type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Remote calls a vendor generative-text HTTP API. Its request/response
// schemas are entirely private to this file; Complete is the only
// surface callers see.
type Remote struct {
	client oai.Client
	model  string
}

// NewRemote builds a Remote variant from cfg.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("languagemodel: remote api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("languagemodel: remote model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Remote{client: oai.NewClient(opts...), model: cfg.Model}, nil
}

// Complete sends prompt as a single user message under the fixed
// generation configuration and maps vendor failures to typed kinds.
func (r *Remote) Complete(ctx context.Context, prompt string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model:       shared.ChatModel(r.model),
		Messages:    []oai.ChatCompletionMessageParamUnion{oai.UserMessage(prompt)},
		Temperature: param.NewOpt(generationTemperature),
		TopP:        param.NewOpt(generationTopP),
		MaxCompletionTokens: param.NewOpt(int64(generationMaxTokens)),
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyVendorError(err)
	}
	if len(resp.Choices) == 0 {
		return "", mcperr.New(mcperr.KindInternal, "vendor returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyVendorError(err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401:
			return mcperr.Wrap(mcperr.KindAuth, "vendor rejected credentials", err)
		case 403:
			return mcperr.Wrap(mcperr.KindForbidden, "vendor forbade the request", err)
		case 429:
			return mcperr.Wrap(mcperr.KindRateLimited, "vendor rate limit", err)
		case 400:
			if strings.Contains(strings.ToLower(apiErr.Message), "safety") {
				return mcperr.Wrap(mcperr.KindContentPolicy, "vendor content policy", err)
			}
			return mcperr.Wrap(mcperr.KindBadRequest, "vendor rejected request", err)
		default:
			return mcperr.Wrap(mcperr.KindGeneric, "vendor error", err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return mcperr.Wrap(mcperr.KindNetwork, "network error calling vendor", err)
	}

	return mcperr.Wrap(mcperr.KindGeneric, "vendor call failed", err)
}
