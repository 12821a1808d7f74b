package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("llm: empty response")

// Gemini 文本生成客户端
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("llm: gemini api key is empty")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: new gemini client: %w", err)
	}
	return &Gemini{client: c, model: model, timeout: timeout}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("llm: generate content: %w", err)
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Unavailable 未配置 api key 时使用，每次调用都返回错误（上层会降级为固定回复）
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string) (string, error) {
	return "", errors.New("llm: generative service not configured")
}
