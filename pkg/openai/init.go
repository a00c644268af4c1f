package openai

import (
	"net/http"

	"github.com/sashabaranov/go-openai"

	"clipforge/config"
)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseUrl, apiKey, model, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		transport.Proxy = http.ProxyURL(config.Conf.App.ParsedProxy)
	}

	cfg.HTTPClient = &http.Client{
		Transport: transport,
		// No timeout here: transcription of long audio can run for minutes.
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}
