package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Draft is the generated contract content.
type Draft struct {
	Titulo string `json:"titulo"`
	Texto  string `json:"texto"`
}

// Drafter is the opaque generative collaborator. A failed draft is an
// ordinary unit-of-work failure: the gate never debits for it.
type Drafter interface {
	DraftContract(ctx context.Context, prompt string) (Draft, error)
}

// Client calls a completion endpoint over HTTP. Constructed once at process
// start and injected where needed.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) DraftContract(ctx context.Context, prompt string) (Draft, error) {
	body, _ := json.Marshal(map[string]string{"prompt": prompt})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/contract-draft", bytes.NewReader(body))
	if err != nil {
		return Draft{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Draft{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Draft{}, fmt.Errorf("generative service returned %d", resp.StatusCode)
	}
	var out Draft
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Draft{}, err
	}
	if out.Texto == "" {
		return Draft{}, fmt.Errorf("generative service returned an empty draft")
	}
	return out, nil
}
