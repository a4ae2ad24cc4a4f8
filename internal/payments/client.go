package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	TipoMensal   = "mensal"
	TipoCreditos = "creditos"
)

// Customer identifies the payer on the gateway side.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CheckoutRequest is the payload for the gateway's server-side checkout
// function. Completion is asynchronous: the webhook flips the subscription
// or wallet state later, out-of-band.
type CheckoutRequest struct {
	Tipo      string   `json:"tipo"`
	Valor     float64  `json:"valor"`
	Descricao string   `json:"descricao"`
	Customer  Customer `json:"customer"`
	UserID    string   `json:"userId"`
}

// CheckoutClient starts a gateway checkout session and returns the redirect
// URL the browser must follow.
type CheckoutClient struct {
	Endpoint string
	HTTP     *http.Client
}

func NewCheckoutClient(endpoint string) *CheckoutClient {
	return &CheckoutClient{Endpoint: endpoint, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

func (c *CheckoutClient) Start(ctx context.Context, in CheckoutRequest) (string, error) {
	body, _ := json.Marshal(in)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("checkout returned %d", resp.StatusCode)
	}
	var out struct {
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.CheckoutURL == "" {
		return "", fmt.Errorf("checkout response missing checkoutUrl")
	}
	return out.CheckoutURL, nil
}
