package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tinoosan/fluxo/internal/brdoc"
	"github.com/tinoosan/fluxo/internal/ledger"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

// Config configures the ViaCEP client.
type Config struct {
	BaseURL string
	Timeout time.Duration // Default: 5 seconds
}

// ViaCEP is a client for the ViaCEP JSON API.
type ViaCEP struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// NewViaCEP creates a client.
func NewViaCEP(cfg Config, logger *slog.Logger) *ViaCEP {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ViaCEP{httpClient: &http.Client{Timeout: timeout}, baseURL: base, log: logger}
}

type viaCEPResponse struct {
	Street       string          `json:"logradouro"`
	Complement   string          `json:"complemento"`
	Neighborhood string          `json:"bairro"`
	City         string          `json:"localidade"`
	State        string          `json:"uf"`
	Erro         json.RawMessage `json:"erro"`
}

// Lookup implements cep.Lookup.
func (c *ViaCEP) Lookup(ctx context.Context, code string) (ledger.Address, error) {
	d := brdoc.Digits(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, d), nil)
	if err != nil {
		return ledger.Address{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("cep lookup failed", "cep", d, "err", err)
		return ledger.Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("cep lookup failed", "cep", d, "status", resp.StatusCode)
		return ledger.Address{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ledger.Address{}, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	// "erro" is true (or "true" in newer responses) for unknown codes
	if e := strings.Trim(string(body.Erro), `"`); e == "true" {
		return ledger.Address{}, ErrNotFound
	}
	return ledger.Address{
		PostalCode:   d,
		Street:       body.Street,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}, nil
}
