// Package rate provee un cliente HTTP para la cotización oficial del dólar,
// como alternativa a la celda de cotización de la planilla.
package rate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client encapsula la consulta de cotizaciones a una API estilo DolarApi.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type quote struct {
	Compra float64 `json:"compra"`
	Venta  float64 `json:"venta"`
}

// NewClient crea el cliente de cotizaciones para la dirección indicada.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// OfficialSellRate devuelve la cotización de venta del dólar oficial.
func (c *Client) OfficialSellRate(ctx context.Context) (float64, error) {
	if c == nil || c.baseURL == "" {
		return 0, fmt.Errorf("rate client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	url := base + "/v1/dolares/oficial"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var q quote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	if q.Venta <= 0 {
		return 0, fmt.Errorf("non-positive sell rate: %v", q.Venta)
	}

	return q.Venta, nil
}
