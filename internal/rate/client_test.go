package rate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOfficialSellRate_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/dolares/oficial" {
			t.Fatalf("path = %s, want /v1/dolares/oficial", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"compra":1230.0,"venta":1250.5}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rate, err := client.OfficialSellRate(ctx)
	if err != nil {
		t.Fatalf("OfficialSellRate error: %v", err)
	}
	if rate != 1250.5 {
		t.Fatalf("rate = %v, want 1250.5", rate)
	}
}

func TestOfficialSellRate_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := client.OfficialSellRate(ctx); err == nil {
		t.Fatalf("expected error for 503 response")
	}
}

func TestOfficialSellRate_NonPositiveRate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"compra":0,"venta":0}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := client.OfficialSellRate(ctx); err == nil {
		t.Fatalf("expected error for non-positive rate")
	}
}

func TestOfficialSellRate_NotConfigured(t *testing.T) {
	var client *Client

	if _, err := client.OfficialSellRate(context.Background()); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
