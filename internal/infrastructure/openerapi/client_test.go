package openerapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

func TestFetchRatesParsesTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","rates":{"XYZ":2.0,"EUR":0.92}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	table, err := client.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("FetchRates() err = %v", err)
	}
	if table.Base != "USD" {
		t.Fatalf("base=%q want USD", table.Base)
	}
	if table.Rates["XYZ"] != 2.0 {
		t.Fatalf("rate XYZ=%v want 2.0", table.Rates["XYZ"])
	}
}

func TestFetchRatesNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchRates(context.Background())

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *domain.UpstreamError", err)
	}
	if ue.Source != Source || ue.StatusCode != http.StatusBadGateway {
		t.Fatalf("got %+v want source=%q status=502", ue, Source)
	}
}

func TestFetchRatesMissingRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchRates(context.Background())

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *domain.UpstreamError", err)
	}
}

func TestFetchRatesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)
	_, err := client.FetchRates(context.Background())

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *domain.UpstreamError", err)
	}
	if ue.StatusCode != 0 {
		t.Fatalf("status=%d want 0 on timeout", ue.StatusCode)
	}
}
