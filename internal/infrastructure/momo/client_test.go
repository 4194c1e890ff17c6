package momo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farumasi-backend/config"

	"github.com/shopspring/decimal"
)

type gateway struct {
	t          *testing.T
	payStatus  int
	lastPay    requestToPayBody
	lastRefID  string
	lastTarget string
	status     string
}

func (g *gateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/collection/token/", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if r.Method != http.MethodPost || !ok || user != "api-user" || pass != "api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "sub-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", TokenType: "access_token", ExpiresIn: 3600})
	})
	mux.HandleFunc("/collection/v1_0/requesttopay", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		g.lastRefID = r.Header.Get("X-Reference-Id")
		g.lastTarget = r.Header.Get("X-Target-Environment")
		if err := json.NewDecoder(r.Body).Decode(&g.lastPay); err != nil {
			g.t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(g.payStatus)
	})
	mux.HandleFunc("/collection/v1_0/requesttopay/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collection/v1_0/requesttopay/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(statusResponse{Status: g.status})
	})
	return mux
}

func newTestClient(t *testing.T, g *gateway) *Client {
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)
	return NewClient(config.MoMoConfig{
		BaseURL:         srv.URL + "/",
		APIUser:         "api-user",
		APIKey:          "api-key",
		SubscriptionKey: "sub-key",
		TargetEnv:       "sandbox",
		Currency:        "RWF",
		Timeout:         5 * time.Second,
	})
}

func TestRequestToPay_SendsCollectionRequest(t *testing.T) {
	g := &gateway{t: t, payStatus: http.StatusAccepted}
	client := newTestClient(t, g)

	err := client.RequestToPay(context.Background(), RequestToPay{
		ReferenceID: "ref-1",
		ExternalID:  "42",
		Amount:      decimal.RequireFromString("8000"),
		Currency:    "RWF",
		Payer:       "250788000000",
	})
	if err != nil {
		t.Fatalf("RequestToPay: %v", err)
	}

	if g.lastRefID != "ref-1" || g.lastTarget != "sandbox" {
		t.Fatalf("unexpected headers ref=%q target=%q", g.lastRefID, g.lastTarget)
	}
	want := requestToPayBody{
		Amount:       "8000",
		Currency:     "RWF",
		ExternalID:   "42",
		Payer:        party{PartyIDType: "MSISDN", PartyID: "250788000000"},
		PayerMessage: "Order payment",
		PayeeNote:    "FARUMASI",
	}
	if g.lastPay != want {
		t.Fatalf("body = %+v, want %+v", g.lastPay, want)
	}
}

func TestRequestToPay_GatewayRejection(t *testing.T) {
	g := &gateway{t: t, payStatus: http.StatusBadRequest}
	client := newTestClient(t, g)

	err := client.RequestToPay(context.Background(), RequestToPay{ReferenceID: "ref", Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestToken_BadCredentials(t *testing.T) {
	g := &gateway{t: t}
	srv := httptest.NewServer(g.handler())
	defer srv.Close()

	client := NewClient(config.MoMoConfig{BaseURL: srv.URL, APIUser: "wrong", APIKey: "creds", Timeout: time.Second})
	if _, err := client.Token(context.Background()); !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	g := &gateway{t: t, status: "SUCCESSFUL"}
	client := newTestClient(t, g)

	status, err := client.Status(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != "SUCCESSFUL" {
		t.Fatalf("status = %q", status)
	}

	if _, err := client.Status(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
