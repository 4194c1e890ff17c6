package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"farumasi-backend/config"

	"github.com/shopspring/decimal"
)

var (
	ErrGateway  = errors.New("mobile money gateway error")
	ErrNotFound = errors.New("payment reference not found at gateway")
)

const (
	payerMessage = "Order payment"
	payeeNote    = "FARUMASI"
)

// RequestToPay is a collection request sent to a payer's wallet
type RequestToPay struct {
	ReferenceID string
	ExternalID  string
	Amount      decimal.Decimal
	Currency    string
	Payer       string
}

// Client talks to the MTN MoMo collection API
type Client struct {
	cfg        config.MoMoConfig
	httpClient *http.Client
}

func NewClient(cfg config.MoMoConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewClientWithHTTP is used when the caller controls transport (tests, proxies)
func NewClientWithHTTP(cfg config.MoMoConfig, httpClient *http.Client) *Client {
	return &Client{cfg: cfg, httpClient: httpClient}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type party struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

type requestToPayBody struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId"`
	Payer        party  `json:"payer"`
	PayerMessage string `json:"payerMessage"`
	PayeeNote    string `json:"payeeNote"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

// Token fetches a collection access token
func (c *Client) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/collection/token/"), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.APIUser, c.cfg.APIKey)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %d: %s", ErrGateway, resp.StatusCode, readSnippet(resp.Body))
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", ErrGateway, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrGateway)
	}
	return body.AccessToken, nil
}

// RequestToPay asks the payer to approve a collection. The gateway answers 202 Accepted.
func (c *Client) RequestToPay(ctx context.Context, r RequestToPay) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(requestToPayBody{
		Amount:       r.Amount.String(),
		Currency:     r.Currency,
		ExternalID:   r.ExternalID,
		Payer:        party{PartyIDType: "MSISDN", PartyID: r.Payer},
		PayerMessage: payerMessage,
		PayeeNote:    payeeNote,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/collection/v1_0/requesttopay"), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Reference-Id", r.ReferenceID)
	req.Header.Set("X-Target-Environment", c.cfg.TargetEnv)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: requesttopay: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: requesttopay returned %d: %s", ErrGateway, resp.StatusCode, readSnippet(resp.Body))
	}
	return nil
}

// Status returns the gateway status of a request-to-pay, e.g. PENDING, SUCCESSFUL or FAILED
func (c *Client) Status(ctx context.Context, referenceID string) (string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/collection/v1_0/requesttopay/"+referenceID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Target-Environment", c.cfg.TargetEnv)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: status request: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status request returned %d: %s", ErrGateway, resp.StatusCode, readSnippet(resp.Body))
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode status: %v", ErrGateway, err)
	}
	return body.Status, nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
