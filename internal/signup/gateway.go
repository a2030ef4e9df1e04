package signup

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/platform/httpx"
)

// Gateway is the payment collaborator: it opens orders before checkout and
// proves payments afterwards.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// GatewayOrder is the gateway's handle for a pending payment.
type GatewayOrder struct {
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// HTTPGateway talks to the hosted payment gateway over REST. Signatures are
// HMAC-SHA256 over "orderID|paymentID" keyed with the gateway secret.
type HTTPGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

// NewHTTPGateway constructs an HTTPGateway.
func NewHTTPGateway(baseURL, keyID, keySecret string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type createOrderRequest struct {
	// Amount is in the currency's smallest unit.
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder opens a gateway order for the plan amount.
func (g *HTTPGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (GatewayOrder, error) {
	subunits := amount.Mul(decimal.NewFromInt(100)).IntPart()
	body, err := json.Marshal(createOrderRequest{Amount: subunits, Currency: currency, Receipt: receipt})
	if err != nil {
		return GatewayOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: %v", httpx.ErrGatewayFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return GatewayOrder{}, fmt.Errorf("%w: gateway returned %d", httpx.ErrGatewayFailed, resp.StatusCode)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: decode order: %v", httpx.ErrGatewayFailed, err)
	}
	return GatewayOrder{
		OrderID:  out.ID,
		Amount:   decimal.NewFromInt(out.Amount).Div(decimal.NewFromInt(100)),
		Currency: out.Currency,
	}, nil
}

// VerifySignature checks the gateway's payment proof in constant time.
func (g *HTTPGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
