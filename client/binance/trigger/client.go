package trigger

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/drakos74/envelope/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the binance usdt-margined futures api.
	BaseURL = "https://fapi.binance.com"
	// TestnetURL is the binance futures testnet api.
	TestnetURL = "https://testnet.binancefuture.com"

	orderEndpoint      = "/fapi/v1/order"
	openOrdersEndpoint = "/fapi/v1/openOrders"
	allOrdersEndpoint  = "/fapi/v1/allOrders"

	apiKeyHeader = "X-MBX-APIKEY"

	// DefaultLimit is the default number of orders returned by FetchAllOrders.
	DefaultLimit = 50
)

// ErrInvalidMethod is returned for http methods other than GET, POST and DELETE.
var ErrInvalidMethod = errors.New("invalid method")

// Client is a signed rest client for the futures order endpoints.
// It is used for stop-market orders, which the futures sdk wrapper does not manage.
type Client struct {
	key      string
	secret   string
	baseURL  string
	http     *http.Client
	now      func() time.Time
	clientID func() string
}

// NewClient creates a new signed client for the given api key and secret.
func NewClient(key, secret string) *Client {
	return &Client{
		key:     key,
		secret:  secret,
		baseURL: BaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
		clientID: func() string {
			return "sl" + strings.ReplaceAll(uuid.New().String(), "-", "")
		},
	}
}

// WithBaseURL overrides the api base url e.g. for the testnet.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the http client timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http.Timeout = timeout
	return c
}

// Sign creates the hex encoded HMAC-SHA256 signature of the canonical query of the params.
func (c *Client) Sign(params map[string]string) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(canonical(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonical joins the params as key=value pairs, in lexicographic key order.
// NOTE : values are not escaped, the signature must match the query the exchange receives.
func canonical(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%s", k, params[k])
	}
	return strings.Join(pairs, "&")
}

// send signs and sends the request.
// The response is returned as is, the http status is not checked.
func (c *Client) send(ctx context.Context, method, endpoint string, params map[string]string) (Response, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return Response{}, fmt.Errorf("'%s': %w", method, ErrInvalidMethod)
	}

	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed["timestamp"] = strconv.FormatInt(c.now().UnixMilli(), 10)
	query := fmt.Sprintf("%s&signature=%s", canonical(signed), c.Sign(signed))

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, query), nil)
	if err != nil {
		return Response{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("could not send request to '%s': %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("could not read response from '%s': %w", endpoint, err)
	}

	log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("signed request")

	return newResponse(resp.StatusCode, body)
}

// PlaceStopMarketOrder places a STOP_MARKET order at the given stop price.
// If reduceOnly is set the order is sent with closePosition=true,
// in which case the exchange closes the whole position and the quantity is informational.
func (c *Client) PlaceStopMarketOrder(ctx context.Context, symbol model.Symbol, side model.Side, quantity, stopPrice float64, reduceOnly bool) (Response, error) {
	params := map[string]string{
		"symbol":           symbol.Pair(),
		"side":             side.String(),
		"type":             model.StopMarket.String(),
		"stopPrice":        fmt.Sprintf("%.2f", stopPrice),
		"closePosition":    strconv.FormatBool(reduceOnly),
		"quantity":         strconv.FormatFloat(quantity, 'f', -1, 64),
		"timeInForce":      "GTC",
		"workingType":      "CONTRACT_PRICE",
		"newClientOrderId": c.clientID(),
	}
	return c.send(ctx, http.MethodPost, orderEndpoint, params)
}

// CancelOrder cancels the order with the given id.
func (c *Client) CancelOrder(ctx context.Context, symbol model.Symbol, orderID int64) (Response, error) {
	params := map[string]string{
		"symbol":  symbol.Pair(),
		"orderId": strconv.FormatInt(orderID, 10),
	}
	return c.send(ctx, http.MethodDelete, orderEndpoint, params)
}

// FetchOpenOrders returns all open orders for the symbol, including stop orders.
func (c *Client) FetchOpenOrders(ctx context.Context, symbol model.Symbol) (Response, error) {
	params := map[string]string{
		"symbol": symbol.Pair(),
	}
	return c.send(ctx, http.MethodGet, openOrdersEndpoint, params)
}

// FetchAllOrders returns the latest orders for the symbol, in any status.
// A non-positive limit falls back to DefaultLimit.
func (c *Client) FetchAllOrders(ctx context.Context, symbol model.Symbol, limit int) (Response, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	params := map[string]string{
		"symbol": symbol.Pair(),
		"limit":  strconv.Itoa(limit),
	}
	return c.send(ctx, http.MethodGet, allOrdersEndpoint, params)
}
