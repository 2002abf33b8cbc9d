package trigger

import (
	"encoding/json"
	"fmt"
)

// Response is the raw exchange response of a signed request.
type Response struct {
	Status int
	Body   json.RawMessage
}

func newResponse(status int, body []byte) (Response, error) {
	if !json.Valid(body) {
		return Response{}, fmt.Errorf("could not decode response [%d]: %s", status, string(body))
	}
	return Response{
		Status: status,
		Body:   body,
	}, nil
}

// APIError is the error payload of the exchange.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("binance error %d: %s", e.Code, e.Message)
}

// APIError returns the exchange error carried by the response, if any.
// Successful responses carry no code, or code 200 for some endpoints.
func (r Response) APIError() (APIError, bool) {
	var apiErr APIError
	if err := json.Unmarshal(r.Body, &apiErr); err != nil {
		// not an object e.g. a list of orders
		return apiErr, false
	}
	if apiErr.Code == 0 || apiErr.Code == 200 {
		return apiErr, false
	}
	return apiErr, true
}

// Decode decodes the body into the given value.
func (r Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

// Order is the order payload of the futures order endpoints.
type Order struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Price         string `json:"price"`
	StopPrice     string `json:"stopPrice"`
	OrigQuantity  string `json:"origQty"`
	ReduceOnly    bool   `json:"reduceOnly"`
	ClosePosition bool   `json:"closePosition"`
}

// Order decodes the response as a single order.
func (r Response) Order() (Order, error) {
	if apiErr, ok := r.APIError(); ok {
		return Order{}, apiErr
	}
	var order Order
	err := r.Decode(&order)
	return order, err
}

// OrderID extracts the order id of a single order response.
func (r Response) OrderID() (int64, bool) {
	order, err := r.Order()
	if err != nil || order.OrderID == 0 {
		return 0, false
	}
	return order.OrderID, true
}
