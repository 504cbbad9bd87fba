package washdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/go-resty/resty/v2"
)

// DefaultRequestTimeout bounds api calls when caller doesn't provide own http client
const DefaultRequestTimeout = 10 * time.Second

// APIError is failed response of the service, Message is safe to show to admin
type APIError struct {
	Status  int
	Target  string
	Message string
}

func (e *APIError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: %s", e.Target, e.Message)
	}
	return e.Message
}

// RecordWash is payload of wash recording request
type RecordWash struct {
	WashTypeID string        `json:"wash_type_id"`
	CarSize    model.CarSize `json:"car_size"`
	VehicleID  *string       `json:"vehicle_id,omitempty"`
	Free       bool          `json:"free"`
}

// Client calls back-office api on behalf of signed in admin
type Client struct {
	rest    *resty.Client
	baseURL string
}

func NewClient(httpClient *http.Client, baseURL string, token string) *Client {
	var rest *resty.Client
	if httpClient != nil {
		rest = resty.NewWithClient(httpClient)
	} else {
		rest = resty.New().SetTimeout(DefaultRequestTimeout)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	rest.SetBaseURL(baseURL).SetHeader("Accept", "application/json")
	if token != "" {
		rest.SetAuthToken(token)
	}

	return &Client{rest: rest, baseURL: baseURL}
}

// RealtimeURL is websocket address of change stream
func (c *Client) RealtimeURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/api/realtime")
	if err != nil {
		return "", fmt.Errorf("invalid api url - %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

func (c *Client) Customers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) WashTypes(ctx context.Context) ([]model.WashType, error) {
	var washTypes []model.WashType
	if err := c.do(ctx, http.MethodGet, "/api/wash-types", nil, &washTypes); err != nil {
		return nil, err
	}
	return washTypes, nil
}

func (c *Client) History(ctx context.Context, customerID string) ([]model.Wash, error) {
	var washes []model.Wash
	if err := c.do(ctx, http.MethodGet, c.customerPath(customerID, "washes"), nil, &washes); err != nil {
		return nil, err
	}
	return washes, nil
}

func (c *Client) RecordWash(ctx context.Context, customerID string, rw RecordWash) (*model.WashReceipt, error) {
	var receipt model.WashReceipt
	if err := c.do(ctx, http.MethodPost, c.customerPath(customerID, "washes"), rw, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) Redeem(ctx context.Context, customerID string) (*model.Customer, error) {
	return c.adjust(ctx, c.customerPath(customerID, "redemptions"))
}

func (c *Client) RemoveWash(ctx context.Context, customerID string) (*model.Customer, error) {
	return c.adjust(ctx, c.customerPath(customerID, "wash-count/decrement"))
}

func (c *Client) Recount(ctx context.Context, customerID string) (*model.Customer, error) {
	return c.adjust(ctx, c.customerPath(customerID, "wash-count/recount"))
}

// DeleteCustomer deletes customer together with its vehicles and wash history
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%s", url.PathEscape(customerID)), nil, nil)
}

func (c *Client) adjust(ctx context.Context, path string) (*model.Customer, error) {
	var customer model.Customer
	if err := c.do(ctx, http.MethodPost, path, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) customerPath(customerID string, sub string) string {
	return fmt.Sprintf("/api/customers/%s/%s", url.PathEscape(customerID), sub)
}

func (c *Client) do(ctx context.Context, method string, path string, payload any, out any) error {
	req := c.rest.R().SetContext(ctx)
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("failed to call %s %s - %w", method, path, err)
	}

	if res.IsError() {
		return decodeAPIError(res.StatusCode(), res.Body())
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s - %w", method, path, err)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) error {
	var body struct {
		Target  string `json:"target"`
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}

	apiErr.Target = body.Target
	apiErr.Message = body.Message
	if len(body.Errors) > 0 {
		msgs := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			msgs = append(msgs, e.Message)
		}
		apiErr.Message = strings.Join(msgs, "; ")
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
