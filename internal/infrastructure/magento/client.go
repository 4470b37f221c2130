package magento

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/erp/magento-sync/internal/domain/magento"
)

// maxResponseSize is the maximum allowed response size from the Magento
// API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultTimeout bounds every API round trip
const defaultTimeout = 30 * time.Second

// ClientFactory builds Magento API clients over XML-RPC. It implements
// magento.ClientFactory; every client logs in on construction and releases
// its session on Close.
type ClientFactory struct {
	httpClient *http.Client
}

// NewClientFactory creates a factory with a shared HTTP client
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// OrderClient opens a session against the sales order API
func (f *ClientFactory) OrderClient(creds magento.Credentials) (magento.OrderClient, error) {
	session, err := f.dial(creds)
	if err != nil {
		return nil, err
	}
	return &orderClient{session: session}, nil
}

// ShipmentClient opens a session against the shipment API
func (f *ClientFactory) ShipmentClient(creds magento.Credentials) (magento.ShipmentClient, error) {
	session, err := f.dial(creds)
	if err != nil {
		return nil, err
	}
	return &shipmentClient{session: session}, nil
}

// ProductClient opens a session against the catalog product API
func (f *ClientFactory) ProductClient(creds magento.Credentials) (magento.ProductClient, error) {
	session, err := f.dial(creds)
	if err != nil {
		return nil, err
	}
	return &productClient{session: session}, nil
}

// dial logs in and returns an authenticated session handle
func (f *ClientFactory) dial(creds magento.Credentials) (*session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	s := &session{endpoint: creds.URL, httpClient: f.httpClient}
	result, err := s.roundTrip(context.Background(), "login", []interface{}{creds.APIUser, creds.APIKey})
	if err != nil {
		return nil, err
	}
	id, ok := result.(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("magento: login returned no session id")
	}
	s.id = id
	return s, nil
}

// session is one authenticated XML-RPC session
type session struct {
	endpoint   string
	httpClient *http.Client
	id         string
}

// call invokes a remote API method within the session
func (s *session) call(ctx context.Context, method string, args []interface{}) (interface{}, error) {
	return s.roundTrip(ctx, "call", []interface{}{s.id, method, args})
}

// close ends the remote session
func (s *session) close() error {
	if s.id == "" {
		return nil
	}
	_, err := s.roundTrip(context.Background(), "endSession", []interface{}{s.id})
	s.id = ""
	return err
}

func (s *session) roundTrip(ctx context.Context, method string, args []interface{}) (interface{}, error) {
	body, err := marshalCall(method, args)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("magento: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("magento: unexpected HTTP status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("magento: reading response: %w", err)
	}

	return unmarshalResponse(respBody)
}

// orderClient implements magento.OrderClient over one session
type orderClient struct {
	session *session
}

// Info fetches the order payload by increment id
func (c *orderClient) Info(ctx context.Context, incrementID string) (*magento.OrderData, error) {
	result, err := c.session.call(ctx, "sales_order.info", []interface{}{incrementID})
	if err != nil {
		return nil, err
	}
	record, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("magento: order info returned no record")
	}
	return orderDataFromRecord(record), nil
}

// Cancel cancels the order on Magento
func (c *orderClient) Cancel(ctx context.Context, incrementID string) error {
	_, err := c.session.call(ctx, "sales_order.cancel", []interface{}{incrementID})
	return err
}

// AddComment appends a status comment to the order
func (c *orderClient) AddComment(ctx context.Context, incrementID, comment string) error {
	_, err := c.session.call(ctx, "sales_order.addComment", []interface{}{incrementID, comment})
	return err
}

// Close releases the API session
func (c *orderClient) Close() error {
	return c.session.close()
}

// shipmentClient implements magento.ShipmentClient over one session
type shipmentClient struct {
	session *session
}

// AddTrack attaches tracking info to a Magento shipment
func (c *shipmentClient) AddTrack(ctx context.Context, shipmentIncrementID, carrierCode, title, trackingNumber string) (string, error) {
	result, err := c.session.call(ctx, "sales_order_shipment.addTrack",
		[]interface{}{shipmentIncrementID, carrierCode, title, trackingNumber})
	if err != nil {
		return "", err
	}
	switch t := result.(type) {
	case string:
		return t, nil
	case int64:
		return fmt.Sprintf("%d", t), nil
	default:
		return "", fmt.Errorf("magento: addTrack returned unexpected result %T", result)
	}
}

// Close releases the API session
func (c *shipmentClient) Close() error {
	return c.session.close()
}

// productClient implements magento.ProductClient over one session
type productClient struct {
	session *session
}

// Info fetches a product payload by SKU. The identifier type is forced to
// "sku" so numeric SKUs are not mistaken for product ids.
func (c *productClient) Info(ctx context.Context, sku string) (*magento.ProductData, error) {
	result, err := c.session.call(ctx, "catalog_product.info",
		[]interface{}{sku, nil, nil, "sku"})
	if err != nil {
		return nil, err
	}
	record, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("magento: product info returned no record")
	}
	return productDataFromRecord(record), nil
}

// Close releases the API session
func (c *productClient) Close() error {
	return c.session.close()
}

var _ magento.ClientFactory = (*ClientFactory)(nil)
