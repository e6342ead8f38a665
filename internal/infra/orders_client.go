package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"order-admin/internal/domain"
)

const (
	listOrdersPath   = "/api/admin/all-orders"
	updateStatusPath = "/api/admin/update-status"

	opListOrders   = "list_orders"
	opUpdateStatus = "update_status"

	maxErrorBody = 64 << 10
)

// Acknowledgement is the raw update-status response. Nothing reads its shape.
type Acknowledgement json.RawMessage

type updateStatusRequest struct {
	OrderID        string                `json:"orderId"`
	DeliveryStatus domain.DeliveryStatus `json:"deliveryStatus"`
}

// OrdersClient is a thin pass-through to the orders admin API. It never
// retries and sets no timeout of its own; the caller's context is the only
// deadline.
type OrdersClient struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	metrics    *Metrics
}

func NewOrdersClient(baseURL string, tracer trace.Tracer, metrics *Metrics) *OrdersClient {
	if tracer == nil {
		tracer = otel.Tracer("order-admin/infra")
	}
	return &OrdersClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		tracer:  tracer,
		metrics: metrics,
	}
}

func (c *OrdersClient) ListOrders(ctx context.Context) (orders []domain.Order, err error) {
	start := time.Now()
	defer func() { c.metrics.observe(opListOrders, start, err) }()

	body, status, err := c.do(ctx, opListOrders, http.MethodGet, listOrdersPath, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, &RemoteError{Op: opListOrders, StatusCode: status, Body: truncate(body)}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (c *OrdersClient) UpdateOrderStatus(ctx context.Context, orderID string, status domain.DeliveryStatus) (ack Acknowledgement, err error) {
	start := time.Now()
	defer func() { c.metrics.observe(opUpdateStatus, start, err) }()

	payload, err := json.Marshal(updateStatusRequest{OrderID: orderID, DeliveryStatus: status})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", opUpdateStatus, err)
	}
	body, _, err := c.do(ctx, opUpdateStatus, http.MethodPost, updateStatusPath, payload)
	if err != nil {
		return nil, err
	}
	return Acknowledgement(body), nil
}

func (c *OrdersClient) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, int, error) {
	ctx, span := c.tracer.Start(ctx, "orders-api."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	span.SetAttributes(
		attribute.String("http.url", req.URL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		nerr := &NetworkError{Op: op, Err: err}
		span.RecordError(nerr)
		span.SetStatus(codes.Error, nerr.Error())
		return nil, 0, nerr
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		nerr := &NetworkError{Op: op, Err: err}
		span.RecordError(nerr)
		span.SetStatus(codes.Error, nerr.Error())
		return nil, resp.StatusCode, nerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: truncate(body)}
		span.RecordError(rerr)
		span.SetStatus(codes.Error, rerr.Error())
		return nil, resp.StatusCode, rerr
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return strings.TrimSpace(string(b))
}
