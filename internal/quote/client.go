package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout    = 8 * time.Second
	idempotencyHeader = "Idempotency-Key"
)

// ErrDeliveryFailed is returned when the webhook rejects or cannot receive a request.
var ErrDeliveryFailed = errors.New("quote: delivery failed")

// Receipt acknowledges a submitted quote request.
type Receipt struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
	Delivered  bool      `json:"-"`
}

// Client forwards quote requests to a webhook (CRM, mail relay). When no
// webhook is configured the client issues local receipts only.
type Client struct {
	webhookURL string
	http       *http.Client
	now        func() time.Time
}

// NewClient constructs a Client. An empty webhookURL selects local receipts.
func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: strings.TrimSpace(webhookURL),
		http:       &http.Client{Timeout: defaultTimeout},
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Configured reports whether requests are forwarded to a webhook.
func (c *Client) Configured() bool {
	return c != nil && c.webhookURL != ""
}

type webhookPayload struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Request
}

// Submit validates req and delivers it. Validation failures are the caller's
// responsibility; Submit assumes req.Validate() returned nil.
func (c *Client) Submit(ctx context.Context, req Request) (Receipt, error) {
	id := uuid.NewString()
	now := c.now()
	if !c.Configured() {
		return localReceipt(id, now), nil
	}

	body, err := json.Marshal(webhookPayload{ID: id, SubmittedAt: now, Request: req})
	if err != nil {
		return Receipt{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(idempotencyHeader, id)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Receipt{}, fmt.Errorf("%w: webhook status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	receipt := Receipt{ID: id, Status: "received", ReceivedAt: now, Delivered: true}
	// Webhooks may answer with their own reference; an empty or non-JSON body is fine.
	var remote struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&remote); err == nil {
		if strings.TrimSpace(remote.ID) != "" {
			receipt.ID = remote.ID
		}
		if strings.TrimSpace(remote.Status) != "" {
			receipt.Status = remote.Status
		}
	}
	return receipt, nil
}

func localReceipt(id string, now time.Time) Receipt {
	return Receipt{ID: id, Status: "queued", ReceivedAt: now}
}
