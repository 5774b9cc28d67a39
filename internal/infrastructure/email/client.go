package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/pkg/logger"
)

// Client sends transactional mail through an HTTP JSON API.
type Client struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, sender string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		sender:     sender,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.sender
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email API error: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) SendBookingReceipt(ctx context.Context, b *entity.Booking) error {
	if b.GuestEmail == "" {
		return nil
	}
	err := c.Send(ctx, Message{
		To:      b.GuestEmail,
		Subject: "Your booking at " + b.PropertyTitle + " is confirmed",
		Text:    ReceiptText(b),
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("booking receipt sent", zap.String("booking_id", b.ID))
	return nil
}

func ReceiptText(b *entity.Booking) string {
	return fmt.Sprintf(
		"Booking %s\nProperty: %s\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nNights: %d x %.2f %s\nTotal: %.2f %s\nPayment: %s\n",
		b.ID, b.PropertyTitle,
		b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"),
		b.Guests, b.Nights, b.PricePerNight, b.Currency,
		b.TotalPrice, b.Currency, b.PaymentID,
	)
}

// Disabled drops receipts when no email API is configured.
type Disabled struct{}

func (Disabled) SendBookingReceipt(ctx context.Context, b *entity.Booking) error {
	logger.FromContext(ctx).Debug("email disabled, receipt skipped", zap.String("booking_id", b.ID))
	return nil
}
