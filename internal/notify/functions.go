// Package notify sends guest and vendor notifications through Supabase Edge
// Functions and, optionally, WhatsApp.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wedding-app-go/internal/config"
)

type Kind string

const (
	KindGuestInvitation  Kind = "guest_invitation"
	KindRSVPConfirmation Kind = "rsvp_confirmation"
	KindPaymentReminder  Kind = "payment_reminder"
)

var ErrNotConfigured = errors.New("edge functions are not configured")

type Payload struct {
	Kind Kind           `json:"kind"`
	To   string         `json:"to"`
	Data map[string]any `json:"data,omitempty"`
}

// Functions invokes Supabase Edge Functions with the service key.
type Functions struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewFunctions(supabase config.SupabaseConfig, timeout time.Duration) (*Functions, error) {
	baseURL := strings.TrimRight(supabase.URL, "/")
	if baseURL == "" || supabase.ServiceKey == "" {
		return nil, ErrNotConfigured
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Functions{
		baseURL:    baseURL,
		serviceKey: supabase.ServiceKey,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (f *Functions) Invoke(ctx context.Context, name string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", payload.Kind, err)
	}

	endpoint := f.baseURL + "/functions/v1/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.serviceKey)
	req.Header.Set("apikey", f.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	message, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("invoke %s: %s: %s", name, resp.Status, strings.TrimSpace(string(message)))
}
