// Package client reads a wedding's data from the REST API. It is the
// snapshot source of the live mirrors in the watch CLI.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wedding-app-go/internal/domain/budget"
	"wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/domain/guests"
	"wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/domain/vendors"
	"wedding-app-go/internal/domain/wedding"
)

const maxErrorBody = 4 << 10

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer of the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: u.String(),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Header carries the credentials for other transports, such as the realtime
// websocket.
func (c *Client) Header() http.Header {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	return header
}

func (c *Client) Wedding(ctx context.Context) (*wedding.Wedding, error) {
	var out wedding.Wedding
	if err := c.get(ctx, "/api/weddings/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListGuests(ctx context.Context) ([]guests.Guest, error) {
	var out struct {
		Items []guests.Guest `json:"items"`
	}
	if err := c.get(ctx, "/api/guests", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GuestName resolves a guest id to its display name.
func (c *Client) GuestName(ctx context.Context, guestID string) (string, error) {
	var out guests.Guest
	if err := c.get(ctx, "/api/guests/"+url.PathEscape(guestID), &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

func (c *Client) ListTables(ctx context.Context) ([]seating.Table, error) {
	return list[seating.Table](ctx, c, "/api/tables")
}

func (c *Client) ListSeats(ctx context.Context, tableID string) ([]seating.Seat, error) {
	return list[seating.Seat](ctx, c, "/api/tables/"+url.PathEscape(tableID)+"/seats")
}

func (c *Client) ListCategories(ctx context.Context) ([]budget.Category, error) {
	return list[budget.Category](ctx, c, "/api/budget/categories")
}

func (c *Client) ListExpenses(ctx context.Context) ([]budget.Expense, error) {
	return list[budget.Expense](ctx, c, "/api/expenses")
}

func (c *Client) Report(ctx context.Context) (*budget.Report, error) {
	var out budget.Report
	if err := c.get(ctx, "/api/budget/report", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListVendors(ctx context.Context) ([]vendors.Vendor, error) {
	return list[vendors.Vendor](ctx, c, "/api/vendors")
}

func (c *Client) ListAppointments(ctx context.Context, vendorID string) ([]vendors.Appointment, error) {
	return list[vendors.Appointment](ctx, c, vendorPath(vendorID, "appointments"))
}

func (c *Client) ListContracts(ctx context.Context, vendorID string) ([]vendors.Contract, error) {
	return list[vendors.Contract](ctx, c, vendorPath(vendorID, "contracts"))
}

func (c *Client) ListPayments(ctx context.Context, vendorID string) ([]vendors.Payment, error) {
	return list[vendors.Payment](ctx, c, vendorPath(vendorID, "payments"))
}

func (c *Client) ListReviews(ctx context.Context, vendorID string) ([]vendors.Review, error) {
	return list[vendors.Review](ctx, c, vendorPath(vendorID, "reviews"))
}

func (c *Client) ListPhotos(ctx context.Context) ([]contributions.Photo, error) {
	return list[contributions.Photo](ctx, c, "/api/photos")
}

func (c *Client) ListComments(ctx context.Context, photoID string) ([]contributions.Comment, error) {
	return list[contributions.Comment](ctx, c, "/api/photos/"+url.PathEscape(photoID)+"/comments")
}

func (c *Client) ListSongs(ctx context.Context) ([]contributions.SongRequest, error) {
	return list[contributions.SongRequest](ctx, c, "/api/songs")
}

func vendorPath(vendorID, child string) string {
	return "/api/vendors/" + url.PathEscape(vendorID) + "/" + child
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header = c.Header()
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
