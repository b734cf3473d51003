// Package inviteapi is the HTTP client for the external calendar-invite
// service. One POST per invite; any non-2xx response is a failed call.
package inviteapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"calvite/internal/models"
)

const invitePath = "/api/invite"

// wireEvent mirrors the service's nested event object.
type wireEvent struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type wireRequest struct {
	Email string    `json:"email"`
	Event wireEvent `json:"event"`
}

// Client posts invites to a configured base URL. Timeouts and retries are the
// caller's concern; the client reports each call's outcome exactly once.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a Client for the invite service at baseURL.
func NewClient(logger *slog.Logger, baseURL string) *Client {
	return &Client{
		http:   resty.New().SetBaseURL(baseURL),
		logger: logger,
	}
}

// Send delivers a single invite. It satisfies dispatch.SendFunc.
func (c *Client) Send(ctx context.Context, payload models.InvitePayload) error {
	body := wireRequest{
		Email: payload.Email,
		Event: wireEvent{
			Title:       payload.Title,
			Date:        payload.Date,
			Location:    payload.Location,
			Description: payload.Description,
			URL:         payload.URL,
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(invitePath)
	if err != nil {
		return fmt.Errorf("failed to reach invite service: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("invite service returned HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.Debug("Invite accepted by service", "title", payload.Title)
	return nil
}
