package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eventra/gateway/core"
)

// ListEvents returns the public event catalog.
func (c *Client) ListEvents(ctx context.Context) ([]core.Event, error) {
	var events []core.Event
	if err := c.do(ctx, http.MethodGet, "/api/events", "", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns one event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*core.Event, error) {
	var event core.Event
	if err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), "", nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListManagerEvents returns the events owned by the authenticated manager.
func (c *Client) ListManagerEvents(ctx context.Context, token string) ([]core.Event, error) {
	var events []core.Event
	if err := c.do(ctx, http.MethodGet, "/api/manager/events", token, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent creates an event on behalf of the authenticated manager.
func (c *Client) CreateEvent(ctx context.Context, token string, input core.EventInput) (*core.Event, error) {
	var event core.Event
	if err := c.do(ctx, http.MethodPost, "/api/events", token, input, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent replaces an event's editable fields.
func (c *Client) UpdateEvent(ctx context.Context, token, id string, input core.EventInput) (*core.Event, error) {
	var event core.Event
	if err := c.do(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), token, input, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), token, nil, nil)
}
