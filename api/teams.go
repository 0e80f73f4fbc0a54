package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eventra/gateway/core"
)

// RegisterTeam submits a student's team registration for an event.
func (c *Client) RegisterTeam(ctx context.Context, token, eventID string, input core.TeamInput) (*core.Team, error) {
	var team core.Team
	path := "/api/events/" + url.PathEscape(eventID) + "/teams"
	if err := c.do(ctx, http.MethodPost, path, token, input, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// ListEventTeams returns the teams registered for a manager's event.
func (c *Client) ListEventTeams(ctx context.Context, token, eventID string) ([]core.Team, error) {
	var teams []core.Team
	path := "/api/events/" + url.PathEscape(eventID) + "/teams"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListMyRegistrations returns the authenticated student's registrations.
func (c *Client) ListMyRegistrations(ctx context.Context, token string) ([]core.Team, error) {
	var teams []core.Team
	if err := c.do(ctx, http.MethodGet, "/api/student/registered", token, nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// VerifyPayment marks a team's registration fee as verified by the manager.
func (c *Client) VerifyPayment(ctx context.Context, token, teamID string) (*core.Team, error) {
	var team core.Team
	path := "/api/teams/" + url.PathEscape(teamID) + "/verify-payment"
	if err := c.do(ctx, http.MethodPost, path, token, nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}
