package fiber

import (
	"fmt"
	"strings"

	"github.com/eventra/gateway/core"
)

// Form validation happens at the gateway so obviously broken submissions
// never cost an upstream round trip. The platform API still validates; its
// messages pass through verbatim when it rejects something we let through.

func validateCredentials(creds core.Credentials) string {
	if strings.TrimSpace(creds.Email) == "" {
		return "email is required"
	}
	if creds.Password == "" {
		return "password is required"
	}
	return ""
}

func validateRegistration(reg core.Registration) string {
	if strings.TrimSpace(reg.Name) == "" {
		return "name is required"
	}
	if !plausibleEmail(reg.Email) {
		return "a valid email is required"
	}
	if len(reg.Password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}

func validateEventInput(input core.EventInput) string {
	if strings.TrimSpace(input.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(input.Venue) == "" {
		return "venue is required"
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return "start and end dates are required"
	}
	if input.EndDate.Before(input.StartDate) {
		return "end date must not be before start date"
	}
	if input.Fee < 0 {
		return "fee must not be negative"
	}
	if input.MaxTeamSize < 1 {
		return "max team size must be at least 1"
	}
	return ""
}

func validateTeamInput(input core.TeamInput, maxSize int) string {
	if strings.TrimSpace(input.Name) == "" {
		return "team name is required"
	}
	if len(input.Members) == 0 {
		return "at least one member is required"
	}
	if maxSize > 0 && len(input.Members) > maxSize {
		return fmt.Sprintf("teams for this event are limited to %d members", maxSize)
	}
	for i, m := range input.Members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Sprintf("member %d: name is required", i+1)
		}
		if !plausibleEmail(m.Email) {
			return fmt.Sprintf("member %d: a valid email is required", i+1)
		}
	}
	return ""
}

func plausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
