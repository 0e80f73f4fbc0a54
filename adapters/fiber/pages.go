package fiber

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/eventra/gateway/api"
	"github.com/eventra/gateway/core"
)

// renderDescriptions fills in DescriptionHTML for events whose description
// is authored as markdown.
func (a *Adapter) renderDescriptions(events []core.Event) {
	for i := range events {
		events[i].DescriptionHTML = a.renderMarkdown(events[i].Description)
	}
}

func (a *Adapter) renderMarkdown(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := a.markdown.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func (a *Adapter) listEvents(c fiber.Ctx) error {
	events, err := a.gw.API.ListEvents(c.Context())
	if err != nil {
		return a.renderError(c, err)
	}
	a.renderDescriptions(events)
	return c.Status(http.StatusOK).JSON(fiber.Map{"events": events})
}

func (a *Adapter) eventDetail(c fiber.Ctx) error {
	event, err := a.gw.API.GetEvent(c.Context(), c.Params("id"))
	if err != nil {
		return a.renderError(c, err)
	}
	event.DescriptionHTML = a.renderMarkdown(event.Description)
	return c.Status(http.StatusOK).JSON(fiber.Map{"event": event})
}

func (a *Adapter) studentDashboard(c fiber.Ctx) error {
	sess := sessionFrom(c)
	teams, err := a.gw.API.ListMyRegistrations(c.Context(), sess.Token)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user":          sess.User,
		"registrations": teams,
	})
}

func (a *Adapter) myRegistrations(c fiber.Ctx) error {
	teams, err := a.gw.API.ListMyRegistrations(c.Context(), sessionFrom(c).Token)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"registrations": teams})
}

// registerTeam handles the team registration form for an event. Member count
// is validated against the event's own limit before anything goes upstream.
func (a *Adapter) registerTeam(c fiber.Ctx) error {
	var input core.TeamInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	eventID := c.Params("id")
	event, err := a.gw.API.GetEvent(c.Context(), eventID)
	if err != nil {
		return a.renderError(c, err)
	}
	if msg := validateTeamInput(input, event.MaxTeamSize); msg != "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	team, err := a.gw.API.RegisterTeam(c.Context(), sessionFrom(c).Token, eventID, input)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"team": team})
}

func (a *Adapter) managerDashboard(c fiber.Ctx) error {
	sess := sessionFrom(c)
	events, err := a.gw.API.ListManagerEvents(c.Context(), sess.Token)
	if err != nil {
		return a.renderError(c, err)
	}
	a.renderDescriptions(events)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user":   sess.User,
		"events": events,
	})
}

func (a *Adapter) managerEvents(c fiber.Ctx) error {
	events, err := a.gw.API.ListManagerEvents(c.Context(), sessionFrom(c).Token)
	if err != nil {
		return a.renderError(c, err)
	}
	a.renderDescriptions(events)
	return c.Status(http.StatusOK).JSON(fiber.Map{"events": events})
}

// newEventForm is the create-event form model: an empty input the page can
// bind its fields to.
func (a *Adapter) newEventForm(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"event": core.EventInput{}})
}

func (a *Adapter) createEvent(c fiber.Ctx) error {
	var input core.EventInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := validateEventInput(input); msg != "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	event, err := a.gw.API.CreateEvent(c.Context(), sessionFrom(c).Token, input)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"event": event})
}

func (a *Adapter) updateEvent(c fiber.Ctx) error {
	var input core.EventInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := validateEventInput(input); msg != "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	event, err := a.gw.API.UpdateEvent(c.Context(), sessionFrom(c).Token, c.Params("id"), input)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"event": event})
}

func (a *Adapter) deleteEvent(c fiber.Ctx) error {
	if err := a.gw.API.DeleteEvent(c.Context(), sessionFrom(c).Token, c.Params("id")); err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "event deleted"})
}

func (a *Adapter) eventTeams(c fiber.Ctx) error {
	teams, err := a.gw.API.ListEventTeams(c.Context(), sessionFrom(c).Token, c.Params("id"))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"teams": teams})
}

func (a *Adapter) verifyPayment(c fiber.Ctx) error {
	team, err := a.gw.API.VerifyPayment(c.Context(), sessionFrom(c).Token, c.Params("id"))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"team": team})
}

// exportTeams streams a CSV or PDF export of an event's registrations
// straight through from the platform API.
func (a *Adapter) exportTeams(c fiber.Ctx) error {
	format := c.Query("format", api.ExportCSV)
	if format != api.ExportCSV && format != api.ExportPDF {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be csv or pdf",
		})
	}

	export, err := a.gw.API.ExportTeams(c.Context(), sessionFrom(c).Token, c.Params("id"), format)
	if err != nil {
		return a.renderError(c, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.SendStream(export.Body)
}
