// Package fiber binds the gateway onto gofiber/fiber/v3: route registration,
// the guard middleware, and the page/form handlers.
package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eventra/gateway"
	"github.com/eventra/gateway/core"
)

type Adapter struct {
	app      *fiber.App
	gw       *gateway.Gateway
	markdown goldmark.Markdown
}

var _ gateway.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{
		app:      app,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (a *Adapter) RegisterRoutes(gw *gateway.Gateway) error {
	a.gw = gw

	// Every route passes through the guard; it resolves the session first,
	// so handlers always see a terminal (authenticated or anonymous) session.
	a.app.Use(a.guard)

	// Public routes
	a.app.Get("/", a.home)
	a.app.Get("/about", a.page("About Eventra"))
	a.app.Get("/contact", a.page("Contact"))
	a.app.Get("/events", a.listEvents)
	a.app.Get("/events/:id", a.eventDetail)
	a.app.Get("/session", a.currentSession)
	a.app.Get("/nav", a.navigation)

	// The login and registration pages are the guard's redirect targets, so
	// each form route serves GET as well as the POST that submits it.
	a.app.Get("/student/login", a.loginForm(core.RoleStudent))
	a.app.Post("/student/login", a.login(core.RoleStudent))
	a.app.Get("/student/register", a.signupForm(core.RoleStudent))
	a.app.Post("/student/register", a.signup(core.RoleStudent))
	a.app.Get("/manager/login", a.loginForm(core.RoleManager))
	a.app.Post("/manager/login", a.login(core.RoleManager))
	a.app.Get("/manager/register", a.signupForm(core.RoleManager))
	a.app.Post("/manager/register", a.signup(core.RoleManager))
	a.app.Post("/logout", a.logout)

	// Student routes
	a.app.Get("/student/dashboard", a.studentDashboard)
	a.app.Get("/student/registered", a.myRegistrations)
	a.app.Post("/student/events/:id/register", a.registerTeam)

	// Manager routes
	a.app.Get("/manager/dashboard", a.managerDashboard)
	a.app.Get("/manager/events", a.managerEvents)
	a.app.Get("/manager/events/new", a.newEventForm)
	a.app.Post("/manager/events", a.createEvent)
	a.app.Put("/manager/events/:id", a.updateEvent)
	a.app.Delete("/manager/events/:id", a.deleteEvent)
	a.app.Get("/manager/events/:id/teams", a.eventTeams)
	a.app.Post("/manager/teams/:id/verify-payment", a.verifyPayment)
	a.app.Get("/manager/events/:id/export", a.exportTeams)

	return nil
}
