package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/eventra/gateway/core"
	"github.com/eventra/gateway/session"
)

// login returns the handler for a role's login form.
func (a *Adapter) login(role core.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		var creds core.Credentials
		if err := c.Bind().Body(&creds); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if msg := validateCredentials(creds); msg != "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}

		result, err := a.gw.Store.Login(c.Context(), creds, role)
		if err != nil {
			return a.renderError(c, err)
		}

		return a.finishLogin(c, role, result)
	}
}

// signup returns the handler for a role's registration form. A successful
// registration logs the new identity in immediately.
func (a *Adapter) signup(role core.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		var reg core.Registration
		if err := c.Bind().Body(&reg); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if msg := validateRegistration(reg); msg != "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}

		result, err := a.gw.Store.Register(c.Context(), reg, role)
		if err != nil {
			return a.renderError(c, err)
		}

		return a.finishLogin(c, role, result)
	}
}

// finishLogin sets the session cookie and resolves the landing path. The
// pending-redirect slot is consumed exactly once and cleared regardless of
// whether its value was usable.
func (a *Adapter) finishLogin(c fiber.Ctx, role core.Role, result *session.LoginResult) error {
	c.Cookie(&fiber.Cookie{
		Name:     a.gw.CookieName,
		Value:    result.CookieToken,
		Path:     "/",
		MaxAge:   int(a.gw.SessionMaxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	landing := a.consumePendingRedirect(c, role)

	if wantsHTML(c) {
		return c.Redirect().Status(fiber.StatusSeeOther).To(landing)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user":       result.Session.User,
		"redirectTo": landing,
	})
}

func (a *Adapter) logout(c fiber.Ctx) error {
	a.gw.Store.Logout(c.Context(), c.Cookies(a.gw.CookieName))
	c.ClearCookie(a.gw.CookieName)

	if wantsHTML(c) {
		return c.Redirect().Status(fiber.StatusSeeOther).To("/")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "signed out successfully",
	})
}

// currentSession exposes the resolved session to the browser. Anonymous
// visitors get a null user rather than an error.
func (a *Adapter) currentSession(c fiber.Ctx) error {
	sess := sessionFrom(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user":          sess.User,
		"authenticated": sess.IsAuthenticated(),
		"role":          sess.Role(),
	})
}

// navigation returns the nav links for the session's role.
func (a *Adapter) navigation(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"links": session.NavFor(sessionFrom(c).Role()),
	})
}

func (a *Adapter) home(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"name": "eventra gateway",
	})
}

// page serves a static informational page shell.
func (a *Adapter) page(title string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"title": title})
	}
}

// loginForm serves a role's login page shell. The notice query param carries
// messages such as the expired-session prompt set by renderError.
func (a *Adapter) loginForm(role core.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"page":   "login",
			"role":   role,
			"action": role.LoginPath(),
			"notice": c.Query("notice"),
		})
	}
}

// signupForm serves a role's registration page shell.
func (a *Adapter) signupForm(role core.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"page":   "register",
			"role":   role,
			"action": "/" + string(role) + "/register",
		})
	}
}

// renderError maps upstream call failures to HTTP responses. An upstream 401
// invalidates the gateway session before responding, so user and token are
// cleared together.
func (a *Adapter) renderError(c fiber.Ctx, err error) error {
	if errors.Is(err, core.ErrSessionInvalidated) {
		cookieToken := c.Cookies(a.gw.CookieName)
		a.gw.Store.Invalidate(c.Context(), cookieToken)
		c.ClearCookie(a.gw.CookieName)

		loginPath := core.ClassifyRoute(c.Path()).LoginPath() + "?notice=session-expired"
		if wantsHTML(c) {
			return c.Redirect().Status(fiber.StatusSeeOther).To(loginPath)
		}
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error":      "your session has expired, please log in again",
			"redirectTo": loginPath,
		})
	}

	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		// Upstream messages pass through verbatim so the form can show them.
		return c.Status(apiErr.Status).JSON(fiber.Map{"error": apiErr.Message})
	}

	switch {
	case errors.Is(err, core.ErrUpstreamTimeout):
		return c.Status(http.StatusGatewayTimeout).JSON(fiber.Map{
			"error": "the platform is taking too long to respond, please try again",
		})
	case errors.Is(err, core.ErrUpstreamUnavailable):
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{
			"error": "the platform is unreachable, please try again",
		})
	default:
		a.gw.Log.Error("unexpected upstream failure", "path", c.Path(), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
}
