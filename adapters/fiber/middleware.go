package fiber

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/eventra/gateway/core"
	"github.com/eventra/gateway/session"
)

const localsSession = "gateway_session"

// guard resolves the session from the browser cookie and enforces route
// access. It runs on every request so downstream handlers never see an
// unresolved session.
func (a *Adapter) guard(c fiber.Ctx) error {
	sess := a.gw.Store.Restore(c.Context(), c.Cookies(a.gw.CookieName))
	c.Locals(localsSession, sess)

	decision := session.Decide(sess, c.OriginalURL())
	if decision.Allowed {
		return c.Next()
	}

	if decision.RememberPath != "" {
		a.setPendingRedirect(c, decision.RememberPath)
	}

	if wantsHTML(c) {
		return c.Redirect().Status(fiber.StatusSeeOther).To(decision.RedirectTo)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":      "authentication required",
		"redirectTo": decision.RedirectTo,
	})
}

// sessionFrom returns the session the guard resolved for this request.
func sessionFrom(c fiber.Ctx) *core.Session {
	if sess, ok := c.Locals(localsSession).(*core.Session); ok {
		return sess
	}
	return core.Anonymous()
}

// wantsHTML distinguishes browser navigations (redirect on failure) from
// fetch/XHR calls (JSON on failure).
func wantsHTML(c fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/html")
}

func (a *Adapter) setPendingRedirect(c fiber.Ctx, path string) {
	c.Cookie(&fiber.Cookie{
		Name:     a.gw.PendingCookieName,
		Value:    url.QueryEscape(path),
		Path:     "/",
		MaxAge:   int(session.PendingRedirectTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// consumePendingRedirect reads the pending slot, always clears it, and
// resolves the post-login landing path.
func (a *Adapter) consumePendingRedirect(c fiber.Ctx, role core.Role) string {
	pending, err := url.QueryUnescape(c.Cookies(a.gw.PendingCookieName))
	if err != nil {
		pending = ""
	}
	c.ClearCookie(a.gw.PendingCookieName)
	return session.ResolveLanding(role, pending)
}
