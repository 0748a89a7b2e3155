package session

import (
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteGuard applies guard decisions to go-router navigation: allowed
// requests continue down the chain with the identity in the request context,
// unauthenticated ones are redirected to login with the original URL
// preserved, and unauthorized ones land on their role's home page.
type RouteGuard struct {
	sessions     *Manager
	guard        *Guard
	cfg          *Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewRouteGuard(sessions *Manager, cfg *Config) *RouteGuard {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rg := &RouteGuard{
		sessions: sessions,
		guard:    NewGuard(sessions),
		cfg:      cfg,
		Logger:   defLogger{},
	}

	rg.ErrorHandler = rg.defaultErrHandler

	return rg
}

// Protected gates a route on session presence plus an optional role
// allow-list; no roles means any authenticated user. While the session is
// still resolving the request waits, bounded by its own context, instead of
// leaking a decision early.
func (rg *RouteGuard) Protected(allowlist ...UserRole) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			for {
				decision := rg.guard.Evaluate(allowlist...)

				if decision.Kind == DecisionWait {
					select {
					case <-rg.sessions.Ready():
						continue
					case <-c.Context().Done():
						return rg.ErrorHandler(c, c.Context().Err())
					}
				}

				// a login or logout that landed since the evaluation voids
				// the decision; re-enter instead of applying it
				if err := rg.guard.Apply(decision); err != nil {
					rg.Logger.Debug("discarding stale guard decision", "kind", decision.Kind)
					continue
				}

				return rg.applyDecision(c, decision)
			}
		}
	}
}

func (rg *RouteGuard) applyDecision(c router.Context, decision Decision) error {
	switch decision.Kind {
	case DecisionAllow:
		if snap := rg.sessions.State(); snap.User != nil {
			c.SetContext(WithIdentity(c.Context(), snap.User))
		}
		return c.Next()
	case DecisionRedirectHome:
		rg.Logger.Info(
			"role not in allow-list, redirecting home",
			"role", decision.Role,
			"path", c.OriginalURL(),
		)
		return c.Redirect(rg.cfg.HomeRoute(decision.Role), rg.redirectStatus(c))
	default:
		rg.SetRedirect(c)
		return c.Redirect(rg.cfg.LoginRoute, rg.redirectStatus(c))
	}
}

func (rg *RouteGuard) redirectStatus(c router.Context) int {
	if c.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}

// SetRedirect remembers the originally requested location so login can send
// the user back afterward.
func (rg *RouteGuard) SetRedirect(c router.Context) {
	rejectedRoute := rg.cfg.RejectedRouteKey

	rg.Logger.Info("Setting redirect cookie", "key", rejectedRoute, "path", c.OriginalURL())

	c.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect pops the remembered location, falling back to def.
func (rg *RouteGuard) GetRedirect(c router.Context, def ...string) string {
	rejectedRoute := rg.cfg.RejectedRouteKey
	r := c.Cookies(rejectedRoute)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return rg.cfg.RejectedRouteDefault
	}
	rg.cookieDel(c, rejectedRoute)
	return r
}

// GetRedirectOrDefault pops the remembered location, falling back to the
// referer header and then the configured default.
func (rg *RouteGuard) GetRedirectOrDefault(c router.Context) string {
	rejectedRoute := rg.cfg.RejectedRouteKey
	refererHeader := string(c.Referer())

	r := c.Cookies(rejectedRoute, refererHeader)
	if r == "" {
		r = rg.cfg.RejectedRouteDefault
	}
	rg.cookieDel(c, rejectedRoute)
	return r
}

func (rg *RouteGuard) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (rg *RouteGuard) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	rg.Logger.Info(
		"Guard error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		rg.SetRedirect(c)
		return c.Redirect(rg.cfg.LoginRoute, rg.redirectStatus(c))
	default:
		return c.Status(richErr.Code).Render("errors/500", router.ViewContext{
			"error": richErr,
		})
	}
}
