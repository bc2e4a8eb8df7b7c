package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"medash/internal/domain/apierror"
	"medash/internal/domain/entity"
	"medash/internal/infra/session"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Redirect targets for each rejected session state. The same state and
// role set always lands on the same target.
const (
	PathLogin         = "/login"
	PathRequestAccess = "/request-access"
	PathUnauthorized  = "/unauthorized"
)

// identityContextKey is where the guard stores the resolved identity for
// downstream handlers.
const identityContextKey = "identity"

// guardSession is the slice of the session surface the guard reads.
// session.Store satisfies it.
type guardSession interface {
	State() session.State
	Identity(ctx context.Context) (entity.UserIdentity, error)
}

// GuardMiddleware gates role-scoped route groups on the current session.
// Rules, evaluated in order on every request: no session redirects to
// login; an unresolved identity is resolved first; an unassigned account
// redirects to the access-request flow; a role outside the allowed set
// redirects to unauthorized.
type GuardMiddleware struct {
	session guardSession
	logger  *slog.Logger
}

// NewGuardMiddleware is the constructor for GuardMiddleware.
func NewGuardMiddleware(session guardSession, logger *slog.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		session: session,
		logger:  logger,
	}
}

// RequireSession admits any authenticated session regardless of role.
// Used for the access-request flow, which unassigned accounts must reach.
func (m *GuardMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.session.State() == session.StateAnonymous {
			return c.Redirect(http.StatusFound, PathLogin)
		}

		identity, done, err := m.resolve(c)
		if done {
			return err
		}
		c.Set(identityContextKey, identity)

		return next(c)
	}
}

// RequireRole admits only sessions whose resolved role is in the allowed
// set.
func (m *GuardMiddleware) RequireRole(allowed ...entity.Role) echo.MiddlewareFunc {
	roles := entity.Roles(allowed)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.session.State() == session.StateAnonymous {
				return c.Redirect(http.StatusFound, PathLogin)
			}

			identity, done, err := m.resolve(c)
			if done {
				return err
			}
			if identity.Unassigned() {
				return c.Redirect(http.StatusFound, PathRequestAccess)
			}
			if !roles.Contains(identity.Role) {
				m.logger.Debug("role not allowed for route",
					slog.String("role", identity.Role.String()),
					slog.String("path", c.Path()),
				)

				return c.Redirect(http.StatusFound, PathUnauthorized)
			}
			c.Set(identityContextKey, identity)

			return next(c)
		}
	}
}

// resolve fetches the identity behind the session, turning an expired
// token into a login redirect rather than an error page. done reports
// that the request has been answered and err is the final word.
func (m *GuardMiddleware) resolve(c echo.Context) (identity entity.UserIdentity, done bool, err error) {
	identity, err = m.session.Identity(c.Request().Context())
	if err != nil {
		if apierror.IsAuthExpired(err) {
			return entity.UserIdentity{}, true, c.Redirect(http.StatusFound, PathLogin)
		}

		return entity.UserIdentity{}, true, errors.Wrap(err, "failed to resolve identity")
	}

	return identity, false, nil
}

// IdentityFromContext returns the identity the guard resolved for this
// request, if any.
func IdentityFromContext(c echo.Context) (entity.UserIdentity, bool) {
	identity, ok := c.Get(identityContextKey).(entity.UserIdentity)

	return identity, ok
}
