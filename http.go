package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// ErrUnauthenticated is returned when no live session backs the request.
var ErrUnauthenticated = errors.New("unauthenticated", errors.CategoryAuth).
	WithTextCode("auth_unauthenticated").
	WithCode(errors.CodeUnauthorized)

// ErrAccountLocked is returned when the session's identity is locked.
var ErrAccountLocked = errors.New("account is locked", errors.CategoryAuth).
	WithTextCode("auth_account_locked").
	WithCode(errors.CodeForbidden)

// ErrInvalidCredentials is returned when a password does not match the
// identity's stored digest.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("auth_invalid_credentials").
	WithCode(errors.CodeUnauthorized)

// DefaultSessionCookie is the cookie carrying the raw session token.
const DefaultSessionCookie = "session_token"

// DefaultReturnToCookie remembers where to send the user after login.
const DefaultReturnToCookie = "return_to"

// RouteSessionContext adapts a router context to the RequestContext the
// engine records on sessions.
type RouteSessionContext struct {
	ctx router.Context
}

func NewRouteSessionContext(ctx router.Context) RouteSessionContext {
	return RouteSessionContext{ctx: ctx}
}

func (r RouteSessionContext) IP() string {
	if forwarded := r.ctx.Header("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}
	return r.ctx.Header("X-Real-Ip")
}

func (r RouteSessionContext) UserAgent() string {
	return r.ctx.Header("User-Agent")
}

func (r RouteSessionContext) NavigableGet() bool {
	if r.ctx.Method() != string(router.GET) {
		return false
	}
	return strings.Contains(r.ctx.Header("Accept"), "text/html")
}

// RouteAuthenticator is the per-request glue between the router and the
// session engine: it owns cookies and redirects, nothing else. All decisions
// about liveness and impersonation stay in the engine.
type RouteAuthenticator struct {
	engine         *Engine
	identities     IdentityStore
	SessionCookie  string
	ReturnToCookie string
	Logger         Logger
	ErrorHandler   func(c router.Context, err error) error
}

func NewRouteAuthenticator(engine *Engine, identities IdentityStore) *RouteAuthenticator {
	a := &RouteAuthenticator{
		engine:         engine,
		identities:     identities,
		SessionCookie:  DefaultSessionCookie,
		ReturnToCookie: DefaultReturnToCookie,
		Logger:         defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a
}

// Engine exposes the session engine behind the authenticator.
func (a *RouteAuthenticator) Engine() *Engine {
	return a.engine
}

func (a *RouteAuthenticator) WithLogger(logger Logger) *RouteAuthenticator {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// Login establishes a session for an identity the host has already
// verified (password check, MFA, whatever applies) and hands the raw token
// to the browser. Locked identities never get a session.
func (a *RouteAuthenticator) Login(c router.Context, identity Authenticatable, tenantRef any) error {
	if _, err := ProcessAuthenticatable(identity); err != nil {
		return err
	}

	if identity.Locked() {
		return ErrAccountLocked
	}

	token, _, err := a.engine.Establish(c.Context(), identity, NewRouteSessionContext(c), tenantRef)
	if err != nil {
		a.Logger.Error("Login establish error: %s", err)
		return err
	}

	a.setCookie(c, a.SessionCookie, token, a.engine.Config().TotalSessionLifetime())
	return nil
}

// LoginWithPassword checks password against the identity's stored digest
// before establishing a session. A wrong password and an unknown identity are
// indistinguishable to the caller.
func (a *RouteAuthenticator) LoginWithPassword(c router.Context, holder CredentialHolder, password string, tenantRef any) error {
	if _, err := ProcessAuthenticatable(holder); err != nil {
		return err
	}

	ok, err := VerifyPassword(a.engine.Config(), holder, password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	return a.Login(c, holder, tenantRef)
}

// Logout terminates the current session, if any, and clears the cookie.
// Logging out without a session is not an error.
func (a *RouteAuthenticator) Logout(c router.Context) error {
	session, err := a.engine.Lookup(c.Context(), c.Cookies(a.SessionCookie))
	if err != nil {
		return err
	}

	a.cookieDel(c, a.SessionCookie)

	if session == nil {
		return nil
	}

	return a.engine.Terminate(c.Context(), session)
}

// Authenticate resolves the request's session and refreshes its activity.
// Dead sessions (expired, inactive, locked identity) are terminated on sight
// and reported as ErrUnauthenticated; for browser-navigable GETs the
// original path is remembered so the host can redirect back after login.
func (a *RouteAuthenticator) Authenticate(c router.Context) (*Session, error) {
	req := NewRouteSessionContext(c)

	session, err := a.engine.Lookup(c.Context(), c.Cookies(a.SessionCookie))
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, a.unauthenticated(c, req)
	}

	if !a.engine.Active(session) {
		if err := a.engine.Terminate(c.Context(), session); err != nil {
			return nil, err
		}
		return nil, a.unauthenticated(c, req)
	}

	if a.identities != nil {
		identity, err := a.identities.GetByPrimaryKey(c.Context(), session.AuthenticatableID)
		if err == nil && identity != nil && identity.Locked() {
			if err := a.engine.Terminate(c.Context(), session); err != nil {
				return nil, err
			}
			return nil, a.unauthenticated(c, req)
		}
	}

	if err := a.engine.UpdateInfo(c.Context(), session, req); err != nil {
		return nil, err
	}

	return session, nil
}

// ReturnPath pops the remembered pre-login path, falling back to def.
func (a *RouteAuthenticator) ReturnPath(c router.Context, def string) string {
	r := c.Cookies(a.ReturnToCookie)
	if r == "" {
		return def
	}
	a.cookieDel(c, a.ReturnToCookie)
	return r
}

func (a *RouteAuthenticator) unauthenticated(c router.Context, req RequestContext) error {
	if req.NavigableGet() {
		a.setCookie(c, a.ReturnToCookie, c.OriginalURL(), 5*time.Minute)
	}
	return ErrUnauthenticated
}

func (a *RouteAuthenticator) setCookie(c router.Context, name, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Authentication error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		statusCode := http.StatusSeeOther
		if c.Method() == string(router.GET) {
			statusCode = http.StatusFound
		}
		return c.Redirect("/login", statusCode)
	default:
		return c.Status(richErr.Code).Send([]byte(richErr.Message))
	}
}
