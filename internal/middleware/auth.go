package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/service"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Policy is the role requirement of a route.
type Policy int

const (
	PolicyPublic Policy = iota
	PolicyAuthenticated
	PolicyJuryOnly
	PolicyEmployeeOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyPublic:
		return "public"
	case PolicyAuthenticated:
		return "authenticated"
	case PolicyJuryOnly:
		return "jury_only"
	case PolicyEmployeeOnly:
		return "employee_only"
	default:
		return "unknown"
	}
}

// Allows reports whether role satisfies the policy. Public allows
// everything, including an empty role.
func (p Policy) Allows(role model.Role) bool {
	switch p {
	case PolicyPublic:
		return true
	case PolicyAuthenticated:
		return role == model.RoleJury || role == model.RoleEmployee
	case PolicyJuryOnly:
		return role == model.RoleJury
	case PolicyEmployeeOnly:
		return role == model.RoleEmployee
	default:
		return false
	}
}

// Decision is the outcome of Gate.Decide.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// AccessTable maps (method, full route path) to the policy of the route.
type AccessTable struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

func NewAccessTable() *AccessTable {
	return &AccessTable{policies: make(map[string]Policy)}
}

func accessKey(method, path string) string {
	return method + " " + path
}

func (t *AccessTable) Set(method, path string, policy Policy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.policies[accessKey(method, path)] = policy
}

// Lookup returns the registered policy. Unknown routes are treated as
// Authenticated.
func (t *AccessTable) Lookup(method, path string) (Policy, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	policy, ok := t.policies[accessKey(method, path)]
	if !ok {
		return PolicyAuthenticated, false
	}
	return policy, true
}

// Entries returns a copy of the table keyed by "METHOD /path".
func (t *AccessTable) Entries() map[string]Policy {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]Policy, len(t.policies))
	for k, v := range t.policies {
		out[k] = v
	}
	return out
}

// Gate authenticates bearer tokens and applies the access table. The
// kill switch is read from the provider on every request.
type Gate struct {
	cfg    *config.Provider
	tokens *service.TokenService
	table  *AccessTable
}

func NewGate(cfg *config.Provider, tokens *service.TokenService, table *AccessTable) *Gate {
	return &Gate{cfg: cfg, tokens: tokens, table: table}
}

func (g *Gate) Table() *AccessTable {
	return g.table
}

// Decide evaluates policy for principal, which is nil when the caller
// is anonymous.
func (g *Gate) Decide(principal *service.Principal, policy Policy) Decision {
	if !g.cfg.AuthEnabled() {
		return Allow
	}
	if policy == PolicyPublic {
		return Allow
	}
	if principal == nil {
		return DenyUnauthenticated
	}
	role, ok := principal.ParsedRole()
	if !ok {
		return DenyForbidden
	}
	if !policy.Allows(role) {
		return DenyForbidden
	}
	return Allow
}

// Authenticate validates the bearer token when one is sent and stores
// the principal. A bad token is recorded, not rejected, so public routes
// stay reachable; Authorize turns it into a 401.
func (g *Gate) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.cfg.AuthEnabled() {
			c.Next()
			return
		}

		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			c.Next()
			return
		}

		ctx := ctxutil.WithFunction(c.Request.Context(), "middleware", "Authenticate")

		token, ok := bearerToken(header)
		if !ok {
			logger.WarnWithContext(ctx, "Malformed authorization header").
				String("path", c.Request.URL.Path).
				Log()
			c.Set(constants.GinKeyAuthError, "malformed authorization header")
			c.Next()
			return
		}

		principal, err := g.tokens.ValidateToken(token)
		if err != nil {
			if expired, expErr := g.tokens.PrincipalFromExpiredToken(token); expErr == nil {
				logger.InfoWithContext(ctx, "Access token expired").
					String("path", c.Request.URL.Path).
					String("user_id", expired.UserID.String()).
					Log()
			} else {
				logger.WarnWithContext(ctx, "Access token rejected").
					String("path", c.Request.URL.Path).
					Err(err).
					Log()
			}
			c.Set(constants.GinKeyAuthError, err.Error())
			c.Next()
			return
		}

		c.Set(constants.GinKeyPrincipal, principal)
		reqCtx := ctxutil.WithUserID(c.Request.Context(), principal.UserID.String())
		reqCtx = ctxutil.WithUserRole(reqCtx, principal.Role)
		c.Request = c.Request.WithContext(reqCtx)

		c.Next()
	}
}

// Authorize looks up the matched route in the access table and aborts
// with 401 or 403 when the gate denies it.
func (g *Gate) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		policy, known := g.table.Lookup(c.Request.Method, c.FullPath())
		principal := PrincipalFrom(c)

		switch g.Decide(principal, policy) {
		case Allow:
			c.Next()
		case DenyUnauthenticated:
			ctx := ctxutil.WithFunction(c.Request.Context(), "middleware", "Authorize")
			logger.WarnWithContext(ctx, "Unauthenticated request to protected route").
				String("route", c.FullPath()).
				String("policy", policy.String()).
				Bool("registered", known).
				String("cause", c.GetString(constants.GinKeyAuthError)).
				Log()
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		default:
			ctx := ctxutil.WithFunction(c.Request.Context(), "middleware", "Authorize")
			logger.WarnWithContext(ctx, "Role not permitted on route").
				String("route", c.FullPath()).
				String("policy", policy.String()).
				String("role", principal.Role).
				Log()
			c.AbortWithStatusJSON(http.StatusForbidden, constants.BuildErrorResponse(constants.MsgForbidden, nil))
		}
	}
}

// PrincipalFrom returns the authenticated caller or nil.
func PrincipalFrom(c *gin.Context) *service.Principal {
	value, ok := c.Get(constants.GinKeyPrincipal)
	if !ok {
		return nil
	}
	principal, _ := value.(*service.Principal)
	return principal
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(constants.BearerPrefix) || !strings.EqualFold(header[:len(constants.BearerPrefix)], constants.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(constants.BearerPrefix):])
	return token, token != ""
}
