package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
)

// identityContextKey is private to this package: handlers and gates read the
// verified claims only through identityFrom, never from client input.
const identityContextKey = "identity"

func identityFrom(c *gin.Context) (*auth.Claims, bool) {
	raw, ok := c.Get(identityContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := raw.(*auth.Claims)
	return claims, ok
}

// authenticate verifies the session token and stores the claims on the
// context. It performs no storage I/O: the signature alone proves the claims.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.session.Extract(c.Request)
		if token == "" {
			writeError(c, http.StatusUnauthorized, "missing_token", "authentication required")
			return
		}

		claims, err := auth.ParseToken(token, []byte(s.cfg.SecretKey))
		if err != nil {
			// The cause (expired vs tampered vs malformed) stays in the logs.
			s.log.Warn(c.Request.Context(), "token rejected", "error", err.Error())
			writeError(c, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
			return
		}

		c.Set(identityContextKey, claims)
		c.Next()
	}
}

// requireAdmin admits only admin identities. A missing identity means the
// gate ran before authenticate, which is a wiring bug, not a client fault.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := identityFrom(c)
		if !ok {
			s.log.Error(c.Request.Context(), "authorization gate reached without identity",
				"path", c.Request.URL.Path)
			writeError(c, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		if !claims.IsAdmin() {
			writeError(c, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		c.Next()
	}
}

// requireSelfOrAdmin admits admins and the user whose id is in the path.
// An unparsable id can never equal the caller's id, so it is denied rather
// than treated as a malformed request.
func (s *Server) requireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := identityFrom(c)
		if !ok {
			s.log.Error(c.Request.Context(), "authorization gate reached without identity",
				"path", c.Request.URL.Path)
			writeError(c, http.StatusInternalServerError, "internal", "internal error")
			return
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			writeError(c, http.StatusForbidden, "forbidden", "access denied")
			return
		}

		if !claims.IsAdmin() && claims.UserID != id {
			writeError(c, http.StatusForbidden, "forbidden", "access denied")
			return
		}
		c.Next()
	}
}

// rateLimit throttles an endpoint per client IP. Limiter failures fail open:
// losing Redis must not lock everyone out of login.
func (s *Server) rateLimit(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || s.cfg.LoginRateLimit <= 0 {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP() + ":" + route
		decision, err := s.limiter.Allow(c.Request.Context(), key, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow)
		if err != nil {
			s.log.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.ResetAt.IsZero() {
			c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		}

		if !decision.Allowed {
			writeError(c, http.StatusTooManyRequests, "rate_limited", "too many attempts, try again later")
			return
		}
		c.Next()
	}
}
