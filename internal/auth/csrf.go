package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header name for CSRF token in AJAX requests.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware creates a Gin middleware for CSRF protection of
// cookie-authenticated requests. It skips CSRF checks for:
//   - requests with valid Bearer token authentication
//   - safe HTTP methods (GET, HEAD, OPTIONS, TRACE)
//
// The authService parameter is used to validate bearer tokens before skipping CSRF.
// If nil, bearer tokens are not validated (less secure, for backward compatibility).
func CSRFMiddleware(secret []byte, secure bool, authService *Service) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		// Skip CSRF for requests with valid Bearer auth
		if hasValidBearer(c, authService) {
			c.Next()
			return
		}

		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Store the CSRF token in the context so handlers can echo it
			c.Set("csrf_token", csrf.Token(r))
			// Update request with CSRF context - session middleware runs after this
			// so session context will be added on top of CSRF context
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// csrfErrorHandler handles CSRF validation failures.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

// hasValidBearer checks if the request carries a valid Bearer token.
// If authService is nil, it only checks for header presence (less secure).
func hasValidBearer(c *gin.Context, authService *Service) bool {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return false
	}

	if authService == nil {
		return true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return false
	}

	_, err := authService.ValidateToken(parts[1])
	return err == nil
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get("csrf_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}
