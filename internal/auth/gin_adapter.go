package auth

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// sessionWriter defers the session cookie until just before the first header
// or body byte goes out, so handlers can keep mutating the session freely.
type sessionWriter struct {
	gin.ResponseWriter
	sm          *SessionManager
	request     *http.Request
	committed   bool
	wroteHeader bool
}

func (w *sessionWriter) WriteHeader(code int) {
	w.commitSession()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.commitSession()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commitSession()
	return w.ResponseWriter.Write(b)
}

// Hijack keeps gin's WebSocket upgrade path working through the wrapper.
func (w *sessionWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

func (w *sessionWriter) commitSession() {
	if w.committed {
		return
	}
	w.committed = true
	w.wroteHeader = true

	ctx := w.request.Context()
	switch w.sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := w.sm.Commit(ctx)
		if err != nil {
			return
		}
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

// SessionLoadSave is the gin equivalent of scs's LoadAndSave middleware. It
// must run before anything that touches the session.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		sw := &sessionWriter{ResponseWriter: c.Writer, sm: sm, request: c.Request}
		c.Writer = sw

		c.Next()

		// Handlers that never wrote a body still need the cookie out
		if !sw.wroteHeader {
			sw.commitSession()
		}
	}
}
