package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/victor-varac/AIKZ-sub001/internal/apierror"
)

var errInterno = apierror.New("Error interno del servidor")

// ErrorHandler answers 500 for errors a handler attached with c.Error but
// did not turn into a response. The error itself is logged, never sent.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("route", c.FullPath()).
			Str("method", c.Request.Method).
			Err(c.Errors.Last().Err).
			Msg("unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errInterno)
	}
}

// Recovery turns a panic into a bare 500 and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("route", c.FullPath()).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, errInterno)
		}()
		c.Next()
	}
}

// Logger is the access log. 4xx are logged at warn and 5xx at error.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()

		status := c.Writer.Status()
		nivel := zerolog.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			nivel = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			nivel = zerolog.WarnLevel
		}
		log.WithLevel(nivel).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(inicio)).
			Msg("request")
	}
}
