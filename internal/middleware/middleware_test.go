package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victor-varac/AIKZ-sub001/internal/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

func servir(r *gin.Engine, metodo, ruta string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(metodo, ruta, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_AsignaYRespeta(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var visto string
	r.GET("/x", func(c *gin.Context) {
		visto = c.GetString(middleware.RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := servir(r, http.MethodGet, "/x", nil)
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, visto, w.Header().Get(middleware.RequestIDHeader))

	w = servir(r, http.MethodGet, "/x", map[string]string{middleware.RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "abc-123", visto)
}

func TestRecovery_Responde500SinDetalle(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery())
	r.GET("/panic", func(*gin.Context) { panic("nil map: cartera") })

	w := servir(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "cartera")
}

func TestErrorHandler_OcultaErrorInterno(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/err", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	w := servir(r, http.MethodGet, "/err", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
}

func TestRateLimiter_SoloEscrituras(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimiter(2, time.Minute, http.MethodPost))
	r.GET("/pagos", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/pagos", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/pagos", nil).Code)
	}
	assert.Equal(t, http.StatusCreated, servir(r, http.MethodPost, "/pagos", nil).Code)
	assert.Equal(t, http.StatusCreated, servir(r, http.MethodPost, "/pagos", nil).Code)
	w := servir(r, http.MethodPost, "/pagos", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := servir(r, http.MethodOptions, "/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
}

func TestCORS_SoloOrigenesConfigurados(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://tablero.aikz.mx"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := servir(r, http.MethodGet, "/x", map[string]string{"Origin": "https://tablero.aikz.mx"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://tablero.aikz.mx", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	w = servir(r, http.MethodGet, "/x", map[string]string{"Origin": "https://otro.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = servir(r, http.MethodOptions, "/x", map[string]string{"Origin": "https://otro.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
