package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/victor-varac/AIKZ-sub001/internal/apierror"
)

// ── Rate limiter ──────────────────────────────────────────────────────────────

// rateEntry tracks request counts per IP within one window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type limitador struct {
	limit   int
	window  time.Duration
	metodos map[string]bool

	mu       sync.Mutex
	entradas map[string]*rateEntry
	purga    sync.Once
}

// RateLimiter returns a fixed-window limiter of limit requests per window
// per IP. When metodos is given only those HTTP methods are counted, which
// lets the router throttle writes (payments, deliveries) harder than reads.
func RateLimiter(limit int, window time.Duration, metodos ...string) gin.HandlerFunc {
	l := &limitador{limit: limit, window: window, entradas: make(map[string]*rateEntry)}
	if len(metodos) > 0 {
		l.metodos = make(map[string]bool, len(metodos))
		for _, m := range metodos {
			l.metodos[m] = true
		}
	}
	return func(c *gin.Context) {
		if l.metodos != nil && !l.metodos[c.Request.Method] {
			c.Next()
			return
		}
		l.purga.Do(func() { go l.purgar(purgeInterval) })

		entry := l.entrada(c.ClientIP())
		entry.mu.Lock()
		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(l.window)
		}
		entry.count++
		excedido := entry.count > l.limit
		reintento := entry.windowEnd
		entry.mu.Unlock()

		if excedido {
			c.Header("Retry-After", reintento.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

func (l *limitador) entrada(ip string) *rateEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entradas[ip]
	if !ok {
		e = &rateEntry{}
		l.entradas[ip] = e
	}
	return e
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func (l *limitador) purgar(cada time.Duration) {
	ticker := time.NewTicker(cada)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		purged := 0
		for ip, entry := range l.entradas {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entradas, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entradas)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}
