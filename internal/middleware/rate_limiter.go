package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"asistencia/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	msgDemasiadasSolicitudes = "Demasiadas solicitudes, intenta más tarde"
	msgDemasiadosLogins      = "Demasiados intentos de login, intenta en 15 minutos"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// ipLimiter is a per-IP fixed-window counter. Each middleware instance owns
// its own map so the login limit and the general limit count separately.
type ipLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	ips    map[string]*rateEntry
	now    func() time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:  limit,
		window: window,
		ips:    make(map[string]*rateEntry),
		now:    time.Now,
	}
}

// allow counts one hit for ip and reports whether it is within the limit,
// plus the end of the current window.
func (l *ipLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	entry, ok := l.ips[ip]
	if !ok {
		entry = &rateEntry{}
		l.ips[ip] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := l.now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

// purge drops expired entries so IPs that never return don't accumulate.
func (l *ipLimiter) purge() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for ip, entry := range l.ips {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(l.ips, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}

const purgeInterval = 5 * time.Minute

func (l *ipLimiter) purgeLoop(name string) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for range ticker.C {
		if n := l.purge(); n > 0 {
			log.Debug().Str("limiter", name).Int("purged", n).Msg("rate limiter map purged")
		}
	}
}

func (l *ipLimiter) handler(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.Fail(msg))
			return
		}
		c.Next()
	}
}

// RateLimiter limits every request to limit per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, window)
	go l.purgeLoop("api")
	return l.handler(msgDemasiadasSolicitudes)
}

// LoginRateLimiter limits login attempts to limit per window per IP.
func LoginRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, window)
	go l.purgeLoop("login")
	return l.handler(msgDemasiadosLogins)
}
