// Package ratelimit provides per-client rate limiting for theme imports.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using the system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	ImportCooldown     time.Duration // Minimum time between imports from one IP (default: 2s)
	ImportMaxIPPerHour int           // Max imports per IP per hour (default: 30)
	ShareMaxIPPerHour  int           // Max share link decodes per IP per hour (default: 120)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		ImportCooldown:     2 * time.Second,
		ImportMaxIPPerHour: 30,
		ShareMaxIPPerHour:  120,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// entry tracks request counts and timestamps.
type entry struct {
	count   int
	firstAt time.Time // First request in window
	lastAt  time.Time // Most recent request (for cooldown)
}

// Limiter tracks theme imports and share link decodes per client IP.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.RWMutex
	// Keyed by hash of IP
	importByIP map[string]*entry
	shareByIP  map[string]*entry

	// Cleanup goroutine management
	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		importByIP:    make(map[string]*entry),
		shareByIP:     make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// CheckImport checks if a theme import from ip is allowed.
// Does NOT record the attempt - call RecordImport once the upload is read.
func (l *Limiter) CheckImport(ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	key := l.hashKey("import:ip:", ip)

	l.mu.RLock()
	defer l.mu.RUnlock()

	e := l.importByIP[key]
	if e == nil {
		return LimitResult{Allowed: true}
	}

	if elapsed := now.Sub(e.lastAt); elapsed < l.config.ImportCooldown {
		return LimitResult{
			Allowed:    false,
			RetryAfter: l.config.ImportCooldown - elapsed,
			Reason:     "cooldown",
		}
	}

	if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.ImportMaxIPPerHour {
		return LimitResult{
			Allowed:    false,
			RetryAfter: time.Hour - now.Sub(e.firstAt),
			Reason:     "ip_hourly_limit",
		}
	}

	return LimitResult{Allowed: true}
}

// RecordImport records an import attempt, successful or not.
func (l *Limiter) RecordImport(ip string) {
	now := l.clock.Now()
	key := l.hashKey("import:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	record(l.importByIP, key, now)
}

// AllowShare checks and records a share link decode in one step. Decoding is
// cheap, so there is no cooldown, only an hourly cap.
func (l *Limiter) AllowShare(ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	key := l.hashKey("share:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if e := l.shareByIP[key]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.ShareMaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}

	record(l.shareByIP, key, now)
	return LimitResult{Allowed: true}
}

func record(entries map[string]*entry, key string, now time.Time) {
	e := entries[key]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		entries[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entries := range []map[string]*entry{l.importByIP, l.shareByIP} {
		for k, e := range entries {
			if now.Sub(e.lastAt) > time.Hour {
				delete(entries, k)
			}
		}
	}
}

// GetClientIP returns the address rate limits are keyed on. Forwarding
// headers are only read when trustProxy is set; X-Forwarded-For is walked from
// the right, skipping private hops, because the left side is client supplied.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			for i := len(hops) - 1; i >= 0; i-- {
				if hop := strings.TrimSpace(hops[i]); hop != "" && !isPrivateIP(hop) {
					return hop
				}
			}
			return strings.TrimSpace(hops[len(hops)-1])
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().Unmap().String()
	}
	if addr, err := netip.ParseAddr(r.RemoteAddr); err == nil {
		return addr.Unmap().String()
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// isPrivateIP reports loopback, RFC 1918, unique-local and link-local
// addresses. IPv4-mapped IPv6 addresses are judged by their IPv4 form.
func isPrivateIP(raw string) bool {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast()
}

// LogRateLimitExceeded logs a rate limit event.
func LogRateLimitExceeded(action, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("action", action).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Theme rate limit exceeded")
}
