package service

import (
	"crypto/rand"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultDeviceCookieName = "ek_device_id"
	DefaultDeviceCookieTTL  = 365 * 24 * time.Hour
	deviceTokenBytes        = 16
)

// CookieStore is the slice of a request/response pair the resolver needs.
// echo.Context satisfies it.
type CookieStore interface {
	Cookie(name string) (*http.Cookie, error)
	SetCookie(cookie *http.Cookie)
}

type DeviceResolverConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// DeviceResolver issues and reads the anonymous per-browser identifier that
// rate limits ratings to one per item.
type DeviceResolver struct {
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewDeviceResolver(cfg DeviceResolverConfig) *DeviceResolver {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = DefaultDeviceCookieName
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultDeviceCookieTTL
	}
	return &DeviceResolver{cookieName: name, ttl: ttl, secure: cfg.Secure}
}

func (r *DeviceResolver) CookieName() string {
	return r.cookieName
}

// Resolve returns the caller's device id, issuing a new cookie when none (or a
// malformed one) was presented. issued reports whether a cookie was set.
func (r *DeviceResolver) Resolve(store CookieStore) (string, bool, error) {
	if cookie, err := store.Cookie(r.cookieName); err == nil && ValidDeviceID(cookie.Value) {
		return cookie.Value, false, nil
	}
	id, err := newDeviceID()
	if err != nil {
		return "", false, err
	}
	store.SetCookie(&http.Cookie{
		Name:     r.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(r.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true, nil
}

// Peek returns the presented device id without issuing one.
func (r *DeviceResolver) Peek(store CookieStore) (string, bool) {
	cookie, err := store.Cookie(r.cookieName)
	if err != nil || !ValidDeviceID(cookie.Value) {
		return "", false
	}
	return cookie.Value, true
}

func ValidDeviceID(value string) bool {
	if len(value) != deviceTokenBytes*2 {
		return false
	}
	for _, c := range value {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func newDeviceID() (string, error) {
	buf := make([]byte, deviceTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ClientFingerprint extracts the caller IP and User-Agent recorded with a rating.
func ClientFingerprint(req *http.Request) (ip *string, userAgent *string) {
	if req == nil {
		return nil, nil
	}
	addr := ""
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		addr = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if addr == "" {
		addr = strings.TrimSpace(req.Header.Get("X-Real-IP"))
	}
	if addr == "" {
		addr = req.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
	}
	return normalizeString(&addr), normalizeString(ptr(req.UserAgent()))
}

func ptr[T any](v T) *T {
	return &v
}
