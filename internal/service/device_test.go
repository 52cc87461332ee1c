package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordingCookies struct {
	req *http.Request
	rec *httptest.ResponseRecorder
}

func (r recordingCookies) Cookie(name string) (*http.Cookie, error) { return r.req.Cookie(name) }
func (r recordingCookies) SetCookie(c *http.Cookie)                 { http.SetCookie(r.rec, c) }

func newRecordingCookies(cookie *http.Cookie) recordingCookies {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return recordingCookies{req: req, rec: httptest.NewRecorder()}
}

func TestDeviceResolver_IssuesCookie(t *testing.T) {
	resolver := NewDeviceResolver(DeviceResolverConfig{Secure: true})
	store := newRecordingCookies(nil)

	id, issued, err := resolver.Resolve(store)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !issued || !ValidDeviceID(id) {
		t.Fatalf("expected a freshly issued 32-hex id, got %q issued=%v", id, issued)
	}
	cookies := store.rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != DefaultDeviceCookieName || c.Value != id || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if c.MaxAge != int(DefaultDeviceCookieTTL.Seconds()) {
		t.Fatalf("expected one year max age, got %d", c.MaxAge)
	}
}

func TestDeviceResolver_ReusesValidCookie(t *testing.T) {
	resolver := NewDeviceResolver(DeviceResolverConfig{})
	existing := "0123456789abcdef0123456789abcdef"
	store := newRecordingCookies(&http.Cookie{Name: DefaultDeviceCookieName, Value: existing})

	id, issued, err := resolver.Resolve(store)
	if err != nil || issued || id != existing {
		t.Fatalf("expected existing id reused, got %q issued=%v err=%v", id, issued, err)
	}
	if len(store.rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be set when reusing")
	}
}

func TestDeviceResolver_ReplacesMalformedCookie(t *testing.T) {
	resolver := NewDeviceResolver(DeviceResolverConfig{})
	for _, value := range []string{"short", "0123456789ABCDEF0123456789ABCDEF", "zz23456789abcdef0123456789abcdef"} {
		store := newRecordingCookies(&http.Cookie{Name: DefaultDeviceCookieName, Value: value})
		id, issued, err := resolver.Resolve(store)
		if err != nil || !issued || id == value {
			t.Fatalf("value %q: expected replacement, got %q issued=%v err=%v", value, id, issued, err)
		}
		if _, ok := resolver.Peek(store); ok {
			t.Fatalf("value %q: Peek must ignore malformed cookies", value)
		}
	}
}

func TestClientFingerprint(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/ratings", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	req.Header.Set("User-Agent", "test-agent")

	ip, ua := ClientFingerprint(req)
	if ip == nil || *ip != "10.0.0.5" || ua == nil || *ua != "test-agent" {
		t.Fatalf("unexpected fingerprint %v %v", ip, ua)
	}

	req.Header.Set("X-Real-IP", "198.51.100.2")
	ip, _ = ClientFingerprint(req)
	if *ip != "198.51.100.2" {
		t.Fatalf("expected X-Real-IP, got %s", *ip)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	ip, _ = ClientFingerprint(req)
	if *ip != "203.0.113.9" {
		t.Fatalf("expected first forwarded address, got %s", *ip)
	}
}
