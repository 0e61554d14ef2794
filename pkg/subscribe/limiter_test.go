package subscribe

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// fakeClock 手动推进的时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(limit, window, time.Hour)
	l.now = clock.now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_FixedWindow(t *testing.T) {
	l, clock := newTestLimiter(t, 2, time.Minute)

	ok, _ := l.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.Allow("1.1.1.1")
	assert.True(t, ok)

	clock.advance(20 * time.Second)
	ok, retry := l.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	ok, _ = l.Allow("2.2.2.2")
	assert.True(t, ok, "keys are counted independently")

	clock.advance(40 * time.Second)
	ok, _ = l.Allow("1.1.1.1")
	assert.True(t, ok, "new window after expiry")
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(t, 1, time.Minute)

	l.Allow("a")
	clock.advance(30 * time.Second)
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	clock.advance(31 * time.Second)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())

	clock.advance(time.Minute)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 0, l.Len())
}

func TestLimiter_SweeperRuns(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	l := NewLimiter(1, 10*time.Millisecond, 5*time.Millisecond)
	l.Allow("a")

	deadline := time.Now().Add(2 * time.Second)
	for l.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 0, l.Len())

	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trust      bool
		want       string
	}{
		{"remote addr", "10.0.0.1:5555", "", true, "10.0.0.1"},
		{"forwarded first hop", "10.0.0.1:5555", "203.0.113.7, 10.0.0.2", true, "203.0.113.7"},
		{"forwarded ignored without proxy", "10.0.0.1:5555", "203.0.113.7", false, "10.0.0.1"},
		{"blank forwarded", "10.0.0.1:5555", " ,10.0.0.2", true, "10.0.0.1"},
		{"ipv6", "[2001:db8::1]:443", "", true, "2001:db8::1"},
		{"no port", "10.0.0.9", "", false, "10.0.0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", Route, nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(r, tt.trust))
		})
	}
}
