// # internal/shared/util/limiter_test.go
package util

import (
	"testing"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow(1) {
		t.Error("First event should be allowed")
	}
	if !l.Allow(1) {
		t.Error("Burst should allow a second event")
	}
	if l.Allow(1) {
		t.Error("Third immediate event should be throttled")
	}
}
