package dynamo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/people-registry-api/internal/domain"
)

// panicky implements fmt.Stringer with a receiver that always panics,
// mimicking a typed-nil enum smuggled through an any value.
type panicky struct{}

func (p *panicky) String() string { panic("boom") }

func TestSafeString_Nil(t *testing.T) {
	assert.Equal(t, "", safeString(nil, ""))
	assert.Equal(t, "unknown", safeString(nil, "unknown"))
}

func TestSafeString_PlainString(t *testing.T) {
	assert.Equal(t, "active", safeString("active", ""))
}

func TestSafeString_EnumValue(t *testing.T) {
	assert.Equal(t, "active", safeString(domain.ProjectActive, ""))
	assert.Equal(t, "cancelled", safeString(domain.SubscriptionCancelled, ""))
}

func TestSafeString_Time(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2026-01-02T03:04:05Z", safeString(ts, ""))
	assert.Equal(t, "2026-01-02T03:04:05Z", safeString(&ts, ""))

	var nilTime *time.Time
	assert.Equal(t, "fallback", safeString(nilTime, "fallback"))
}

func TestSafeString_PanickingStringerDegrades(t *testing.T) {
	var p *panicky
	// Must not panic, must fall back to a printable form or the default.
	assert.NotPanics(t, func() {
		out := safeString(p, "default")
		assert.NotEmpty(t, out)
	})
}

func TestSafeString_OtherTypes(t *testing.T) {
	assert.Equal(t, "42", safeString(42, ""))
	assert.Equal(t, "true", safeString(true, ""))
}
