package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerTripsAtThreshold(t *testing.T) {
	cb := New("swap", true, 3, time.Minute, time.Minute)

	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.IsOpen())

	assert.True(t, cb.RecordFailure())
	assert.True(t, cb.IsOpen())
}

func TestBreakerDisabled(t *testing.T) {
	cb := New("swap", false, 1, time.Minute, time.Minute)

	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.RecordFailure())
	assert.False(t, cb.IsOpen())
}

func TestSuccessClearsFailureCount(t *testing.T) {
	cb := New("bridge", true, 3, time.Minute, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	assert.Equal(t, 0, cb.FailureCount())

	// A fresh streak is needed to trip
	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
}

func TestBreakerResetsAfterTimeout(t *testing.T) {
	cb := New("swap", true, 1, time.Minute, 10*time.Millisecond)

	assert.True(t, cb.RecordFailure())
	assert.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, cb.IsOpen())
}

func TestManualReset(t *testing.T) {
	cb := New("swap", true, 1, time.Minute, time.Hour)

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	cb.Reset()
	assert.False(t, cb.IsOpen())
	assert.Equal(t, 0, cb.FailureCount())
}

func TestName(t *testing.T) {
	assert.Equal(t, "bridge", New("bridge", true, 1, time.Minute, time.Minute).Name())
}
