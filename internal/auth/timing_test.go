package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recordingDelay(config TimingConfig) (*TimingDelay, *[]time.Duration) {
	var slept []time.Duration
	td := NewTimingDelay(config)
	td.sleep = func(d time.Duration) { slept = append(slept, d) }
	return td, &slept
}

func TestTimingDelay_Wait_OnFailure(t *testing.T) {
	td, slept := recordingDelay(TimingConfig{BaseDelay: 100 * time.Millisecond, RandomDelay: 50 * time.Millisecond})

	td.Wait(false)

	if assert.Len(t, *slept, 1) {
		assert.GreaterOrEqual(t, (*slept)[0], 100*time.Millisecond)
		assert.Less(t, (*slept)[0], 150*time.Millisecond)
	}
}

func TestTimingDelay_Wait_OnSuccess_NoDelay(t *testing.T) {
	td, slept := recordingDelay(TimingConfig{BaseDelay: 100 * time.Millisecond})

	td.Wait(true)

	assert.Empty(t, *slept)
}

func TestTimingDelay_Wait_OnSuccess_WithDelay(t *testing.T) {
	td, slept := recordingDelay(TimingConfig{BaseDelay: 100 * time.Millisecond, DelayOnSuccess: true})

	td.Wait(true)

	assert.Equal(t, []time.Duration{100 * time.Millisecond}, *slept)
}

func TestTimingDelay_WaitFrom_SkipsWhenAlreadySlow(t *testing.T) {
	td, slept := recordingDelay(TimingConfig{BaseDelay: 10 * time.Millisecond})

	td.WaitFrom(time.Now().Add(-time.Second), false)

	assert.Empty(t, *slept)
}

func TestTimingDelay_WaitFrom_PadsRemainder(t *testing.T) {
	td, slept := recordingDelay(TimingConfig{BaseDelay: time.Hour})

	td.WaitFrom(time.Now(), false)

	if assert.Len(t, *slept, 1) {
		assert.Greater(t, (*slept)[0], 59*time.Minute)
	}
}

func TestCryptoRandIntn(t *testing.T) {
	assert.Equal(t, int64(0), cryptoRandIntn(0))
	for range 100 {
		v := cryptoRandIntn(10)
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Less(t, v, int64(10))
	}
}
