package progressfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeedThresholds(t *testing.T) {
	assert.Equal(t, "512.00 B/s", Speed(512))
	assert.Equal(t, "1.00 KB/s", Speed(1024))
	assert.Equal(t, "1.00 MB/s", Speed(1024*1024))
	assert.Equal(t, "2.00 GB/s", Speed(2*1024*1024*1024))
}

func TestETALadder(t *testing.T) {
	assert.Equal(t, "30s", ETA(300, 10))
	assert.Equal(t, "2m 30s", ETA(1500, 10))
	assert.Equal(t, "calculating…", ETA(1000, 0))
}

func TestETAClampedTo24Hours(t *testing.T) {
	got := ETA(1_000_000_000, 1)
	assert.Equal(t, "1d 0h", got)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0.00", Percent(0, 0))
	assert.Equal(t, "50.00", Percent(50, 100))
	assert.Equal(t, "100.00", Percent(100, 100))
}
