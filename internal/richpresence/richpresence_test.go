package richpresence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnectFailsGracefullyWithoutPresenceService(t *testing.T) {
	_, err := Connect()
	assert.Error(t, err)
}

func TestNilClientIsSafeToUse(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Publish("Some Game", time.Now()))
	assert.NoError(t, c.Clear())
}
