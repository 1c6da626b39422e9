package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLightFlag(t *testing.T) {
	assert.Equal(t, Light, FromLightFlag(1))
	assert.Equal(t, Dark, FromLightFlag(0))
	assert.Equal(t, Dark, FromLightFlag(7))
}

func TestForegroundContrast(t *testing.T) {
	assert.Equal(t, uint8(0xFF), Dark.Foreground().R)
	assert.Equal(t, uint8(0x00), Light.Foreground().R)
	assert.Equal(t, uint8(0xFF), Light.Foreground().A)
	assert.Equal(t, "light", Light.String())
}
