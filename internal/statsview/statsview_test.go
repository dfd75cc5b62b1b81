package statsview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	c := newConfig()
	assert.Equal(t, Address, c.addr)
	assert.Equal(t, 2000, c.interval)
	assert.Equal(t, 30, c.maxPoints)

	c = newConfig(WithAddress("127.0.0.1:9000"), WithInterval(500), WithMaxPoints(100))
	assert.Equal(t, "127.0.0.1:9000", c.addr)
	assert.Equal(t, 500, c.interval)
	assert.Equal(t, 100, c.maxPoints)

	// zero values keep the defaults
	c = newConfig(WithAddress(""), WithInterval(0), WithMaxPoints(-1))
	assert.Equal(t, Address, c.addr)
	assert.Equal(t, 2000, c.interval)
	assert.Equal(t, 30, c.maxPoints)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "http://localhost:12600/debug/statsview", URL())
	assert.Equal(t, "http://:8080/debug/statsview", URL(WithAddress(":8080")))
}
