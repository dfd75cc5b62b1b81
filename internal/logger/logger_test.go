package logger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nevisdale/gbcore/internal/logger"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	assert.Equal(t, "", w.String())

	log.Log("test", "this is a test")
	log.Write(w)
	assert.Equal(t, "test: this is a test\n", w.String())

	w.Reset()
	log.Log("test", "this is a test")
	log.Write(w)
	assert.Equal(t, "test: this is a test (repeat x2)\n", w.String())

	w.Reset()
	log.Logf("cart", "bank %d", 3)
	log.Tail(w, 1)
	assert.Equal(t, "cart: bank 3\n", w.String())

	log.Clear()
	w.Reset()
	log.Write(w)
	assert.Equal(t, "", w.String())
}

func TestLoggerBounded(t *testing.T) {
	log := logger.NewLogger(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		log.Log("tag", s)
	}
	entries := log.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].Detail)
	assert.Equal(t, "e", entries[2].Detail)
}

func TestLoggerEcho(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}
	log.SetEcho(w)
	log.Log("cpu", "halted")
	log.SetEcho(nil)
	log.Log("cpu", "resumed")
	assert.Equal(t, "cpu: halted\n", w.String())
}
