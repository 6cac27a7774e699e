package executor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorPassThrough(t *testing.T) {
	c := newCollector(1024, 16)
	_, err := c.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", c.String())
	assert.False(t, c.Truncated())
}

func TestCollectorTruncation(t *testing.T) {
	c := newCollector(10, 16)
	_, err := c.Write([]byte(strings.Repeat("a", 25)))
	assert.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 10), c.String())
	assert.True(t, c.Truncated())

	// Further writes are swallowed without growing the buffer.
	_, err = c.Write([]byte("more"))
	assert.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 10), c.String())
}

func TestCollectorBinaryDetection(t *testing.T) {
	c := newCollector(1024, 16)
	_, err := c.Write([]byte{'a', 0x00, 'b'})
	assert.NoError(t, err)
	assert.Equal(t, "[Binary Content]", c.String())
	assert.True(t, c.Truncated())
}

func TestCollectorBinaryBeyondSample(t *testing.T) {
	// Null bytes after the sample window don't trigger binary handling.
	c := newCollector(1024, 4)
	_, err := c.Write([]byte("text"))
	assert.NoError(t, err)
	_, err = c.Write([]byte{0x00})
	assert.NoError(t, err)
	assert.NotEqual(t, "[Binary Content]", c.String())
}
