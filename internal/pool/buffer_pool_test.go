package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPool(t *testing.T) {
	p := NewBufferPool(128)
	buf := p.Get()
	assert.Equal(t, 0, len(*buf))
	assert.GreaterOrEqual(t, cap(*buf), 128)

	*buf = append(*buf, "segment"...)
	p.Put(buf)

	again := p.Get()
	assert.Equal(t, 0, len(*again))
	assert.Equal(t, 128, p.Size())
}

func TestBuilderPool(t *testing.T) {
	p := NewBuilderPool()
	sb := p.Get()
	sb.WriteString("gloss")
	p.Put(sb)

	assert.Equal(t, "", p.Get().String())
}
