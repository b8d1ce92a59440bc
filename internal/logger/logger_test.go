package logger

import (
	"bytes"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, ParseLevel("debug"))
	assert.Equal(t, log.WARN, ParseLevel(" WARN "))
	assert.Equal(t, log.ERROR, ParseLevel("error"))
	assert.Equal(t, log.OFF, ParseLevel("off"))
	assert.Equal(t, log.INFO, ParseLevel(""))
	assert.Equal(t, log.INFO, ParseLevel("verbose"))
}

func TestNew_WritesComponentAsPrefix(t *testing.T) {
	l := New("basket", "info")
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Infoj(log.JSON{"event": "item_added", "product_id": 1})

	out := buf.String()
	assert.Contains(t, out, `"component":"basket"`)
	assert.Contains(t, out, `"event":"item_added"`)
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	l := New("sync", "error")
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Infoj(log.JSON{"event": "ignored"})
	assert.Empty(t, buf.String())
}
