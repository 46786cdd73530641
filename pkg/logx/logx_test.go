package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nopWriter{})

	SetLevel(LevelWarn)
	Info("hidden message")
	Warn("visible message")

	assert.NotContains(t, buf.String(), "hidden message")
	assert.Contains(t, buf.String(), "visible message")

	SetLevel(LevelInfo)
}

func TestWithFieldsJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("json")
	defer func() {
		SetFormat("text")
		SetOutput(nopWriter{})
	}()

	WithFields(Fields{"draft_id": "d-1"}).Errorf("extraction failed: %s", "boom")

	out := buf.String()
	assert.Contains(t, out, `"draft_id":"d-1"`)
	assert.Contains(t, out, `"msg":"extraction failed: boom"`)
	assert.Contains(t, out, `"level":"error"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("anything"))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
