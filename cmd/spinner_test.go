package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Working...")
	s.out = &buf

	s.start()
	s.start()
	time.Sleep(250 * time.Millisecond)
	s.stopSpinner()
	s.stopSpinner()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Working... "))
	assert.Contains(t, out, "\rWorking... ")
	assert.False(t, s.active)
}

func TestWithProgressReturnsError(t *testing.T) {
	called := false
	err := withProgress("", func() error {
		called = true
		return errors.New("boom")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "boom")
}
