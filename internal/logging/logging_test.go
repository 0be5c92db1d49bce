package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", &buf)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Equal(t, logrus.InfoLevel, New("loud", &buf).GetLevel())
}

func TestChanHookForwardsAndNeverBlocks(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", &buf)
	h := NewChanHook(1)
	l.AddHook(h)

	l.WithField("topic", "Solar Power").Info("deck saved")
	l.Info("dropped, buffer full")
	l.Debug("below hook level")

	require.Len(t, h.C, 1)
	line := <-h.C
	assert.Contains(t, line, "INFO deck saved [Solar Power]")
}

func TestRecentKeepsTail(t *testing.T) {
	r := NewRecent(2)
	c := make(chan string, 3)
	c <- "a"
	c <- "b"
	c <- "c"
	close(c)
	r.Drain(c)
	assert.Equal(t, []string{"b", "c"}, r.Lines())
}
