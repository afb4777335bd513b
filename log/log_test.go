package log_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"pipelined.dev/observable/log"
)

func TestGetLogger(t *testing.T) {
	var tests = []struct {
		debug    bool
		expected logrus.Level
	}{
		{
			debug:    false,
			expected: logrus.InfoLevel,
		},
		{
			debug:    true,
			expected: logrus.DebugLevel,
		},
	}
	defer log.SetDebug(false)
	for _, c := range tests {
		log.SetDebug(c.debug)
		assert.Equal(t, c.expected, log.GetLogger().GetLevel())
	}
}

func TestDefault(t *testing.T) {
	defer log.SetDebug(false)
	assert.Same(t, log.Default(), log.Default())
	log.SetDebug(true)
	assert.Equal(t, logrus.DebugLevel, log.Default().GetLevel())
	log.SetDebug(false)
	assert.Equal(t, logrus.InfoLevel, log.Default().GetLevel())
}

func TestDiscard(t *testing.T) {
	l := log.Discard()
	// must not panic or write anywhere.
	l.WithField("property", "Name").Warn("discarded")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
