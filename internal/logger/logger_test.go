package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"session", "01J",
		"ai_api_key", "sk-123",
		"Authorization", "Bearer x",
		"ctx", map[string]interface{}{"db_url": "postgres://u:p@h/db", "tables": 3},
		"dangling",
	})
	assert.Equal(t, []interface{}{
		"session", "01J",
		"ai_api_key", "[REDACTED]",
		"Authorization", "[REDACTED]",
		"ctx", map[string]interface{}{"db_url": "[REDACTED]", "tables": 3},
		"dangling",
	}, out)
}

func TestNopAndNew(t *testing.T) {
	l := Nop()
	l.Info("hello", "k", "v")
	l.With("session", "x").Warn("still quiet")

	dev, err := New("dev")
	assert.NoError(t, err)
	assert.NotNil(t, dev.SugaredLogger)
	prod, err := New("production")
	assert.NoError(t, err)
	assert.NotNil(t, prod.SugaredLogger)
}
