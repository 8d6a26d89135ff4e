package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "one too l…", truncate("one too lon", 10))

	// Multi-byte event names must not be cut mid-rune
	got := truncate("Résultats de l'enquête trimestrielle", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Résultats…", got)
	assert.Equal(t, 10, len([]rune(got)))
}
