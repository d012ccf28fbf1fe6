package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageHelpers(t *testing.T) {
	assert.Contains(t, Success("done"), "done")
	assert.Contains(t, Warn("careful"), "careful")
	assert.Contains(t, Err("boom"), "boom")
	assert.Contains(t, Addr("0xabc"), "0xabc")
	assert.Contains(t, Val("42"), "42")
	assert.Contains(t, Meta("note"), "note")
}

func TestKeyValueBlock(t *testing.T) {
	block := KeyValueBlock("Title", [][2]string{
		{"Hash", "0xabc"},
		{"Gas Used", "53000"},
	})

	assert.Contains(t, block, "Title")
	assert.Contains(t, block, "Hash")
	assert.Contains(t, block, "0xabc")
	assert.Contains(t, block, "53000")
	// One line per pair plus the title, inside the border.
	assert.GreaterOrEqual(t, len(strings.Split(block, "\n")), 3)
}
