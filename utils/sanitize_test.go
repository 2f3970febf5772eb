package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDropsScripts(t *testing.T) {
	out := Sanitize(`<p>hello</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>hello</p>")
	assert.NotContains(t, out, "script")
}

func TestStripTagsRemovesAllMarkup(t *testing.T) {
	assert.Equal(t, "plain title", StripTags(`<b>plain</b> title`))
}
