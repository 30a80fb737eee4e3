package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandString(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := RandString(8)
		require.Len(t, id, 8)
		for _, r := range id {
			assert.Contains(t, letterBytes, string(r))
		}
		seen[id] = true
	}
	// 100 draws from 62^8 should never collide.
	assert.Len(t, seen, 100)
}

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("**bold** and [link](https://example.com)"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `href="https://example.com"`)

	// Raw script never survives sanitization.
	out = string(RenderMarkdown("hi <script>alert(1)</script>"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hi")
}

func TestHardenImages(t *testing.T) {
	out := string(HardenImages(`<p><img src="https://example.com/a.png"></p>`))
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
	assert.Contains(t, out, `loading="lazy"`)
	// Only the body content comes back, not a full document.
	assert.False(t, strings.Contains(out, "<html"))

	assert.Empty(t, string(HardenImages("")))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestCacheTTL(t *testing.T) {
	cache := GetCache()

	cache.Set("k", "v", 50*time.Millisecond)
	assert.Equal(t, "v", cache.Get("k"))

	time.Sleep(60 * time.Millisecond)
	assert.Nil(t, cache.Get("k"))

	cache.Set("k2", 42, time.Minute)
	cache.Delete("k2")
	assert.Nil(t, cache.Get("k2"))

	assert.Nil(t, cache.Get("never-set"))
}
