package placeholder

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestGenerator_URL(t *testing.T) {
	g := NewGenerator("", 0, WithClock(fixedClock(1700000000123)))

	raw := g.URL("a red fox")

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "api.dicebear.com", u.Host)
	assert.Equal(t, "/7.x/shapes/png", u.Path)
	assert.Equal(t, "1024", u.Query().Get("size"))

	expected := strconv.FormatUint(xxhash.Sum64String("a red fox1700000000123"), 16)
	assert.Equal(t, expected, u.Query().Get("seed"))
}

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator("https://img.example/png", 512, WithClock(fixedClock(42)))

	assert.Equal(t, g.URL("prompt"), g.URL("prompt"))
	assert.NotEqual(t, g.URL("prompt"), g.URL("other prompt"))
	assert.Contains(t, g.URL("prompt"), "https://img.example/png?")
	assert.Contains(t, g.URL("prompt"), "size=512")
}

func TestGenerator_SeedChangesWithTime(t *testing.T) {
	a := NewGenerator("", 0, WithClock(fixedClock(1)))
	b := NewGenerator("", 0, WithClock(fixedClock(2)))

	assert.NotEqual(t, a.Seed("prompt"), b.Seed("prompt"))
}
