package debt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	t.Run("appends currency suffix", func(t *testing.T) {
		got := FormatAmount(250, "USD")
		assert.True(t, strings.HasSuffix(got, " USD"), got)
		assert.Contains(t, got, "250")
	})

	t.Run("groups large amounts", func(t *testing.T) {
		got := FormatAmount(1500000, "UZS")
		// The uz locale separates thousand groups; the raw digit run
		// must not survive formatting.
		assert.NotContains(t, got, "1500000")
		assert.True(t, strings.HasSuffix(got, " UZS"), got)
	})

	t.Run("empty currency falls back to default", func(t *testing.T) {
		got := FormatAmount(10, "")
		assert.True(t, strings.HasSuffix(got, " UZS"), got)
	})
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "Jun 10, 2024", FormatDate(d))
}
