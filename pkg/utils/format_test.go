package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelardi/polisbot/pkg/utils"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", utils.FormatDuration(0))
	assert.Equal(t, "0s", utils.FormatDuration(-5))
	assert.Equal(t, "45s", utils.FormatDuration(45))
	assert.Equal(t, "2m", utils.FormatDuration(120))
	assert.Equal(t, "1h 30m", utils.FormatDuration(5400))
	assert.Equal(t, "3h", utils.FormatDuration(10800))
	assert.Equal(t, "1h 1m 1s", utils.FormatDuration(3661))
}

func TestThousandSeparator(t *testing.T) {
	assert.Equal(t, "0", utils.ThousandSeparator(0))
	assert.Equal(t, "999", utils.ThousandSeparator(999))
	assert.Equal(t, "1,000", utils.ThousandSeparator(1000))
	assert.Equal(t, "1,234,567", utils.ThousandSeparator(1234567))
	assert.Equal(t, "-12,345", utils.ThousandSeparator(-12345))
}
