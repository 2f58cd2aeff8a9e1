package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParams(t *testing.T) {
	params, err := ParseParams("2", "25")
	assert.NoError(t, err)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, 25, params.Offset)
}

func TestParseParams_Defaults(t *testing.T) {
	params, err := ParseParams("", "")
	assert.NoError(t, err)
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestParseParams_Clamping(t *testing.T) {
	params, err := ParseParams("0", "1000")
	assert.NoError(t, err)
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, MaxLimit, params.Limit)

	params, err = ParseParams("3", "0")
	assert.NoError(t, err)
	assert.Equal(t, MinLimit, params.Limit)
}

func TestParseParams_Invalid(t *testing.T) {
	_, err := ParseParams("abc", "")
	assert.Error(t, err)

	_, err = ParseParams("", "xyz")
	assert.Error(t, err)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 2, TotalPages(20, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
