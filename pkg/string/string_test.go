package string

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"StartDate":   "start_date",
		"start":       "start",
		"PictureURL":  "picture_url",
		"Nationality": "nationality",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSnakeCase(in), in)
	}
}

func TestFoldContains(t *testing.T) {
	assert.True(t, FoldContains("John Smith", "john"))
	assert.True(t, FoldContains("JOHN@EXAMPLE.COM", "john@example.com"))
	assert.True(t, FoldContains("anything", ""))
	assert.True(t, FoldContains("", ""))
	assert.False(t, FoldContains("Jane Doe", "john"))
	assert.False(t, FoldContains("", "x"))
}
