package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringInSlice(t *testing.T) {
	slice := []string{"gatk", "freebayes"}
	assert.True(t, StringInSlice("gatk", slice))
	assert.False(t, StringInSlice("varscan", slice))
	assert.False(t, StringInSlice("gatk", nil))
}

func TestKeyExists(t *testing.T) {
	m := map[string]interface{}{"hits": nil}
	assert.True(t, KeyExists(m, "hits"))
	assert.False(t, KeyExists(m, "aggregations"))
}

func TestGetLeadingStringInBetweenSquareBrackets(t *testing.T) {
	t.Run("leading status bracket is split off", func(t *testing.T) {
		bracket, rest := GetLeadingStringInBetweenSquareBrackets(`[200 OK] {"hits":{}}`)
		assert.Equal(t, "200 OK", bracket)
		assert.Equal(t, `{"hits":{}}`, rest)
	})

	t.Run("non-leading bracket belongs to the body", func(t *testing.T) {
		bracket, rest := GetLeadingStringInBetweenSquareBrackets(`{"ref":["A"]}`)
		assert.Equal(t, "", bracket)
		assert.Equal(t, `{"ref":["A"]}`, rest)
	})

	t.Run("no brackets at all", func(t *testing.T) {
		bracket, rest := GetLeadingStringInBetweenSquareBrackets("plain text")
		assert.Equal(t, "", bracket)
		assert.Equal(t, "", rest)
	})
}
