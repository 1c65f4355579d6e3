package keys

import (
	"testing"

	"oss.nandlabs.io/jobstore/testing/assert"
)

func TestNew_Unique(t *testing.T) {
	a := New()
	b := New()
	assert.True(t, a.String() != b.String())
	assert.True(t, a.Less(b))
}

func TestParse_RoundTrip(t *testing.T) {
	k := New()
	parsed, ok := Parse(k.String())
	assert.True(t, ok)
	assert.Equal(t, k.String(), parsed.String())
}

func TestParse_Invalid(t *testing.T) {
	_, ok := Parse("not-a-uuid")
	assert.False(t, ok)

	_, ok = Parse("")
	assert.False(t, ok)

	zero, ok := Parse("zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz")
	assert.False(t, ok)
	assert.True(t, zero.IsZero())
}

func TestK_IsZero(t *testing.T) {
	var k K
	assert.True(t, k.IsZero())
	assert.True(t, !New().IsZero())
}
