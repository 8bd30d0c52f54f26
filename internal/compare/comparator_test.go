package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Identical(t *testing.T) {
	for _, text := range []string{"", "Terms of Service v1", "line one\nline two"} {
		c := New(PolicyUnchanged)
		result := c.Compare(&text, text)

		assert.False(t, result.Changed, "text %q", text)
		assert.Empty(t, result.ChangedText)
		assert.False(t, result.FirstRun)
	}
}

func TestCompare_Different(t *testing.T) {
	baseline := "We do not share data."
	current := "We share data with partners."

	result := New(PolicyUnchanged).Compare(&baseline, current)

	assert.True(t, result.Changed)
	assert.Equal(t, current, result.ChangedText)
}

func TestCompare_ExactIdentityOnly(t *testing.T) {
	baseline := "Terms of Service"
	current := "terms of service"

	result := New(PolicyUnchanged).Compare(&baseline, current)
	assert.True(t, result.Changed, "case differences count as a change")

	withSpace := "Terms of Service "
	result = New(PolicyUnchanged).Compare(&baseline, withSpace)
	assert.True(t, result.Changed, "whitespace differences count as a change")
}

func TestCompare_FirstRunPolicies(t *testing.T) {
	unchanged := New(PolicyUnchanged).Compare(nil, "anything")
	assert.False(t, unchanged.Changed)
	assert.Empty(t, unchanged.ChangedText)
	assert.True(t, unchanged.FirstRun)

	changed := New(PolicyChanged).Compare(nil, "anything")
	assert.True(t, changed.Changed)
	assert.Equal(t, "anything", changed.ChangedText)
	assert.True(t, changed.FirstRun)
}

func TestCompare_ZeroValueIsUnchangedPolicy(t *testing.T) {
	var c Comparator
	assert.False(t, c.Compare(nil, "anything").Changed)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected Policy
	}{
		{"", PolicyUnchanged},
		{"unchanged", PolicyUnchanged},
		{"CHANGED", PolicyChanged},
		{" changed ", PolicyChanged},
	}

	for _, tc := range tests {
		p, err := ParsePolicy(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, p)
	}

	_, err := ParsePolicy("sometimes")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
