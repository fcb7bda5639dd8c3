package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare national number", "9876543210", "+919876543210"},
		{"with national code", "919876543210", "+919876543210"},
		{"already canonical", "+919876543210", "+919876543210"},
		{"spaces and dashes", "98765 432-10", "+919876543210"},
		{"parenthesized prefix", "(+91) 98765 43210", "+919876543210"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "12345", "98765432101234", "abcdefghij", "+14155550123"} {
		_, err := Normalize(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestNormalizeAllFormsMatchSameChallenge(t *testing.T) {
	forms := []string{"9876543210", "+919876543210", "919876543210"}
	first, err := Normalize(forms[0])
	require.NoError(t, err)
	for _, f := range forms[1:] {
		got, err := Normalize(f)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}
