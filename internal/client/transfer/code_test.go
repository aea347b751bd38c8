package transfer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123", "ABC-123"},
		{"abc-123", "ABC-123"},
		{"ab", "AB"},
		{"abc", "ABC"},
		{"abc1", "ABC-1"},
		{"ABC - 123", "ABC-123"},
		{"abc123456", "ABC-123"},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeCode(tt.in), "input %q", tt.in)
	}
}

func TestCodeComplete(t *testing.T) {
	require.True(t, CodeComplete("ABC-123"))
	require.False(t, CodeComplete("ABC-12"))
	require.False(t, CodeComplete("ABC1234"))
	require.False(t, CodeComplete(""))
}
