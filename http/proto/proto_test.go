package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	cases := []struct {
		raw  string
		want Proto
	}{
		{"HTTP/1.1", HTTP11},
		{"HTTP/1.0", HTTP10},
		{"HTTP/2.0", Unknown},
		{"HTTP/0.9", Unknown},
		{"http/1.1", Unknown},
		{"HTTP/1.1x", Unknown},
		{"", Unknown},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, FromBytes([]byte(tc.raw)), tc.raw)
	}
}

func TestString(t *testing.T) {
	require.Equal(t, "HTTP/1.1", HTTP11.String())
	require.Equal(t, "HTTP/1.0", HTTP10.String())
	require.Equal(t, "HTTP/0.0", Unknown.String())
}
