package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallerFromForwardedFor(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"203.0.113.7", "203.0.113.7"},
		{"203.0.113.7, 10.0.0.1, 10.0.0.2", "203.0.113.7"},
		{"  198.51.100.4 ,10.0.0.1", "198.51.100.4"},
		{"", UnknownCaller},
		{" , 10.0.0.1", UnknownCaller},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CallerFromForwardedFor(tt.header), "header %q", tt.header)
	}
}

func TestPolicy_Key(t *testing.T) {
	p := Policy{Endpoint: "availability", Limit: 20, Window: time.Minute}
	assert.Equal(t, "availability:unknown", p.Key(UnknownCaller))
}

func TestLongestWindow(t *testing.T) {
	got := LongestWindow(
		Policy{Window: time.Minute},
		Policy{Window: time.Hour},
		Policy{Window: 30 * time.Second},
	)
	assert.Equal(t, time.Hour, got)
	assert.Equal(t, time.Duration(0), LongestWindow())
}
