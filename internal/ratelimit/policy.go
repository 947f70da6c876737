package ratelimit

import (
	"strings"
	"time"
)

// UnknownCaller is the shared bucket for requests without a forwarded address.
const UnknownCaller = "unknown"

// Policy is the limit applied to one endpoint.
type Policy struct {
	Endpoint string
	Limit    int
	Window   time.Duration
}

func (p Policy) Key(caller string) string {
	return p.Endpoint + ":" + caller
}

// CallerFromForwardedFor returns the first segment of an X-Forwarded-For chain.
func CallerFromForwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownCaller
	}
	return first
}

// LongestWindow is used as the sweep retention so no live window is collected early.
func LongestWindow(policies ...Policy) time.Duration {
	var longest time.Duration
	for _, p := range policies {
		if p.Window > longest {
			longest = p.Window
		}
	}
	return longest
}
