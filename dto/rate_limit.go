package dto

import "time"

// ThrottleInfo is the rate limiter's decision for a single media event.
type ThrottleInfo struct {
	Allowed     bool      `json:"allowed"`
	Count       int       `json:"count"`
	Remaining   int       `json:"remaining"`
	WindowReset time.Time `json:"window_reset"`
}
