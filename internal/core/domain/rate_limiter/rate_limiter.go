package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

type Interval struct {
	value int
}

var (
	Minute = Interval{}
	Hour   = Interval{value: 1}
	Day    = Interval{value: 2}
)

func (i Interval) String() string {
	switch i {
	case Hour:
		return "hour"
	case Day:
		return "day"
	default:
		return "minute"
	}
}

type Limit struct {
	Value    uint16
	Interval Interval
}

func (l Limit) String() string {
	return fmt.Sprintf("%d/%s", l.Value, l.Interval)
}

// ParseLimit parses "3/day"-style rates. Unknown intervals or unparsable
// values are a configuration problem, not a reason to fail requests, so
// it reports ok=false and the caller falls back to its default.
func ParseLimit(raw string) (limit Limit, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), "/", 2)
	if len(parts) != 2 {
		return limit, false
	}
	value, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || value == 0 {
		return limit, false
	}
	var interval Interval
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "minute", "min":
		interval = Minute
	case "hour":
		interval = Hour
	case "day":
		interval = Day
	default:
		return limit, false
	}
	return Limit{Value: uint16(value), Interval: interval}, true
}

type Result struct {
	IsAllowed bool
}

func Allowed() Result {
	return Result{IsAllowed: true}
}

func NotAllowed() Result {
	return Result{IsAllowed: false}
}

type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit Limit) Result
}
