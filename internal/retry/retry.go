// Package retry wraps fallible RPC operations with exponential backoff,
// selected per network profile (spec.md §4.2). It is a thin shim over
// github.com/avast/retry-go, grounded on the same library's use in
// other_examples' smartcontractkit-seth retry.go.
package retry

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/flowdex/tradecore/internal/types"
)

// Policy is one network's retry profile.
type Policy struct {
	MaxRetries   uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultPolicy is spec.md §4.2's "default" row, used by every network
// except those given a more specific entry in profiles.
var DefaultPolicy = Policy{
	MaxRetries:   3,
	InitialDelay: 1000 * time.Millisecond,
	MaxDelay:     10000 * time.Millisecond,
	Multiplier:   2.0,
}

// profiles holds per-network overrides of DefaultPolicy. Only BASE is
// called out explicitly in spec.md §4.2; every other network falls
// through to DefaultPolicy.
var profiles = map[types.Network]Policy{
	types.BASE: {
		MaxRetries:   5,
		InitialDelay: 2500 * time.Millisecond,
		MaxDelay:     20000 * time.Millisecond,
		Multiplier:   2.5,
	},
}

// ProfileFor returns the retry policy for network n.
func ProfileFor(n types.Network) Policy {
	if p, ok := profiles[n]; ok {
		return p
	}
	return DefaultPolicy
}

// retryableSubstrings is spec.md §4.2's case-insensitive match list.
var retryableSubstrings = []string{
	"429",
	"rate limit",
	"too many requests",
	"econnreset",
	"etimedout",
	"enotfound",
}

// IsRetryable reports whether err's message matches one of spec.md §4.2's
// retryable substrings, case-insensitively.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range retryableSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Do runs fn under network n's retry profile. Non-retryable errors
// propagate on the first attempt; on the final retryable attempt the last
// error is surfaced verbatim, matching spec.md §4.2.
func Do(ctx context.Context, n types.Network, fn func() error) error {
	policy := ProfileFor(n)

	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(policy.MaxRetries+1),
		retry.Delay(policy.InitialDelay),
		retry.MaxDelay(policy.MaxDelay),
		retry.DelayType(backoffDelay(policy)),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
	)
}

// backoffDelay builds an exponential-with-cap DelayType from policy,
// matching spec.md §4.2 ("exponential with capped delay; no jitter").
func backoffDelay(policy Policy) retry.DelayTypeFunc {
	return func(n uint, _ error, _ *retry.Config) time.Duration {
		delay := float64(policy.InitialDelay)
		for i := uint(0); i < n; i++ {
			delay *= policy.Multiplier
		}
		d := time.Duration(delay)
		if d > policy.MaxDelay {
			return policy.MaxDelay
		}
		return d
	}
}
