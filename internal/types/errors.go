package types

import (
	"errors"
	"fmt"
)

// Kind classifies a TradeError so callers (journal, API, scheduler) can
// branch on the failure mode without parsing message strings.
type Kind string

const (
	NetworkUnavailable   Kind = "NetworkUnavailable"
	InvalidAddress       Kind = "InvalidAddress"
	GasTooHigh           Kind = "GasTooHigh"
	InvalidToken         Kind = "InvalidToken"
	NoLiquidity          Kind = "NoLiquidity"
	NoV3Pool             Kind = "NoV3Pool"
	InvalidInterval      Kind = "InvalidInterval"
	NotImplemented       Kind = "NotImplemented"
	AdapterError         Kind = "AdapterError"
	NoActiveConfig       Kind = "NoActiveConfig"
	ValidationError      Kind = "ValidationError"
	InvalidTradeLogState Kind = "InvalidTradeLogState"
)

// TradeError is the one error type that crosses the trading core's public
// surface. It never carries a stack trace or wraps transport internals —
// those are logged, not surfaced.
type TradeError struct {
	Kind    Kind
	Message string
}

func (e *TradeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewTradeError constructs a TradeError with a formatted message.
func NewTradeError(kind Kind, format string, args ...interface{}) *TradeError {
	return &TradeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err if it is (or wraps) a *TradeError,
// defaulting to AdapterError for anything else — spec.md §7's catch-all.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var te *TradeError
	if errors.As(err, &te) {
		return te.Kind
	}
	return AdapterError
}
