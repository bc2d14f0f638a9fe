package types

import "regexp"

var (
	evmAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	solAddressRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// ValidateAddress checks addr against the address family the network uses.
func ValidateAddress(network Network, addr string) error {
	if network.IsEVM() {
		if !evmAddressRe.MatchString(addr) {
			return NewTradeError(InvalidAddress, "not a valid EVM address: %s", addr)
		}
		return nil
	}
	if network == SOL {
		if !solAddressRe.MatchString(addr) {
			return NewTradeError(InvalidAddress, "not a valid Solana address: %s", addr)
		}
		return nil
	}
	return NewTradeError(InvalidAddress, "unknown network: %s", network)
}

// ValidateSlippage enforces spec's (0, 50] percent bound.
func ValidateSlippage(pct float64) error {
	if pct <= 0 || pct > 50 {
		return NewTradeError(ValidationError, "slippageTolerance must be in (0, 50], got %v", pct)
	}
	return nil
}

// ValidateMaxGasRatio enforces spec's [0.1, 1.0] bound.
func ValidateMaxGasRatio(ratio float64) error {
	if ratio < 0.1 || ratio > 1.0 {
		return NewTradeError(ValidationError, "maxGasRatio must be in [0.1, 1.0], got %v", ratio)
	}
	return nil
}
