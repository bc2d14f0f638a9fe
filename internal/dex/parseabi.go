package dex

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// parseABI parses one of this package's inline ABI JSON fragments.
func parseABI(jsonStr string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(jsonStr))
}
