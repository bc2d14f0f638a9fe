package contractclient

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// LoadABI reads a bare ABI JSON array from path. Grounded on the teacher's
// pkg/util.LoadABI, referenced by types_test.go's packing tests.
func LoadABI(path string) (abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("load abi: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(string(data)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("load abi: parse: %w", err)
	}
	return parsed, nil
}

// hardhatArtifact is the subset of a Hardhat compilation artifact this
// repo needs — just the "abi" field.
type hardhatArtifact struct {
	ABI json.RawMessage `json:"abi"`
}

// LoadABIFromHardhatArtifact reads a Hardhat artifact JSON file and
// extracts its "abi" field. Grounded on the teacher's
// pkg/util.LoadABIFromHardhatArtifact, referenced by
// pkg/contractclient/contractclient_test.go.
func LoadABIFromHardhatArtifact(path string) (abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("load hardhat artifact: %w", err)
	}

	var artifact hardhatArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return abi.ABI{}, fmt.Errorf("load hardhat artifact: parse wrapper: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("load hardhat artifact: parse abi: %w", err)
	}
	return parsed, nil
}

// Hex2Bytes decodes a hex string, tolerating an optional "0x" prefix.
// Grounded on the teacher's pkg/util.Hex2Bytes.
func Hex2Bytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
