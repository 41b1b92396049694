package chain

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abi/set_stone.json
var setStoneABI string

// LoadABI parses the contract ABI from fileName, the embedded ABI of the
// stone minting contract is used when fileName is empty.
func LoadABI(fileName string) (abi.ABI, error) {
	src := setStoneABI
	if fileName != "" {
		b, err := os.ReadFile(fileName)
		if err != nil {
			return abi.ABI{}, fmt.Errorf("reading ABI file: %w", err)
		}
		src = string(b)
	}
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing contract ABI: %w", err)
	}
	return parsed, nil
}

// Method returns the ABI definition of the write function named in the config.
func (c Config) Method(contractABI abi.ABI) (abi.Method, error) {
	m, ok := contractABI.Methods[c.FunctionName]
	if !ok {
		return abi.Method{}, fmt.Errorf("contract ABI has no function %q", c.FunctionName)
	}
	if m.IsConstant() {
		return abi.Method{}, fmt.Errorf("function %q is read-only, expected state changing function", c.FunctionName)
	}
	return m, nil
}
