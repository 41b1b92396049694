package showminting

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

var ErrInvalidPrice = errors.New("invalid ether amount")

var weiPerEther = new(big.Rat).SetInt(big.NewInt(params.Ether))

// EtherToWei converts decimal ether amount to wei. The text is read as a
// float64 first and its shortest decimal representation is then scaled by
// 10^18 exactly, rounding half away from zero. So "0.01" is exactly 10^16 wei
// while digits beyond float64 precision are lost.
func EtherToWei(text string) (*big.Int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, ErrMissingValue
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidPrice, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	r.Mul(r, weiPerEther)

	// r >= 0 so truncating division is floor: (2*num + den) / (2*den)
	num := new(big.Int).Lsh(r.Num(), 1)
	num.Add(num, r.Denom())
	wei := num.Quo(num, new(big.Int).Lsh(r.Denom(), 1))

	if _, overflow := uint256.FromBig(wei); overflow {
		return nil, fmt.Errorf("%w: %q wei doesn't fit into uint256", ErrInvalidPrice, s)
	}
	return wei, nil
}

// WeiToEther formats wei amount as decimal ether string without trailing zeros.
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	s := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
