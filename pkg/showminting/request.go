package showminting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ShowAvailabilityRequest is the argument tuple of one
// makeShowAvailableForStoneMinting call. It is built from the form on every
// submission and discarded afterwards.
type ShowAvailabilityRequest struct {
	ArtistID      int64
	BlockHeight   int64
	SecretHashes  []common.Hash
	NumberOfSets  int64
	Shapes        []int64
	StonePriceWei *big.Int

	// form line numbers of Shapes
	shapeLines []int
}

// Args returns the positional arguments of the contract call.
func (r *ShowAvailabilityRequest) Args() []any {
	return []any{r.ArtistID, r.BlockHeight, r.SecretHashes, r.NumberOfSets, r.Shapes, r.StonePriceWei}
}

// shapeLine returns the form line the i-th shape was read from.
func (r *ShowAvailabilityRequest) shapeLine(i int) int {
	if i < len(r.shapeLines) {
		return r.shapeLines[i]
	}
	return i + 1
}
