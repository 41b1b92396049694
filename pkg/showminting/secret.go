package showminting

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// HashSecret returns keccak256 of the UTF-8 bytes of secret, the same value
// Solidity computes for keccak256(abi.encodePacked(secret)) of a string.
func HashSecret(secret string) common.Hash {
	return crypto.Keccak256Hash([]byte(secret))
}

func HashSecrets(secrets []string) []common.Hash {
	hashes := make([]common.Hash, len(secrets))
	for i, s := range secrets {
		hashes[i] = HashSecret(s)
	}
	return hashes
}
