package chain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// KeyFromHex decodes hex encoded secp256k1 private key, 0x prefix is optional.
func KeyFromHex(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}
	return key, nil
}

// KeyFromMnemonic derives the private key of the account with given index
// from BIP-39 mnemonic, using the Ethereum BIP-44 path m/44'/60'/0'/0/index.
func KeyFromMnemonic(mnemonic string, accountIndex uint32) (*ecdsa.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, err
	}
	// only HDPrivateKeyID is used from chaincfg.MainNetParams, it is the
	// version flag of the extended key.
	masterKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}
	path, err := accounts.ParseDerivationPath(DerivationPath(accountIndex))
	if err != nil {
		return nil, err
	}
	derivedKey := masterKey
	for _, n := range path {
		if derivedKey, err = derivedKey.Derive(n); err != nil {
			return nil, fmt.Errorf("deriving key %s: %w", path, err)
		}
	}
	privateKey, err := derivedKey.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return privateKey.ToECDSA(), nil
}

// DerivationPath returns BIP-44 path of the Ethereum account.
func DerivationPath(accountIndex uint32) string {
	// m / purpose' / coin_type' / account' / change / address_index
	return fmt.Sprintf("m/44'/60'/0'/0/%d", accountIndex)
}

func KeyAddress(key *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}
