package chain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	OptimismSepoliaChainID = 11155420
	OptimismSepoliaName    = "optimism-sepolia"
	DefaultRPCURL          = "https://sepolia.optimism.io"
	DefaultExplorerURL     = "https://sepolia-optimism.etherscan.io"
	DefaultContractAddress = "0xdFa0f0633514d10Dab3FB9B2bcac17f0b883ee0a"
	DefaultFunctionName    = "makeShowAvailableForStoneMinting"
	DefaultWalletProjectID = "3e6e7e58a5918c44fa42816d90b735a6"
)

// Config describes the network and the contract the form submits to. It is
// built once at startup and passed around by value.
type Config struct {
	ChainName string
	ChainID   uint64
	RPCURL    string
	// contract address as configured, used verbatim in explorer links
	ContractAddress string
	ExplorerURL     string
	FunctionName    string
	// ABI JSON file, embedded ABI is used when empty
	ABIFile string
	// wallet-connection project identifier handed to browser wallets
	ProjectID string
}

func DefaultConfig() Config {
	return Config{
		ChainName:       OptimismSepoliaName,
		ChainID:         OptimismSepoliaChainID,
		RPCURL:          DefaultRPCURL,
		ContractAddress: DefaultContractAddress,
		ExplorerURL:     DefaultExplorerURL,
		FunctionName:    DefaultFunctionName,
		ProjectID:       DefaultWalletProjectID,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.ChainID == 0 {
		errs = append(errs, errors.New("chain id is not set"))
	}
	if !common.IsHexAddress(c.ContractAddress) {
		errs = append(errs, fmt.Errorf("invalid contract address %q", c.ContractAddress))
	}
	if c.FunctionName == "" {
		errs = append(errs, errors.New("contract function name is not set"))
	}
	if u, err := url.Parse(c.ExplorerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid explorer url %q", c.ExplorerURL))
	}
	return errors.Join(errs...)
}

func (c Config) Address() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// ContractExplorerURL returns link to the contract source on the block explorer.
func (c Config) ContractExplorerURL() string {
	return fmt.Sprintf("%s/address/%s#code", strings.TrimRight(c.ExplorerURL, "/"), c.ContractAddress)
}

// TxExplorerURL returns link to the transaction on the block explorer.
func (c Config) TxExplorerURL(txHash common.Hash) string {
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(c.ExplorerURL, "/"), txHash.Hex())
}
