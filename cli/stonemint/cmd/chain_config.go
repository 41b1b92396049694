package cmd

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cryptograss/stonemint/internal/logger"
	"github.com/cryptograss/stonemint/pkg/showminting"
	"github.com/cryptograss/stonemint/pkg/showminting/chain"
)

const (
	rpcURLCmdName         = "rpc-url"
	chainIDCmdName        = "chain-id"
	chainNameCmdName      = "chain-name"
	contractCmdName       = "contract"
	explorerURLCmdName    = "explorer-url"
	functionCmdName       = "function"
	abiFileCmdName        = "abi-file"
	projectIDCmdName      = "project-id"
	privateKeyCmdName     = "private-key"
	mnemonicCmdName       = "mnemonic"
	accountCmdName        = "account"
	skipBlankLinesCmdName = "skip-blank-lines"
)

type (
	chainConfig struct {
		chain.Config
		SkipBlankLines bool
	}

	signingKeyConfig struct {
		PrivateKey   string
		Mnemonic     string
		AccountIndex uint32
	}

	// submitterFactory connects the submitter of cfg.FunctionName signing
	// with key. The returned func releases the connection.
	submitterFactory func(ctx context.Context, cfg chain.Config, contractABI abi.ABI, key *ecdsa.PrivateKey) (showminting.Submitter, func(), error)
)

func addChainFlags(cmd *cobra.Command, config *chainConfig) {
	config.Config = chain.DefaultConfig()
	cmd.Flags().StringVar(&config.RPCURL, rpcURLCmdName, config.RPCURL, "JSON-RPC endpoint of the network")
	cmd.Flags().Uint64Var(&config.ChainID, chainIDCmdName, config.ChainID, "chain id the transactions are signed for")
	cmd.Flags().StringVar(&config.ChainName, chainNameCmdName, config.ChainName, "name of the network")
	cmd.Flags().StringVar(&config.ContractAddress, contractCmdName, config.ContractAddress, "address of the set stone contract")
	cmd.Flags().StringVar(&config.ExplorerURL, explorerURLCmdName, config.ExplorerURL, "block explorer base url")
	cmd.Flags().StringVar(&config.FunctionName, functionCmdName, config.FunctionName, "contract function to call")
	cmd.Flags().StringVar(&config.ABIFile, abiFileCmdName, "", "contract ABI JSON file (default is the built-in set stone ABI)")
	cmd.Flags().StringVar(&config.ProjectID, projectIDCmdName, config.ProjectID, "wallet connection project id")
	cmd.Flags().BoolVar(&config.SkipBlankLines, skipBlankLinesCmdName, false, "ignore blank lines of shapes and secrets instead of rejecting them")
}

func addKeyFlags(cmd *cobra.Command, config *signingKeyConfig) {
	cmd.Flags().StringVar(&config.PrivateKey, privateKeyCmdName, "", "hex encoded private key of the sender")
	cmd.Flags().StringVar(&config.Mnemonic, mnemonicCmdName, "", "mnemonic seed of the sender wallet, the number of words should be 12, 15, 18, 21 or 24")
	cmd.Flags().Uint32Var(&config.AccountIndex, accountCmdName, 0, "index of the account derived from the mnemonic")
	cmd.MarkFlagsMutuallyExclusive(privateKeyCmdName, mnemonicCmdName)
}

func (c *chainConfig) collectOptions() showminting.CollectOptions {
	return showminting.CollectOptions{SkipBlankLines: c.SkipBlankLines}
}

func (c *chainConfig) method() (abi.ABI, abi.Method, error) {
	if err := c.Validate(); err != nil {
		return abi.ABI{}, abi.Method{}, err
	}
	contractABI, err := chain.LoadABI(c.ABIFile)
	if err != nil {
		return abi.ABI{}, abi.Method{}, err
	}
	m, err := c.Method(contractABI)
	if err != nil {
		return abi.ABI{}, abi.Method{}, err
	}
	return contractABI, m, nil
}

/*
newAdapter loads the signing key, connects the submitter and returns the
adapter using it. The returned func must be called when done.
*/
func newAdapter(ctx context.Context, config *chainConfig, keys *signingKeyConfig, newSubmitter submitterFactory) (*showminting.Adapter, func(), error) {
	contractABI, _, err := config.method()
	if err != nil {
		return nil, nil, err
	}
	key, err := keys.load()
	if err != nil {
		return nil, nil, err
	}
	logger.SetContext("chain", config.ChainName)
	submitter, closeFn, err := newSubmitter(ctx, config.Config, contractABI, key)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := showminting.NewAdapter(config.Config, submitter, showminting.WithCollectOptions(config.collectOptions()))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return adapter, closeFn, nil
}

func dialSubmitter(ctx context.Context, cfg chain.Config, contractABI abi.ABI, key *ecdsa.PrivateKey) (showminting.Submitter, func(), error) {
	client, err := chain.Dial(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	s, err := chain.NewEthSubmitter(cfg, contractABI, client, key)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	log.Info("submitting as %s to %s on %s", s.From(), cfg.ContractAddress, cfg.ChainName)
	return s, client.Close, nil
}

// load returns the signing key, when neither key flag is set the hex key is
// read from the terminal.
func (c *signingKeyConfig) load() (*ecdsa.PrivateKey, error) {
	switch {
	case c.Mnemonic != "":
		return chain.KeyFromMnemonic(c.Mnemonic, c.AccountIndex)
	case c.PrivateKey != "":
		return chain.KeyFromHex(c.PrivateKey)
	}
	pk, err := readPassword("Enter private key of the sender: ")
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	if strings.TrimSpace(pk) == "" {
		return nil, errors.New("private key is required")
	}
	return chain.KeyFromHex(pk)
}

func readPassword(promptMessage string) (string, error) {
	consoleWriter.Print(promptMessage)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	consoleWriter.Println("") // line break after reading password
	return string(passwordBytes), nil
}

func readFile(fileName string) (string, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
