package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/cryptograss/stonemint/internal/logger"
)

var log = logger.CreateForPackage()

type (
	// Submission identifies transaction accepted by the RPC node.
	Submission struct {
		TxHash common.Hash
		From   common.Address
		Nonce  uint64
	}

	// EthSubmitter signs calls of the configured contract function with a
	// local key and sends them to the network.
	EthSubmitter struct {
		// held while nonce is picked and the tx is sent so that concurrent
		// submissions do not get the same nonce
		mu       sync.Mutex
		cfg      Config
		method   abi.Method
		contract *bind.BoundContract
		auth     *bind.TransactOpts
	}
)

func NewEthSubmitter(cfg Config, contractABI abi.ABI, backend bind.ContractTransactor, key *ecdsa.PrivateKey) (*EthSubmitter, error) {
	if backend == nil {
		return nil, errors.New("contract backend is nil")
	}
	if key == nil {
		return nil, errors.New("signing key is nil")
	}
	method, err := cfg.Method(contractABI)
	if err != nil {
		return nil, err
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(cfg.ChainID))
	if err != nil {
		return nil, fmt.Errorf("creating transactor: %w", err)
	}
	return &EthSubmitter{
		cfg:      cfg,
		method:   method,
		contract: bind.NewBoundContract(cfg.Address(), contractABI, nil, backend, nil),
		auth:     auth,
	}, nil
}

func (s *EthSubmitter) From() common.Address {
	return s.auth.From
}

// Method returns the ABI of the contract function the submitter calls.
func (s *EthSubmitter) Method() abi.Method {
	return s.method
}

// Transact sends single transaction calling the contract function with args.
// Gas, gas price and nonce are taken from the node. Nothing is retried.
func (s *EthSubmitter) Transact(ctx context.Context, args ...any) (*Submission, error) {
	coerced, err := CoerceArgs(s.method, args)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	opts := *s.auth
	opts.Context = ctx
	tx, err := s.contract.Transact(&opts, s.method.Name, coerced...)
	if err != nil {
		return nil, fmt.Errorf("sending %s transaction: %w", s.method.Name, err)
	}
	log.Debug("sent %s tx %s from %s nonce %d", s.method.Name, tx.Hash(), opts.From, tx.Nonce())
	return &Submission{TxHash: tx.Hash(), From: opts.From, Nonce: tx.Nonce()}, nil
}

// Dial connects to the RPC node and verifies that it serves the configured chain.
func Dial(ctx context.Context, cfg Config) (*ethclient.Client, error) {
	rc, err := rpc.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.RPCURL, err)
	}
	client := ethclient.NewClient(rc)
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("reading chain id from %s: %w", cfg.RPCURL, err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != cfg.ChainID {
		client.Close()
		return nil, fmt.Errorf("RPC node serves chain %s, expected %d (%s)", chainID, cfg.ChainID, cfg.ChainName)
	}
	return client, nil
}
