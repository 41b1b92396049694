package showminting

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cryptograss/stonemint/internal/logger"
	"github.com/cryptograss/stonemint/pkg/showminting/chain"
)

var log = logger.CreateForPackage()

type (
	// Submitter sends one state changing call of the contract function, it
	// takes care of signing, nonce and gas. chain.EthSubmitter implements it.
	Submitter interface {
		Transact(ctx context.Context, args ...any) (*chain.Submission, error)
	}

	// TransactionHandle identifies submitted transaction.
	TransactionHandle struct {
		TxHash      common.Hash
		From        common.Address
		ExplorerURL string
	}

	// Adapter turns form state into the contract call and submits it.
	Adapter struct {
		cfg       chain.Config
		submitter Submitter
		opts      CollectOptions
	}

	// ABIMethod is implemented by submitters that know the contract function
	// they call, requests are checked against it before submitting.
	ABIMethod interface {
		Method() abi.Method
	}

	Option func(*Adapter)
)

// argumentFields are the form fields of the positional arguments returned by
// ShowAvailabilityRequest.Args.
var argumentFields = [...]string{FieldArtistID, FieldBlockHeight, FieldSecrets, FieldNumberOfSets, FieldShapes, FieldStonePriceEth}

func WithCollectOptions(opts CollectOptions) Option {
	return func(a *Adapter) {
		a.opts = opts
	}
}

func NewAdapter(cfg chain.Config, submitter Submitter, opts ...Option) (*Adapter, error) {
	if submitter == nil {
		return nil, errors.New("submitter is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chain configuration: %w", err)
	}
	a := &Adapter{cfg: cfg, submitter: submitter}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

func (a *Adapter) Config() chain.Config {
	return a.cfg
}

func (a *Adapter) CollectOptions() CollectOptions {
	return a.opts
}

func (a *Adapter) Collect(form FieldSource) (*ShowAvailabilityRequest, error) {
	return CollectInputs(form, a.opts)
}

// Submit sends the request as a single transaction. Failures are returned to
// the caller as is, resubmitting is up to the user.
func (a *Adapter) Submit(ctx context.Context, req *ShowAvailabilityRequest) (*TransactionHandle, error) {
	if req == nil {
		return nil, errors.New("request is nil")
	}
	if m, ok := a.submitter.(ABIMethod); ok {
		if err := CheckRequest(m.Method(), req); err != nil {
			return nil, err
		}
	}
	sub, err := a.submitter.Transact(ctx, req.Args()...)
	if err != nil {
		return nil, fmt.Errorf("submitting transaction: %w", err)
	}
	log.Info("artist %d show at block %d made available for stone minting: tx %s", req.ArtistID, req.BlockHeight, sub.TxHash)
	return &TransactionHandle{
		TxHash:      sub.TxHash,
		From:        sub.From,
		ExplorerURL: a.cfg.TxExplorerURL(sub.TxHash),
	}, nil
}

/*
CheckRequest verifies that the values of req fit the input types of method,
ie artist id 70000 does not fit uint16. Every value that doesn't is reported
as *FieldError of the form field it came from, list elements with their line.
*/
func CheckRequest(method abi.Method, req *ShowAvailabilityRequest) error {
	_, err := chain.CoerceArgs(method, req.Args())
	if err == nil {
		return nil
	}
	var errs []error
	for _, e := range unwrapJoined(err) {
		var ae *chain.ArgumentError
		if !errors.As(e, &ae) || ae.Index >= len(argumentFields) {
			errs = append(errs, e)
			continue
		}
		field := argumentFields[ae.Index]
		for _, ie := range unwrapJoined(ae.Err) {
			var ee *chain.ElementError
			switch {
			case errors.As(ie, &ee) && field == FieldShapes:
				errs = append(errs, &FieldError{Field: field, Line: req.shapeLine(ee.Index), Err: ee.Err})
			case errors.As(ie, &ee):
				errs = append(errs, &FieldError{Field: field, Line: ee.Index + 1, Err: ee.Err})
			default:
				errs = append(errs, &FieldError{Field: field, Err: ie})
			}
		}
	}
	return errors.Join(errs...)
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// CollectAndSubmit reads the form and submits it, nothing is sent when the
// form is invalid.
func (a *Adapter) CollectAndSubmit(ctx context.Context, form FieldSource) (*TransactionHandle, error) {
	req, err := a.Collect(form)
	if err != nil {
		return nil, err
	}
	return a.Submit(ctx, req)
}

// ExplorerLink returns the block explorer URL of the contract source. It
// depends only on the configuration.
func (a *Adapter) ExplorerLink() string {
	return a.cfg.ContractExplorerURL()
}
