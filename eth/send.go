package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// SendOptions configures SendEther.
type SendOptions struct {
	Credentials Credentials

	// Base is the power of ten the amount is expressed in; 0 means wei, 18 ether.
	Base int

	// Client is reused as-is when set. Otherwise one is dialled from Config
	// and closed before SendEther returns.
	Client GhostClient
	Config Config

	// Quiet discards progress logging. Logger, when set, takes precedence.
	Quiet  bool
	Logger logrus.FieldLogger
}

// SendEther transfers amount * 10^Base wei to to and returns the mined receipt.
//
// Steps run strictly in order: validate, convert the amount, resolve the
// sender, broadcast, wait for the receipt. Every failure is an *Error whose
// Kind is preserved from the step that raised it. Concurrent sends from the
// same account are not serialised; nonce ordering is up to the caller.
func SendEther(ctx context.Context, to string, amount any, opts SendOptions) (*TransactionReceipt, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(opts.Quiet)
	}

	if !common.IsHexAddress(to) {
		return nil, withStage(newError(KindInvalidAddress, fmt.Sprintf("destination %q is not an address", to)), "validate")
	}
	dest := common.HexToAddress(to)

	mode, err := opts.Credentials.Mode()
	if err != nil {
		return nil, withStage(err, "validate")
	}

	value, err := ToSmallestUnit(amount, opts.Base)
	if err != nil {
		return nil, withStage(err, "amount")
	}

	client := opts.Client
	if client == nil {
		cfg := opts.Config
		if cfg == nil {
			if cfg, err = NewConfiguration(); err != nil {
				return nil, withStage(wrapError(KindConnection, "invalid configuration", err), "connect")
			}
		}
		if client, err = NewGhostClient(ctx, cfg, logger); err != nil {
			return nil, withStage(err, "connect")
		}
		defer client.Close()
	}

	sender, err := ResolveSender(ctx, opts.Credentials, client)
	if err != nil {
		return nil, withStage(err, "credentials")
	}

	logger.WithFields(logrus.Fields{
		"mode":   mode.String(),
		"from":   sender.Hex(),
		"to":     dest.Hex(),
		"amount": FromSmallestUnit(value, opts.Base),
		"wei":    value.String(),
	}).Info("Sending ether")

	receipt, err := client.Submit(ctx, sender, dest, value)
	if err != nil {
		return nil, withStage(err, "submit")
	}
	return receipt, nil
}

// Balance returns the balance of address in wei.
func Balance(ctx context.Context, client GhostClient, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, newError(KindInvalidAddress, fmt.Sprintf("%q is not an address", address))
	}
	return client.GetBalance(ctx, common.HexToAddress(address))
}
