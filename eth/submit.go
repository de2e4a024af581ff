package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

// Submit transfers value from sender to to and waits for it to be mined.
//
// A sender with a private key is signed locally and the key never leaves the
// process. Without one, the node signs with the account it holds. Broadcast
// and confirmation are two separate round trips. A KindTimeout error after
// broadcast means the outcome is unknown. A transport failure during the
// balance lookup carries KindConnection; node errors while building, signing
// or broadcasting carry KindSubmissionFailed or KindInsufficientBalance.
func (es *ghostClient) Submit(ctx context.Context, sender *Sender, to common.Address, value *big.Int) (*TransactionReceipt, error) {
	if sender == nil {
		return nil, newError(KindNoDefaultAccount, "no sender")
	}
	log := es.log.WithFields(logrus.Fields{
		"from":  sender.Hex(),
		"to":    to.Hex(),
		"value": value.String(),
	})

	if err := es.checkBalance(ctx, sender.Address, value); err != nil {
		log.WithError(err).Warn("Transfer rejected")
		return nil, err
	}

	tx := &Transaction{
		From:  sender.Address,
		To:    to,
		Value: value,
		Data:  []byte{}, // Simple ETH transfer
	}

	var (
		pending *TransactionReceipt
		err     error
	)
	if sender.CanSign() {
		var signedTx *types.Transaction
		signedTx, err = es.SignTransaction(ctx, tx, sender.PrivateKey)
		if err != nil {
			return nil, classifyNodeError("failed to prepare transaction", err)
		}
		pending, err = es.SendTransaction(ctx, signedTx)
	} else {
		pending, err = es.SendUnsignedTransaction(ctx, tx)
	}
	if err != nil {
		return nil, err
	}

	receipt, err := es.WaitForTransaction(ctx, pending.TxHash)
	if err != nil {
		log.WithError(err).Error("Transaction not confirmed")
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &Error{
			Kind:    KindSubmissionFailed,
			Message: fmt.Sprintf("transaction %s was mined but failed", receipt.TxHash.Hex()),
			Hash:    receipt.TxHash.Hex(),
		}
	}

	log.WithFields(logrus.Fields{
		"hash":         receipt.TxHash.Hex(),
		"block_number": receipt.BlockNumber,
		"gas_used":     receipt.GasUsed,
	}).Info("Transaction confirmed")
	return receipt, nil
}

// checkBalance rejects transfers the sender cannot cover before anything is
// broadcast. Fees are left to the node, whose refusal is classified the same way.
func (es *ghostClient) checkBalance(ctx context.Context, address common.Address, value *big.Int) error {
	balance, err := es.GetBalance(ctx, address)
	if err != nil {
		return err
	}
	if balance.Cmp(value) < 0 {
		return newError(KindInsufficientBalance,
			fmt.Sprintf("balance of %s is %s wei, cannot send %s wei", address.Hex(), balance.String(), value.String()))
	}
	return nil
}

// classifyNodeError maps a node or transport failure to an error Kind.
// Node messages are kept verbatim as the cause.
func classifyNodeError(msg string, err error) error {
	if KindOf(err) != "" {
		return err
	}
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return wrapError(KindInsufficientBalance, msg, err)
	}
	return wrapError(KindSubmissionFailed, msg, err)
}
