package eth

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Sender is the resolved identity a transfer is sent from.
// PrivateKey is nil when the node signs on behalf of an account it holds.
type Sender struct {
	Address    common.Address    // Ethereum address
	PrivateKey *ecdsa.PrivateKey // Optional, signs locally when set
}

// Hex returns the checksummed address.
func (s *Sender) Hex() string {
	return s.Address.Hex()
}

// CanSign reports whether the sender carries its own key.
func (s *Sender) CanSign() bool {
	return s.PrivateKey != nil
}

// String never includes key material.
func (s *Sender) String() string {
	if s.CanSign() {
		return s.Address.Hex() + " (local key)"
	}
	return s.Address.Hex() + " (node account)"
}

// Transaction represents an Ethereum value transfer
type Transaction struct {
	From                 common.Address `json:"from"`
	To                   common.Address `json:"to"`
	Value                *big.Int       `json:"value"`
	Data                 []byte         `json:"data"`
	GasLimit             uint64         `json:"gas_limit"`
	GasPrice             *big.Int       `json:"gas_price"`
	MaxFeePerGas         *big.Int       `json:"max_fee_per_gas"`
	MaxPriorityFeePerGas *big.Int       `json:"max_priority_fee_per_gas"`
	Nonce                uint64         `json:"nonce"`
	ChainID              *big.Int       `json:"chain_id"`
}

// TransactionReceipt represents transaction execution result
type TransactionReceipt struct {
	TxHash      common.Hash    `json:"tx_hash"`
	Status      uint64         `json:"status"`
	BlockNumber uint64         `json:"block_number"`
	GasUsed     uint64         `json:"gas_used"`
	From        common.Address `json:"from"`
	To          common.Address `json:"to"`
	Logs        []*types.Log   `json:"logs"`
}

// sendTxArgs is the eth_sendTransaction request body for node-held accounts.
type sendTxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Value *hexutil.Big    `json:"value"`
}
