package eth

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	internalmocks "github.com/nando-os/ghost-send/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectSigning(m *internalmocks.EthClient, sender *Sender) {
	m.On("PendingNonceAt", mock.Anything, sender.Address).Return(uint64(0), nil)
	m.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(21000), nil)
	m.On("HeaderByNumber", mock.Anything, (*big.Int)(nil)).Return(&types.Header{GasLimit: 30000000, BaseFee: big.NewInt(GWEI)}, nil)
}

func TestSubmit_LocalKey(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, sender := testGhostClient(t, mockClient)
	mockClient.On("BalanceAt", mock.Anything, sender.Address, (*big.Int)(nil)).Return(big.NewInt(1e18), nil)
	expectSigning(mockClient, sender)
	chain := &minedChain{status: types.ReceiptStatusSuccessful}
	chain.expect(mockClient)

	receipt, err := gc.Submit(context.Background(), sender, testRecipient, big.NewInt(500))
	require.NoError(t, err)
	assert.Equal(t, chain.sent.Hash(), receipt.TxHash)
	assert.Equal(t, sender.Address, receipt.From)
	assert.Equal(t, testRecipient, receipt.To)
	assert.Equal(t, big.NewInt(500), chain.sent.Value())
	mockClient.AssertExpectations(t)
}

func TestSubmit_InsufficientBalance(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, sender := testGhostClient(t, mockClient)
	mockClient.On("BalanceAt", mock.Anything, sender.Address, (*big.Int)(nil)).Return(big.NewInt(0), nil)

	_, err := gc.Submit(context.Background(), sender, testRecipient, big.NewInt(1))
	assert.True(t, IsKind(err, KindInsufficientBalance))
	mockClient.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestSubmit_BalanceLookupFails(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, sender := testGhostClient(t, mockClient)
	mockClient.On("BalanceAt", mock.Anything, sender.Address, (*big.Int)(nil)).Return((*big.Int)(nil), errors.New("dial tcp: connection refused"))

	_, err := gc.Submit(context.Background(), sender, testRecipient, big.NewInt(1))
	assert.Equal(t, KindConnection, KindOf(err))
	mockClient.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestSubmit_NodeRejectsForFunds(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, sender := testGhostClient(t, mockClient)
	mockClient.On("BalanceAt", mock.Anything, sender.Address, (*big.Int)(nil)).Return(big.NewInt(500), nil)
	expectSigning(mockClient, sender)
	nodeErr := errors.New("insufficient funds for gas * price + value: balance 500, tx cost 21000000000500")
	mockClient.On("SendTransaction", mock.Anything, mock.Anything).Return(nodeErr)

	_, err := gc.Submit(context.Background(), sender, testRecipient, big.NewInt(500))
	assert.True(t, IsKind(err, KindInsufficientBalance))
	assert.ErrorIs(t, err, nodeErr)
}

func TestSubmit_EstimateRejectsForFunds(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, sender := testGhostClient(t, mockClient)
	mockClient.On("BalanceAt", mock.Anything, sender.Address, (*big.Int)(nil)).Return(big.NewInt(500), nil)
	mockClient.On("PendingNonceAt", mock.Anything, sender.Address).Return(uint64(0), nil)
	mockClient.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(0), errors.New("insufficient funds for transfer"))

	_, err := gc.Submit(context.Background(), sender, testRecipient, big.NewInt(500))
	assert.True(t, IsKind(err, KindInsufficientBalance))
}

func TestSubmit_BroadcastFails(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, sender := testGhostClient(t, mockClient)
	mockClient.On("BalanceAt", mock.Anything, sender.Address, (*big.Int)(nil)).Return(big.NewInt(1e18), nil)
	expectSigning(mockClient, sender)
	mockClient.On("SendTransaction", mock.Anything, mock.Anything).Return(errors.New("connection reset by peer"))

	_, err := gc.Submit(context.Background(), sender, testRecipient, big.NewInt(500))
	assert.True(t, IsKind(err, KindSubmissionFailed))
}

func TestSubmit_Reverted(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, sender := testGhostClient(t, mockClient)
	mockClient.On("BalanceAt", mock.Anything, sender.Address, (*big.Int)(nil)).Return(big.NewInt(1e18), nil)
	expectSigning(mockClient, sender)
	chain := &minedChain{status: types.ReceiptStatusFailed}
	chain.expect(mockClient)

	_, err := gc.Submit(context.Background(), sender, testRecipient, big.NewInt(500))
	assert.True(t, IsKind(err, KindSubmissionFailed))
}

func TestSubmit_NodeAccount(t *testing.T) {
	mockClient := &internalmocks.EthClient{}
	gc, _ := testGhostClient(t, mockClient)
	nodeAccount := &Sender{Address: common.HexToAddress("0x00000000000000000000000000000000000000aa")}
	mockClient.On("BalanceAt", mock.Anything, nodeAccount.Address, (*big.Int)(nil)).Return(big.NewInt(1e18), nil)

	hash := common.HexToHash("0xbeef")
	caller := &internalmocks.RPCCaller{}
	caller.On("CallContext", mock.Anything, mock.Anything, "eth_sendTransaction", mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*common.Hash) = hash
	}).Return(nil)
	gc.rpc = caller

	mockClient.On("TransactionReceipt", mock.Anything, hash).Return(&types.Receipt{TxHash: hash, Status: 1, BlockNumber: big.NewInt(1)}, nil)
	mockClient.On("TransactionByHash", mock.Anything, hash).Return(types.NewTx(&types.LegacyTx{To: &testRecipient, Value: big.NewInt(7)}), false, nil)

	receipt, err := gc.Submit(context.Background(), nodeAccount, testRecipient, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, hash, receipt.TxHash)
	mockClient.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
	caller.AssertExpectations(t)
}

func TestClassifyNodeError(t *testing.T) {
	err := classifyNodeError("x", errors.New("Insufficient Funds for gas"))
	assert.Equal(t, KindInsufficientBalance, KindOf(err))

	err = classifyNodeError("x", errors.New("nonce too low"))
	assert.Equal(t, KindSubmissionFailed, KindOf(err))

	typed := newError(KindTimeout, "slow")
	assert.Same(t, typed, classifyNodeError("x", typed))
}
