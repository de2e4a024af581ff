package eth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

type GhostClient interface {
	// ChainID returns the chain the client is connected to
	ChainID() *big.Int

	// Accounts returns the accounts held (unlocked) by the remote node
	Accounts(ctx context.Context) ([]common.Address, error)

	// GetBalance returns the ETH balance of an address
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)

	// SignTransaction fills nonce, gas and fees and signs tx with key
	SignTransaction(ctx context.Context, tx *Transaction, key *ecdsa.PrivateKey) (*types.Transaction, error)

	// SendTransaction sends a signed transaction to the network
	SendTransaction(ctx context.Context, signedTx *types.Transaction) (*TransactionReceipt, error)

	// SendUnsignedTransaction asks the node to sign and send tx with one of its own accounts
	SendUnsignedTransaction(ctx context.Context, tx *Transaction) (*TransactionReceipt, error)

	// WaitForTransaction waits for a transaction to be mined and returns the receipt
	WaitForTransaction(ctx context.Context, hash common.Hash) (*TransactionReceipt, error)

	// GetTransactionReceipt returns the receipt for a transaction if it exists
	GetTransactionReceipt(ctx context.Context, hash common.Hash) (*TransactionReceipt, error)

	// Submit transfers value from sender to to and waits for it to be mined
	Submit(ctx context.Context, sender *Sender, to common.Address, value *big.Int) (*TransactionReceipt, error)

	// Close closes the Ethereum client connection
	Close()
}

// EthClient is the subset of *ethclient.Client the ghost client uses.
type EthClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// RPCCaller issues raw JSON-RPC calls for methods ethclient does not wrap
// (eth_accounts, eth_sendTransaction).
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Ensure *ethclient.Client implements EthClient and *rpc.Client implements RPCCaller
var (
	_ EthClient = (*ethclient.Client)(nil)
	_ RPCCaller = (*rpc.Client)(nil)
)

type ghostClient struct {
	client  EthClient
	rpc     RPCCaller
	closer  func()
	chainId int64
	config  Config
	log     logrus.FieldLogger
}

// NewGhostClient dials cfg.RPCURL() and verifies the chain ID.
func NewGhostClient(ctx context.Context, cfg Config, logger logrus.FieldLogger) (GhostClient, error) {
	if logger == nil {
		logger = NewLogger(false)
	}

	// Log proxy usage if configured
	if os.Getenv("HTTP_PROXY") != "" || os.Getenv("HTTPS_PROXY") != "" {
		logger.WithFields(logrus.Fields{
			"http_proxy":  os.Getenv("HTTP_PROXY"),
			"https_proxy": os.Getenv("HTTPS_PROXY"),
		}).Info("Connecting to Ethereum network via proxy")
	}

	// -- Connect to Ethereum client
	// HTTP_PROXY and HTTPS_PROXY environment variables are automatically used by rpc.DialContext
	logger.WithField("url", cfg.RPCURL()).Info("Connecting to Ethereum RPC")
	rpcClient, err := rpc.DialContext(ctx, cfg.RPCURL())
	if err != nil {
		return nil, wrapError(KindConnection, "failed to connect to Ethereum network", err)
	}

	gc, err := newGhostClient(ctx, ethclient.NewClient(rpcClient), rpcClient, cfg, logger)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}
	gc.closer = rpcClient.Close
	return gc, nil
}

// NewGhostClientWithBackend wraps an existing backend, such as an in-process
// chain. caller may be nil when node-held accounts are not needed.
func NewGhostClientWithBackend(ctx context.Context, backend EthClient, caller RPCCaller, cfg Config, logger logrus.FieldLogger) (GhostClient, error) {
	if logger == nil {
		logger = NewLogger(false)
	}
	return newGhostClient(ctx, backend, caller, cfg, logger)
}

func newGhostClient(ctx context.Context, backend EthClient, caller RPCCaller, cfg Config, logger logrus.FieldLogger) (*ghostClient, error) {
	// -- Verify conection and get chain ID
	logger.Debug("Verifying connection and getting chain ID")
	clientChainId, err := backend.ChainID(ctx)
	if err != nil {
		return nil, wrapError(KindConnection, "failed to get chain ID", err)
	}

	// -- Check if chain ID matches config
	if want := cfg.ChainID(); want != 0 && clientChainId.Int64() != want {
		return nil, newError(KindConnection, fmt.Sprintf("expected chain ID %d, got %d", want, clientChainId.Int64()))
	}

	logger.WithField("chain_id", clientChainId.Int64()).Info("Successfully connected to Ethereum network")

	return &ghostClient{
		client:  backend,
		rpc:     caller,
		chainId: clientChainId.Int64(),
		config:  cfg,
		log:     logger,
	}, nil
}

func (es *ghostClient) ChainID() *big.Int {
	return big.NewInt(es.chainId)
}

// Accounts returns the accounts held (unlocked) by the remote node
func (es *ghostClient) Accounts(ctx context.Context) ([]common.Address, error) {
	if es.rpc == nil {
		return nil, nil
	}
	var accounts []common.Address
	if err := es.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, wrapError(KindConnection, "failed to list node accounts", err)
	}
	return accounts, nil
}

// SendTransaction sends a signed transaction to the network
func (es *ghostClient) SendTransaction(ctx context.Context, signedTx *types.Transaction) (*TransactionReceipt, error) {
	log := es.log.WithField("hash", signedTx.Hash().Hex())
	log.Info("Sending transaction to network")

	// Send the transaction
	err := es.client.SendTransaction(ctx, signedTx)
	if err != nil {
		log.WithError(err).Error("Failed to send transaction")
		return nil, classifyNodeError("failed to send transaction", err)
	}

	log.Info("Transaction sent successfully")

	from, _ := types.Sender(types.LatestSignerForChainID(es.ChainID()), signedTx)

	// Return immediately with transaction hash
	return &TransactionReceipt{
		TxHash: signedTx.Hash(),
		Status: 0, // Pending
		From:   from,
		To:     *signedTx.To(),
	}, nil
}

// SendUnsignedTransaction asks the node to sign and send tx with one of its own accounts
func (es *ghostClient) SendUnsignedTransaction(ctx context.Context, tx *Transaction) (*TransactionReceipt, error) {
	if es.rpc == nil {
		return nil, newError(KindNoDefaultAccount, "connection cannot sign for node-held accounts")
	}
	log := es.log.WithFields(logrus.Fields{"from": tx.From.Hex(), "to": tx.To.Hex()})
	log.Info("Sending transaction for node-side signing")

	to := tx.To
	args := sendTxArgs{
		From:  tx.From,
		To:    &to,
		Value: (*hexutil.Big)(tx.Value),
	}

	var hash common.Hash
	if err := es.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		log.WithError(err).Error("Failed to send transaction")
		return nil, classifyNodeError("failed to send transaction", err)
	}

	log.WithField("hash", hash.Hex()).Info("Transaction sent successfully")

	return &TransactionReceipt{
		TxHash: hash,
		Status: 0, // Pending
		From:   tx.From,
		To:     tx.To,
	}, nil
}

// WaitForTransaction waits for a transaction to be mined and returns the receipt
func (es *ghostClient) WaitForTransaction(ctx context.Context, hash common.Hash) (*TransactionReceipt, error) {
	es.log.WithField("hash", hash.Hex()).Info("Waiting for transaction confirmation")
	return es.waitForTransaction(ctx, hash)
}

// estimateGasAndSetLimit estimates gas for the transaction and sets tx.GasLimit accordingly.
func (es *ghostClient) estimateGasAndSetLimit(ctx context.Context, tx *Transaction) error {
	msg := ethereum.CallMsg{
		From:  tx.From,
		To:    &tx.To,
		Value: tx.Value,
		Data:  tx.Data,
	}

	gasLimit, err := es.client.EstimateGas(ctx, msg)
	if err != nil {
		es.log.WithError(err).Error("Failed to estimate gas")
		return fmt.Errorf("failed to estimate gas: %w", err)
	}

	// Add dynamic buffer based on transaction complexity
	var buffer float64
	if len(tx.Data) == 0 {
		buffer = es.config.GasLimitBufferSimple()
	} else {
		buffer = es.config.GasLimitBufferComplex()
	}
	tx.GasLimit = uint64(float64(gasLimit) * buffer)
	es.log.WithFields(logrus.Fields{
		"estimated":   gasLimit,
		"buffer":      buffer,
		"with_buffer": tx.GasLimit,
	}).Debug("Gas limit calculated")

	// Validate against network gas limit, transaction will get blocked if goes above it
	header, err := es.client.HeaderByNumber(ctx, nil)
	if err == nil && header.GasLimit > 0 {
		maxGas := header.GasLimit * 2 / 3 // Use 2/3 of block gas limit
		if tx.GasLimit > maxGas {
			es.log.WithFields(logrus.Fields{"gas_limit": tx.GasLimit, "max_allowed": maxGas}).Error("Gas limit too high")
			return fmt.Errorf("gas limit %d exceeds maximum allowed %d", tx.GasLimit, maxGas)
		}
	}
	return nil
}

// SignTransaction fills nonce, gas and fees and signs tx with key
func (es *ghostClient) SignTransaction(ctx context.Context, tx *Transaction, key *ecdsa.PrivateKey) (*types.Transaction, error) {
	if key == nil {
		return nil, errors.New("signing key is nil")
	}
	log := es.log.WithFields(logrus.Fields{"from": tx.From.Hex(), "to": tx.To.Hex()})
	log.Info("Starting transaction signing process")

	// Get nonce if not provided
	if tx.Nonce == 0 {
		nonce, err := es.client.PendingNonceAt(ctx, tx.From)
		if err != nil {
			log.WithError(err).Error("Failed to get nonce")
			return nil, fmt.Errorf("failed to get nonce: %w", err)
		}
		tx.Nonce = nonce
		log.WithField("nonce", nonce).Debug("Got nonce")
	}

	// Estimate gas if not provided
	if tx.GasLimit == 0 {
		if err := es.estimateGasAndSetLimit(ctx, tx); err != nil {
			return nil, err
		}
	}

	// Calulate fees based on network conditions
	err := es.calculateOptimalFees(ctx, tx)
	if err != nil {
		log.WithError(err).Error("Failed to calculate fees")
		return nil, fmt.Errorf("failed to calculate fees: %w", err)
	}

	var ethereumTx *types.Transaction

	if tx.MaxFeePerGas != nil && tx.MaxPriorityFeePerGas != nil {
		log.WithFields(logrus.Fields{
			"max_fee_per_gas":          tx.MaxFeePerGas.String(),
			"max_priority_fee_per_gas": tx.MaxPriorityFeePerGas.String(),
		}).Debug("Creating EIP-1559 transaction")
		ethereumTx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   es.ChainID(),
			Nonce:     tx.Nonce,
			GasTipCap: tx.MaxPriorityFeePerGas,
			GasFeeCap: tx.MaxFeePerGas,
			Gas:       tx.GasLimit,
			To:        &tx.To,
			Value:     tx.Value,
			Data:      tx.Data,
		})
	} else if tx.GasPrice != nil {
		log.WithField("gas_price", tx.GasPrice.String()).Debug("Creating legacy transaction")
		ethereumTx = types.NewTx(&types.LegacyTx{
			Nonce:    tx.Nonce,
			GasPrice: tx.GasPrice,
			Gas:      tx.GasLimit,
			To:       &tx.To,
			Value:    tx.Value,
			Data:     tx.Data,
		})
	} else {
		return nil, fmt.Errorf("transaction must specify either EIP-1559 fields (MaxFeePerGas, MaxPriorityFeePerGas) or legacy GasPrice")
	}

	signedTx, err := types.SignTx(ethereumTx, types.LatestSignerForChainID(es.ChainID()), key)
	if err != nil {
		log.WithError(err).Error("Failed to sign transaction")
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	log.WithField("hash", signedTx.Hash().Hex()).Info("Transaction signed successfully")
	return signedTx, nil
}

// calculateOptimalFees calculates optimal gas fees based on network conditions
func (es *ghostClient) calculateOptimalFees(ctx context.Context, tx *Transaction) error {
	// Get latest header for base fee
	header, err := es.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to get latest header: %w", err)
	}

	if header.BaseFee != nil && (tx.MaxFeePerGas == nil || tx.MaxPriorityFeePerGas == nil) {
		// EIP-1559 network, use fixed priority fee based on network
		tx.MaxPriorityFeePerGas = es.getFixedPriorityFee()

		// Calculate max fee with room for base fee increases
		maxFee := new(big.Int).Mul(header.BaseFee, big.NewInt(2)) // 2x base fee
		maxFee.Add(maxFee, tx.MaxPriorityFeePerGas)
		tx.MaxFeePerGas = maxFee
	} else if tx.GasPrice == nil && tx.MaxFeePerGas == nil {
		// Legacy network - use gas price
		gasPrice, err := es.client.SuggestGasPrice(ctx)
		if err != nil {
			return fmt.Errorf("failed to get gas price: %w", err)
		}
		tx.GasPrice = gasPrice
	}

	// Basic validation
	return es.validateFees(tx)
}

// getFixedPriorityFee returns a fixed priority fee based on the network
func (es *ghostClient) getFixedPriorityFee() *big.Int {
	switch es.chainId {
	case 1: // Ethereum mainnet
		return es.config.PriorityFeeMainnet()
	case 8453: // Base
		return es.config.PriorityFeeBase()
	default:
		return es.config.PriorityFeeDefault()
	}
}

// validateFees does basic fee validation
func (es *ghostClient) validateFees(tx *Transaction) error {
	fee := tx.MaxFeePerGas
	if fee == nil {
		fee = tx.GasPrice
	}
	if fee == nil {
		return nil
	}

	// Check if max fee is reasonable (prevent overpayment)
	maxAllowed := es.config.MaxFeePerGas()
	if fee.Cmp(maxAllowed) > 0 {
		return fmt.Errorf("max fee too high: %s wei", fee.String())
	}

	return nil
}

// GetBalance returns the ETH balance of an address
func (es *ghostClient) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := es.client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, wrapError(KindConnection, "failed to get balance", err)
	}

	return balance, nil
}

// waitForTransaction polls for the receipt until it is mined, the configured
// timeout elapses or ctx is done.
func (es *ghostClient) waitForTransaction(ctx context.Context, hash common.Hash) (*TransactionReceipt, error) {
	timeout := es.config.TransactionTimeout()
	ticker := time.NewTicker(es.config.TransactionTicker())
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		receipt, err := es.GetTransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			es.log.WithError(err).WithField("hash", hash.Hex()).Debug("Receipt lookup failed, retrying")
		}

		select {
		case <-ctx.Done():
			return nil, timeoutError(hash, ctx.Err())
		case <-timeoutChan:
			return nil, timeoutError(hash, fmt.Errorf("no receipt after %s", timeout))
		case <-ticker.C:
		}
	}
}

// GetTransactionReceipt returns the receipt for a transaction if it exists
func (es *ghostClient) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*TransactionReceipt, error) {
	receipt, err := es.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("transaction not found or pending: %w", err)
	}

	// Get the transaction to find the From and To addresses
	tx, _, err := es.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	result := &TransactionReceipt{
		TxHash:  receipt.TxHash,
		Status:  receipt.Status,
		GasUsed: receipt.GasUsed,
		Logs:    receipt.Logs,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if tx.To() != nil {
		result.To = *tx.To()
	}
	if from, err := types.Sender(types.LatestSignerForChainID(es.ChainID()), tx); err == nil {
		result.From = from
	}
	return result, nil
}

// Close closes the Ethereum client connection
func (es *ghostClient) Close() {
	if es.closer != nil {
		es.closer()
		es.closer = nil
	}
}

func timeoutError(hash common.Hash, cause error) error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("transaction %s not confirmed, broadcast may have succeeded; re-check by hash before resubmitting", hash.Hex()),
		Hash:    hash.Hex(),
		Cause:   cause,
	}
}
