package eth

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"
)

const (
	envRpcURL  = "ETH_RPC_URL"
	envChainID = "ETH_CHAIN_ID"

	// -- gas configuration
	// Recommended settings:
	// Development/Testing:
	//   ETH_GAS_LIMIT_BUFFER_SIMPLE=1.2    # Higher buffers for testing
	//   ETH_GAS_LIMIT_BUFFER_COMPLEX=1.4
	// Production - Ethereum Mainnet:
	//   ETH_GAS_LIMIT_BUFFER_SIMPLE=1.1    # Higher costs, more conservative
	//   ETH_GAS_LIMIT_BUFFER_COMPLEX=1.25
	envGasLimitBufferSimple  = "ETH_GAS_LIMIT_BUFFER_SIMPLE"
	envGasLimitBufferComplex = "ETH_GAS_LIMIT_BUFFER_COMPLEX"

	// -- fee configuration
	// Max fee per gas in wei (default: 500 gwei)
	envMaxFeePerGas = "ETH_MAX_FEE_PER_GAS"
	// Priority fee per gas in wei (network-specific, defaults: 2 gwei for mainnet, 1 gwei for Base, 1.5 gwei for others)
	envPriorityFeeMainnet = "ETH_PRIORITY_FEE_MAINNET"
	envPriorityFeeBase    = "ETH_PRIORITY_FEE_BASE"
	envPriorityFeeDefault = "ETH_PRIORITY_FEE_DEFAULT"

	// -- confirmation polling
	envTransactionTimeout = "ETH_TRANSACTION_TIMEOUT_SECONDS"
	envTransactionTicker  = "ETH_TRANSACTION_TICKER_SECONDS"

	// --- Units and defaults ---
	GWEI = 1000000000 // 1 gwei in wei

	DEFAULT_RPC_URL              = "http://localhost:8545"
	DEFAULT_PRIORITY_FEE_MAINNET = 2 * GWEI       // 2 gwei
	DEFAULT_PRIORITY_FEE_BASE    = 1 * GWEI       // 1 gwei
	DEFAULT_PRIORITY_FEE_OTHER   = 15 * GWEI / 10 // 1.5 gwei
	DEFAULT_MAX_FEE_PER_GAS      = 500 * GWEI     // 500 gwei

	// --- Transaction monitoring defaults ---
	DEFAULT_TRANSACTION_TIMEOUT_SECONDS = 300 // 5 minutes
	DEFAULT_TRANSACTION_TICKER_SECONDS  = 3   // 3 seconds
)

// Config carries connection and fee settings for a GhostClient.
type Config interface {
	RPCURL() string
	// ChainID is the expected chain, 0 accepts whatever the node reports.
	ChainID() int64
	GasLimitBufferSimple() float64
	GasLimitBufferComplex() float64
	MaxFeePerGas() *big.Int
	PriorityFeeMainnet() *big.Int
	PriorityFeeBase() *big.Int
	PriorityFeeDefault() *big.Int
	TransactionTimeout() time.Duration
	TransactionTicker() time.Duration
}

type config struct {
	chainId   int64
	rpcURL    string
	txTimeout time.Duration
	txTicker  time.Duration
}

// ConfigOption overrides a value otherwise read from the environment.
type ConfigOption func(*config)

func WithRPCURL(url string) ConfigOption {
	return func(c *config) { c.rpcURL = url }
}

func WithChainID(id int64) ConfigOption {
	return func(c *config) { c.chainId = id }
}

func WithTransactionTimeout(d time.Duration) ConfigOption {
	return func(c *config) { c.txTimeout = d }
}

func WithTransactionTicker(d time.Duration) ConfigOption {
	return func(c *config) { c.txTicker = d }
}

// NewConfiguration reads ETH_* environment variables and applies opts on top.
func NewConfiguration(opts ...ConfigOption) (Config, error) {
	cfg := &config{rpcURL: os.Getenv(envRpcURL)}

	if chainIDStr := os.Getenv(envChainID); chainIDStr != "" {
		chainId, err := strconv.ParseInt(chainIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envChainID, err)
		}
		if chainId <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive, got %d", envChainID, chainId)
		}
		cfg.chainId = chainId
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.rpcURL == "" {
		cfg.rpcURL = DEFAULT_RPC_URL
	}
	return cfg, nil
}

func (c *config) ChainID() int64 {
	return c.chainId
}

func (c *config) RPCURL() string {
	return c.rpcURL
}

// GasLimitBufferSimple returns the buffer multiplier for simple ETH transfers
func (c *config) GasLimitBufferSimple() float64 {
	return envBuffer(envGasLimitBufferSimple, 1.1)
}

// GasLimitBufferComplex returns the buffer multiplier for complex transactions
func (c *config) GasLimitBufferComplex() float64 {
	return envBuffer(envGasLimitBufferComplex, 1.2)
}

// MaxFeePerGas returns the max fee per gas in wei (default: 500 gwei)
func (c *config) MaxFeePerGas() *big.Int {
	return envWei(envMaxFeePerGas, DEFAULT_MAX_FEE_PER_GAS)
}

// PriorityFeeMainnet returns the fixed priority fee for Ethereum mainnet (default: 2 gwei)
func (c *config) PriorityFeeMainnet() *big.Int {
	return envWei(envPriorityFeeMainnet, DEFAULT_PRIORITY_FEE_MAINNET)
}

// PriorityFeeBase returns the fixed priority fee for Base (default: 1 gwei)
func (c *config) PriorityFeeBase() *big.Int {
	return envWei(envPriorityFeeBase, DEFAULT_PRIORITY_FEE_BASE)
}

// PriorityFeeDefault returns the fixed priority fee for other networks (default: 1.5 gwei)
func (c *config) PriorityFeeDefault() *big.Int {
	return envWei(envPriorityFeeDefault, DEFAULT_PRIORITY_FEE_OTHER)
}

// TransactionTimeout bounds the wait for a mined receipt (default: 5 minutes)
func (c *config) TransactionTimeout() time.Duration {
	if c.txTimeout > 0 {
		return c.txTimeout
	}
	return envSeconds(envTransactionTimeout, DEFAULT_TRANSACTION_TIMEOUT_SECONDS)
}

// TransactionTicker is the receipt polling interval (default: 3 seconds)
func (c *config) TransactionTicker() time.Duration {
	if c.txTicker > 0 {
		return c.txTicker
	}
	return envSeconds(envTransactionTicker, DEFAULT_TRANSACTION_TICKER_SECONDS)
}

func envBuffer(name string, def float64) float64 {
	bufferStr := os.Getenv(name)
	if bufferStr == "" {
		return def
	}

	buffer, err := strconv.ParseFloat(bufferStr, 64)
	if err != nil {
		return def // Fallback to default on parse error
	}

	// Ensure reasonable bounds (0.5 to 3.0)
	if buffer < 0.5 || buffer > 3.0 {
		return def
	}

	return buffer
}

func envWei(name string, def int64) *big.Int {
	feeStr := os.Getenv(name)
	if feeStr == "" {
		return big.NewInt(def)
	}
	fee, ok := new(big.Int).SetString(feeStr, 10)
	if !ok || fee.Sign() < 0 {
		return big.NewInt(def)
	}
	return fee
}

func envSeconds(name string, def int) time.Duration {
	secStr := os.Getenv(name)
	if secStr == "" {
		return time.Duration(def) * time.Second
	}
	sec, err := strconv.Atoi(secStr)
	if err != nil || sec <= 0 {
		return time.Duration(def) * time.Second
	}
	return time.Duration(sec) * time.Second
}
