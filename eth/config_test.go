package eth

import (
	"math/big"
	"testing"
	"time"
)

func TestNewConfiguration_Success(t *testing.T) {
	t.Setenv("ETH_CHAIN_ID", "1234")
	t.Setenv("ETH_RPC_URL", "http://localhost:8545")

	cfg, err := NewConfiguration()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ChainID() != 1234 {
		t.Errorf("expected chain ID 1234, got %d", cfg.ChainID())
	}
	if cfg.RPCURL() != "http://localhost:8545" {
		t.Errorf("expected RPC URL http://localhost:8545, got %s", cfg.RPCURL())
	}
}

func TestNewConfiguration_Defaults(t *testing.T) {
	t.Setenv("ETH_CHAIN_ID", "")
	t.Setenv("ETH_RPC_URL", "")

	cfg, err := NewConfiguration()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ChainID() != 0 {
		t.Errorf("expected no chain ID, got %d", cfg.ChainID())
	}
	if cfg.RPCURL() != DEFAULT_RPC_URL {
		t.Errorf("expected RPC URL %s, got %s", DEFAULT_RPC_URL, cfg.RPCURL())
	}
}

func TestNewConfiguration_InvalidChainID(t *testing.T) {
	for _, v := range []string{"mainnet", "-1", "0"} {
		t.Setenv("ETH_CHAIN_ID", v)
		if _, err := NewConfiguration(); err == nil {
			t.Errorf("expected error for ETH_CHAIN_ID=%q, got nil", v)
		}
	}
}

func TestNewConfiguration_OptionsOverrideEnv(t *testing.T) {
	t.Setenv("ETH_CHAIN_ID", "5")
	t.Setenv("ETH_RPC_URL", "http://env:8545")

	cfg, err := NewConfiguration(WithChainID(1), WithRPCURL("ws://opt:8546"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ChainID() != 1 {
		t.Errorf("expected chain ID 1, got %d", cfg.ChainID())
	}
	if cfg.RPCURL() != "ws://opt:8546" {
		t.Errorf("expected RPC URL ws://opt:8546, got %s", cfg.RPCURL())
	}
}

func TestGasLimitBufferDefaults(t *testing.T) {
	cfg, err := NewConfiguration()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GasLimitBufferSimple() != 1.1 {
		t.Errorf("expected default simple buffer 1.1, got %f", cfg.GasLimitBufferSimple())
	}
	if cfg.GasLimitBufferComplex() != 1.2 {
		t.Errorf("expected default complex buffer 1.2, got %f", cfg.GasLimitBufferComplex())
	}
}

func TestGasLimitBufferFromEnv(t *testing.T) {
	t.Setenv("ETH_GAS_LIMIT_BUFFER_SIMPLE", "1.05")
	t.Setenv("ETH_GAS_LIMIT_BUFFER_COMPLEX", "9") // out of bounds, falls back
	cfg, err := NewConfiguration()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GasLimitBufferSimple() != 1.05 {
		t.Errorf("expected simple buffer 1.05, got %f", cfg.GasLimitBufferSimple())
	}
	if cfg.GasLimitBufferComplex() != 1.2 {
		t.Errorf("expected complex buffer fallback 1.2, got %f", cfg.GasLimitBufferComplex())
	}
}

func TestFeeConfigDefaults(t *testing.T) {
	cfg, err := NewConfiguration()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MaxFeePerGas().Cmp(big.NewInt(500000000000)) != 0 {
		t.Errorf("expected default max fee per gas 500000000000, got %s", cfg.MaxFeePerGas().String())
	}
	if cfg.PriorityFeeMainnet().Cmp(big.NewInt(2000000000)) != 0 {
		t.Errorf("expected default mainnet priority fee 2000000000, got %s", cfg.PriorityFeeMainnet().String())
	}
	if cfg.PriorityFeeBase().Cmp(big.NewInt(1000000000)) != 0 {
		t.Errorf("expected default base priority fee 1000000000, got %s", cfg.PriorityFeeBase().String())
	}
	if cfg.PriorityFeeDefault().Cmp(big.NewInt(1500000000)) != 0 {
		t.Errorf("expected default default priority fee 1500000000, got %s", cfg.PriorityFeeDefault().String())
	}
}

func TestTransactionTimeoutDefaults(t *testing.T) {
	cfg, err := NewConfiguration()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.TransactionTimeout() != 300*time.Second {
		t.Errorf("expected default timeout 300s, got %s", cfg.TransactionTimeout())
	}
	if cfg.TransactionTicker() != 3*time.Second {
		t.Errorf("expected default ticker 3s, got %s", cfg.TransactionTicker())
	}
}

func TestTransactionTimeoutOverrides(t *testing.T) {
	t.Setenv("ETH_TRANSACTION_TIMEOUT_SECONDS", "60")
	cfg, err := NewConfiguration(WithTransactionTicker(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.TransactionTimeout() != time.Minute {
		t.Errorf("expected timeout 1m, got %s", cfg.TransactionTimeout())
	}
	if cfg.TransactionTicker() != 50*time.Millisecond {
		t.Errorf("expected ticker 50ms, got %s", cfg.TransactionTicker())
	}
}
