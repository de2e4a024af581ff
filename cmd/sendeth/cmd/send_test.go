package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nando-os/ghost-send/eth"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsFromFlags_Keystore(t *testing.T) {
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":3}`), 0o600))

	viper.Set("keystore", path)
	viper.Set("password", "pw")
	creds, err := credentialsFromFlags()
	require.NoError(t, err)

	mode, err := creds.Mode()
	require.NoError(t, err)
	assert.Equal(t, eth.ModeKeystore, mode)
	assert.Equal(t, []byte(`{"version":3}`), creds.Keystore)
	assert.Equal(t, "pw", creds.Password)
}

func TestCredentialsFromFlags_MissingKeystore(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("keystore", filepath.Join(t.TempDir(), "missing.json"))
	_, err := credentialsFromFlags()
	assert.Error(t, err)
}

func TestCredentialsFromFlags_Env(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	t.Setenv("SENDETH_MNEMONIC", "shantay you stay")
	t.Setenv("SENDETH_INDEX", "3")

	creds, err := credentialsFromFlags()
	require.NoError(t, err)
	assert.Equal(t, "shantay you stay", creds.Mnemonic)
	assert.Equal(t, uint32(3), creds.MnemonicIndex)
}

func TestNewConfig_Flags(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("rpc", "http://node:8545")
	viper.Set("chain-id", int64(1337))

	cfg, err := newConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://node:8545", cfg.RPCURL())
	assert.Equal(t, int64(1337), cfg.ChainID())
}

func TestNewLogger_BadLevel(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("log-level", "loud")
	_, err := newLogger()
	assert.Error(t, err)
}

func TestRequireFlags(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	err := requireFlags("to", "amount")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to, --amount")

	t.Setenv("SENDETH_TO", "0x0000000000000000000000000000000000000002")
	viper.Set("amount", "1")
	assert.NoError(t, requireFlags("to", "amount"))
}

func TestCredentialsFromFlags_EmptyKeystore(t *testing.T) {
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	viper.Set("keystore", path)
	viper.Set("password", "pw")
	creds, err := credentialsFromFlags()
	require.NoError(t, err)

	_, err = eth.ResolveSender(context.Background(), creds, nil)
	assert.Equal(t, eth.KindDecryptionFailed, eth.KindOf(err))
}
