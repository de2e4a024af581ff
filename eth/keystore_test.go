package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystore_RoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	blob, err := EncryptKeystore(key, "correct horse", LightScryptN, LightScryptP)
	require.NoError(t, err)

	got, err := DecryptKeystore(blob, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(key), crypto.FromECDSA(got))
}

func TestKeystore_WrongPassword(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	blob, err := EncryptKeystore(key, "correct horse", LightScryptN, LightScryptP)
	require.NoError(t, err)

	_, err = DecryptKeystore(blob, "battery staple")
	assert.Equal(t, KindDecryptionFailed, KindOf(err))
}

func TestKeystore_Corrupt(t *testing.T) {
	for _, blob := range []string{"", "not json", `{"version":3,"crypto":{}}`} {
		_, err := DecryptKeystore([]byte(blob), "pw")
		assert.Equal(t, KindDecryptionFailed, KindOf(err), blob)
	}
}

func TestEncryptKeystore_NilKey(t *testing.T) {
	_, err := EncryptKeystore(nil, "pw", LightScryptN, LightScryptP)
	assert.Equal(t, KindInvalidKey, KindOf(err))
}
