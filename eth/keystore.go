package eth

import (
	"crypto/ecdsa"
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Scrypt parameters for EncryptKeystore. Light parameters keep fixtures fast;
// the standard ones match what geth writes by default.
const (
	LightScryptN    = keystore.LightScryptN
	LightScryptP    = keystore.LightScryptP
	StandardScryptN = keystore.StandardScryptN
	StandardScryptP = keystore.StandardScryptP
)

// DecryptKeystore opens a Web3 Secret Storage (v3) keystore with password.
// A wrong password, a failed MAC check or a corrupt blob are all reported
// as KindDecryptionFailed.
func DecryptKeystore(blob []byte, password string) (*ecdsa.PrivateKey, error) {
	if !json.Valid(blob) {
		return nil, newError(KindDecryptionFailed, "keystore is not valid JSON")
	}
	key, err := keystore.DecryptKey(blob, password)
	if err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return nil, wrapError(KindDecryptionFailed, "wrong keystore password", err)
		}
		return nil, wrapError(KindDecryptionFailed, "cannot open keystore", errors.Wrap(err, "decrypt v3 keystore"))
	}
	return key.PrivateKey, nil
}

// EncryptKeystore seals key into a v3 keystore blob.
func EncryptKeystore(key *ecdsa.PrivateKey, password string, scryptN, scryptP int) ([]byte, error) {
	if key == nil {
		return nil, newError(KindInvalidKey, "no private key to encrypt")
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate keystore id")
	}
	blob, err := keystore.EncryptKey(&keystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, password, scryptN, scryptP)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt keystore")
	}
	return blob, nil
}
