package eth

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// DerivationPathFmt is the BIP-44 path for Ethereum account index i.
const DerivationPathFmt = "m/44'/60'/0'/0/%d"

// DeriveKey derives the private key for account index from a mnemonic.
//
// The phrase is whitespace-normalised and turned into a seed the BIP-39 way
// (PBKDF2, empty passphrase) without enforcing the word list checksum, so
// any phrase maps to a key. The same phrase and index always give the same key.
// index must be below 2^31; the last path segment is never hardened.
func DeriveKey(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	phrase := strings.Join(strings.Fields(mnemonic), " ")
	if phrase == "" {
		return nil, newError(KindInvalidMnemonic, "mnemonic is empty")
	}
	if index >= bip32.FirstHardenedChild {
		return nil, newError(KindInvalidMnemonic,
			fmt.Sprintf("account index %d out of range, must be below %d", index, uint32(bip32.FirstHardenedChild)))
	}

	seed := bip39.NewSeed(phrase, "")
	defer clear(seed)

	path, err := accounts.ParseDerivationPath(fmt.Sprintf(DerivationPathFmt, index))
	if err != nil {
		return nil, wrapError(KindInvalidMnemonic, "bad derivation path", err)
	}

	key, err := deriveChildKey(seed, path)
	if err != nil {
		return nil, wrapError(KindInvalidMnemonic, "cannot derive key from mnemonic", err)
	}
	defer clear(key)

	priv, err := crypto.ToECDSA(common.LeftPadBytes(key, 32))
	if err != nil {
		return nil, wrapError(KindInvalidMnemonic, "derived key is not a valid secp256k1 key", err)
	}
	return priv, nil
}

// MnemonicAddress returns the checksummed address for account index.
func MnemonicAddress(mnemonic string, index uint32) (string, error) {
	key, err := DeriveKey(mnemonic, index)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

func deriveChildKey(seed []byte, path accounts.DerivationPath) ([]byte, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	key := master
	for _, index := range path {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}
	return key.Key, nil
}
