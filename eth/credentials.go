package eth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Mode says which credential input a sender is resolved from.
type Mode int

const (
	ModeDefault  Mode = iota // account held by the node
	ModeKey                  // raw private key
	ModeKeystore             // encrypted v3 keystore + password
	ModeMnemonic             // mnemonic phrase + account index
)

func (m Mode) String() string {
	switch m {
	case ModeKey:
		return "key"
	case ModeKeystore:
		return "keystore"
	case ModeMnemonic:
		return "mnemonic"
	default:
		return "default"
	}
}

// Credentials identifies the sending account. At most one of Key, Keystore
// and Mnemonic may be set; with none set the node's default account is used,
// optionally pinned with From.
type Credentials struct {
	Key           string // hex private key, with or without 0x
	Keystore      []byte // v3 keystore JSON, nil when unset
	Password      string
	Mnemonic      string
	MnemonicIndex uint32
	From          string
}

// Mode validates the credential shape and returns the single active mode.
func (c Credentials) Mode() (Mode, error) {
	var set []string
	mode := ModeDefault
	if strings.TrimSpace(c.Key) != "" {
		set = append(set, "key")
		mode = ModeKey
	}
	// an empty but present keystore is still a keystore and fails to decrypt
	if c.Keystore != nil {
		set = append(set, "keystore")
		mode = ModeKeystore
	}
	if strings.TrimSpace(c.Mnemonic) != "" {
		set = append(set, "mnemonic")
		mode = ModeMnemonic
	}
	if c.From != "" && len(set) > 0 {
		set = append(set, "from")
	}

	if len(set) > 1 {
		return ModeDefault, newError(KindAmbiguousCredentials,
			fmt.Sprintf("only one of key, keystore, mnemonic or from may be given, got %s", strings.Join(set, ", ")))
	}
	if c.Password != "" && mode != ModeKeystore {
		return ModeDefault, newError(KindAmbiguousCredentials, "password given without a keystore")
	}
	if c.MnemonicIndex != 0 && mode != ModeMnemonic {
		return ModeDefault, newError(KindAmbiguousCredentials, "mnemonic index given without a mnemonic")
	}
	return mode, nil
}

// DefaultAccountSource lists the accounts a connection can sign for.
type DefaultAccountSource interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}

// ResolveSender turns credentials into a sender identity. accounts is only
// consulted in ModeDefault and may be nil otherwise.
func ResolveSender(ctx context.Context, creds Credentials, accounts DefaultAccountSource) (*Sender, error) {
	mode, err := creds.Mode()
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeKey:
		return senderFromHexKey(creds.Key)
	case ModeKeystore:
		key, err := DecryptKeystore(creds.Keystore, creds.Password)
		if err != nil {
			return nil, err
		}
		return senderFromKey(key), nil
	case ModeMnemonic:
		key, err := DeriveKey(creds.Mnemonic, creds.MnemonicIndex)
		if err != nil {
			return nil, err
		}
		return senderFromKey(key), nil
	default:
		return defaultSender(ctx, creds.From, accounts)
	}
}

func senderFromHexKey(hexKey string) (*Sender, error) {
	hexKey = strings.TrimSpace(hexKey)
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		// the key itself is never echoed back
		return nil, wrapError(KindInvalidKey, "malformed private key", err)
	}
	return senderFromKey(key), nil
}

func senderFromKey(key *ecdsa.PrivateKey) *Sender {
	return &Sender{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}
}

func defaultSender(ctx context.Context, from string, source DefaultAccountSource) (*Sender, error) {
	if source == nil {
		return nil, newError(KindNoDefaultAccount, "connection does not expose node accounts")
	}
	accounts, err := source.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, newError(KindNoDefaultAccount, "connection has no default account")
	}
	if from == "" {
		return &Sender{Address: accounts[0]}, nil
	}

	if !common.IsHexAddress(from) {
		return nil, newError(KindInvalidAddress, fmt.Sprintf("from %q is not an address", from))
	}
	want := common.HexToAddress(from)
	for _, account := range accounts {
		if account == want {
			return &Sender{Address: account}, nil
		}
	}
	return nil, newError(KindNoDefaultAccount, fmt.Sprintf("connection does not hold account %s", want.Hex()))
}
