package crypto

import (
	"github.com/iov-one/treasury"
	amino "github.com/tendermint/go-amino"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

var cdc = amino.NewCodec()

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() treasury.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey holds the raw bytes of an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// PrivateKey holds the raw bytes of an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Signature holds the raw bytes of an ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

// GetEd25519 returns the key bytes or nil.
func (p *PublicKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// GetEd25519 returns the key bytes or nil.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// GetEd25519 returns the signature bytes or nil.
func (s *Signature) GetEd25519() []byte {
	if s == nil {
		return nil
	}
	return s.Ed25519
}

// Marshal serializes the public key.
func (p *PublicKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal reads a public key serialized with Marshal.
func (p *PublicKey) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// Marshal serializes the private key.
func (p *PrivateKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal reads a private key serialized with Marshal.
func (p *PrivateKey) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// Marshal serializes the signature.
func (s *Signature) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal reads a signature serialized with Marshal.
func (s *Signature) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}
