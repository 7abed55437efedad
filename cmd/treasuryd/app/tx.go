package treasuryd

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/multisig"
	"github.com/iov-one/treasury/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterAmino(cdc)
}

// RegisterAmino registers all messages the application can route, so they
// can be carried by a Tx.
func RegisterAmino(cdc *amino.Codec) {
	cdc.RegisterInterface((*treasury.Msg)(nil), nil)
	cdc.RegisterConcrete(&multisig.ProposeTransferMsg{}, "multisig/ProposeTransferMsg", nil)
	cdc.RegisterConcrete(&multisig.ApproveMsg{}, "multisig/ApproveMsg", nil)
	cdc.RegisterConcrete(&multisig.ExecuteMsg{}, "multisig/ExecuteMsg", nil)
	cdc.RegisterConcrete(&cash.SendMsg{}, "cash/SendMsg", nil)
}

// Tx is the transaction format of the application: a single message signed
// by any number of keys.
type Tx struct {
	Msg        treasury.Msg         `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ treasury.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)
var _ treasury.Persistent = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (treasury.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg treasury.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the message carried by this transaction.
func (tx *Tx) GetMsg() (treasury.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction carries no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures of this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// Unmarshal loads the transaction from its serialized form.
func (tx *Tx) Unmarshal(bz []byte) error {
	if len(bz) == 0 {
		return errors.Wrap(errors.ErrInput, "empty transaction")
	}
	if err := cdc.UnmarshalBinaryBare(bz, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Sign appends a signature of given signer, using the nonce it must carry.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, nonce int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, nonce)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
