package bech32

import (
	"bytes"
	"testing"

	"github.com/iov-one/treasury/errors"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte("0123456789abcdefghij")
	enc, err := Encode("tiov", payload)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	hrp, got, err := Decode(enc)
	if err != nil {
		t.Fatalf("cannot decode: %s", err)
	}
	if hrp != "tiov" {
		t.Fatalf("unexpected hrp: %q", hrp)
	}
	if !bytes.Equal(payload, got) {
		t.Fatalf("want %X, got %X", payload, got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, _, err := Decode("tiov1qqqqqqq"); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
