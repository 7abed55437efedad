package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCause(t *testing.T) {
	diskErr := stdlib.New("disk unavailable")

	cases := map[string]struct {
		err  error
		root error
	}{
		"registered error is its own cause": {err: ErrNotFound, root: ErrNotFound},
		"wrapping keeps the cause":          {err: Wrapf(ErrNotFound, "proposal %d", 4), root: ErrNotFound},
		"stdlib error as cause":             {err: Wrap(diskErr, "cannot save proposal"), root: diskErr},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.root, errors.Cause(tc.err))
		})
	}
}

func TestErrorIs(t *testing.T) {
	approval := Wrap(Wrapf(ErrUnauthorized, "signer %d", 3), "approve")

	cases := map[string]struct {
		kind *Error
		err  error
		want bool
	}{
		"same kind":              {kind: ErrNotFound, err: ErrNotFound, want: true},
		"other kind":             {kind: ErrNotFound, err: ErrModel},
		"wrapped by pkg/errors":  {kind: ErrNotFound, err: errors.Wrap(ErrNotFound, "gone"), want: true},
		"wrapped twice":          {kind: ErrUnauthorized, err: approval, want: true},
		"wrapped other kind":     {kind: ErrNotFound, err: errors.Wrap(ErrOverflow, "too big")},
		"stdlib error":           {kind: ErrNotFound, err: fmt.Errorf("stdlib error")},
		"wrapped stdlib error":   {kind: ErrNotFound, err: errors.Wrap(fmt.Errorf("stdlib error"), "wrapped")},
		"nil kind and nil error": {kind: nil, err: nil, want: true},
		"nil kind and typed nil": {kind: nil, err: (*customError)(nil), want: true},
		"nil kind and an error":  {kind: nil, err: ErrNotFound},
		"kind and nil error":     {kind: ErrNotFound, err: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Is(tc.err))
		})
	}
}

type customError struct {
}

func (customError) Error() string {
	return "custom error"
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrapf(Wrap(ErrDuplicate, "approval"), "proposal %d", 7)
	if got, want := err.Error(), "proposal 7: approval: duplicate"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if !strings.Contains(fmt.Sprintf("%+v", err), "errors_test.go") {
		t.Fatalf("stack trace not printed: %+v", err)
	}
}

func TestRegisterDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrNotFound.code, "again")
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}
