package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestCompareCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		wantRes int
	}{
		"a greater than b": {
			a:       NewCoin(20, 1234, "IOV"),
			b:       NewCoin(19, 999999999, "IOV"),
			wantRes: 1,
		},
		"a smaller than b": {
			a:       NewCoin(0, -2, "IOV"),
			b:       NewCoin(0, 1, "IOV"),
			wantRes: -1,
		},
		"both negative": {
			a:       NewCoin(-4, -2456, "ETH"),
			b:       NewCoin(-4, -4567, "ETH"),
			wantRes: 1,
		},
		"zero value coins": {
			a:       Coin{},
			b:       Coin{},
			wantRes: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantRes, tc.a.Compare(tc.b))
		})
	}
}

func TestCoinNegative(t *testing.T) {
	a := NewCoin(456, 985, "IOV")
	n := a.Negative()

	assert.Equal(t, a.Ticker, n.Ticker)
	assert.Equal(t, a.Whole, -n.Whole)
	assert.Equal(t, a.Fractional, -n.Fractional)

	if nn := n.Negative(); !a.Equals(nn) {
		t.Fatal("double negation malformed the coin")
	}
}

func TestCoinSigns(t *testing.T) {
	cases := map[string]struct {
		coin        Coin
		zero        bool
		positive    bool
		nonNegative bool
	}{
		"zero": {
			coin:        NewCoin(0, 0, "IOV"),
			zero:        true,
			nonNegative: true,
		},
		"fractional only": {
			coin:        NewCoin(0, 1, "IOV"),
			positive:    true,
			nonNegative: true,
		},
		"whole": {
			coin:        NewCoin(10, 0, "IOV"),
			positive:    true,
			nonNegative: true,
		},
		"negative fractional": {
			coin: NewCoin(0, -1, "IOV"),
		},
		"negative whole": {
			coin: NewCoin(-3, 0, "IOV"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.zero, tc.coin.IsZero())
			assert.Equal(t, tc.positive, tc.coin.IsPositive())
			assert.Equal(t, tc.nonNegative, tc.coin.IsNonNegative())
		})
	}
}

func TestCoinValidationAndNormalization(t *testing.T) {
	cases := map[string]struct {
		coin                 Coin
		wantValErr           *errors.Error
		wantNormalized       Coin
		wantNormalizationErr *errors.Error
	}{
		"valid coin with a negative fractional": {
			coin:           NewCoin(0, -100, "IOV"),
			wantNormalized: NewCoin(0, -100, "IOV"),
		},
		"integer and fraction with different sign": {
			coin:           NewCoin(4, -123456789, "IOV"),
			wantValErr:     errors.ErrState,
			wantNormalized: NewCoin(3, 876543211, "IOV"),
		},
		"invalid ticker": {
			coin:           NewCoin(1, 2, "iov2"),
			wantValErr:     errors.ErrCurrency,
			wantNormalized: NewCoin(1, 2, "iov2"),
		},
		"fractional overflow rolls into whole": {
			coin:           NewCoin(2, -1500500500, "IOV"),
			wantValErr:     errors.ErrOverflow,
			wantNormalized: NewCoin(0, 499499500, "IOV"),
		},
		"from negative to positive rollover": {
			coin:           NewCoin(-1, 1777888111, "IOV"),
			wantValErr:     errors.ErrOverflow,
			wantNormalized: NewCoin(0, 777888111, "IOV"),
		},
		"overflow": {
			coin:                 NewCoin(MaxInt, FracUnit+4, "IOV"),
			wantValErr:           errors.ErrOverflow,
			wantNormalizationErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coin.Validate(); !tc.wantValErr.Is(err) {
				t.Fatalf("unexpected coin validation error: %s", err)
			}

			normalized, err := tc.coin.normalize()
			if !tc.wantNormalizationErr.Is(err) {
				t.Fatalf("unexpected normalization error: %s", err)
			}
			if tc.wantNormalizationErr != nil {
				return
			}
			if !tc.wantNormalized.Equals(normalized) {
				t.Fatalf("unexpected normalized coin value: %#v", normalized)
			}
		})
	}
}

func TestAddCoin(t *testing.T) {
	base := NewCoin(17, 2345566, "IOV")
	cases := map[string]struct {
		a, b    Coin
		wantRes Coin
		wantErr *errors.Error
	}{
		"plus and minus equals 0": {
			a:       base,
			b:       base.Negative(),
			wantRes: NewCoin(0, 0, "IOV"),
		},
		"wrong types": {
			a:       NewCoin(1, 2, "IOV"),
			b:       NewCoin(2, 3, "ETH"),
			wantErr: errors.ErrCurrency,
		},
		"normal math": {
			a:       NewCoin(7, 5000, "IOV"),
			b:       NewCoin(-4, -12000, "IOV"),
			wantRes: NewCoin(2, 999993000, "IOV"),
		},
		"overflow": {
			a:       NewCoin(500500500123456, 0, "IOV"),
			b:       NewCoin(500500500123456, 0, "IOV"),
			wantErr: errors.ErrOverflow,
		},
		"adding to zero coin": {
			a:       Coin{},
			b:       NewCoin(1, 0, "IOV"),
			wantRes: NewCoin(1, 0, "IOV"),
		},
		"adding a non zero coin without a ticker": {
			a:       NewCoin(1, 0, "IOV"),
			b:       NewCoin(1, 0, ""),
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %v", err)
			}
			if tc.wantErr == nil && !tc.wantRes.Equals(res) {
				t.Fatalf("unexpected result: %v", res)
			}
		})
	}
}

func TestCoinSubtractAndGTE(t *testing.T) {
	balance := NewCoin(10, 0, "IOV")

	rest, err := balance.Subtract(NewCoin(3, 500000000, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, NewCoin(6, 500000000, "IOV"), rest)

	assert.Equal(t, true, balance.IsGTE(NewCoin(10, 0, "IOV")))
	assert.Equal(t, false, balance.IsGTE(NewCoin(10, 1, "IOV")))
	assert.Equal(t, false, balance.IsGTE(NewCoin(1, 0, "ETH")))
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantErr  *errors.Error
		wantCoin Coin
	}{
		"whole without fractional": {
			raw:      "100 IOV",
			wantCoin: NewCoin(100, 0, "IOV"),
		},
		"no space": {
			raw:      "1IOV",
			wantCoin: NewCoin(1, 0, "IOV"),
		},
		"whole and fractional": {
			raw:      "1.000000002 IOV",
			wantCoin: NewCoin(1, 2, "IOV"),
		},
		"short fractional": {
			raw:      "0.5 ETH",
			wantCoin: NewCoin(0, 500000000, "ETH"),
		},
		"negative": {
			raw:      "-4.000000002 IOV",
			wantCoin: NewCoin(-4, -2, "IOV"),
		},
		"too many fractional digits": {
			raw:     "1.0000000001 IOV",
			wantErr: errors.ErrInput,
		},
		"missing whole": {
			raw:     ".5 IOV",
			wantErr: errors.ErrInput,
		},
		"missing ticker": {
			raw:     "1",
			wantErr: errors.ErrInput,
		},
		"ticker too long": {
			raw:     "1 ABCDE",
			wantErr: errors.ErrInput,
		},
		"double negative": {
			raw:     "--1 IOV",
			wantErr: errors.ErrInput,
		},
		"whole overflow": {
			raw:     "1000000000000000 IOV",
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && !tc.wantCoin.Equals(got) {
				t.Fatalf("unexpected coin: %#v", got)
			}
		})
	}
}

func TestCoinJSON(t *testing.T) {
	cases := map[string]struct {
		serialized string
		wantErr    bool
		wantCoin   Coin
	}{
		"object format": {
			serialized: `{"whole": 1, "fractional": 2, "ticker": "IOV"}`,
			wantCoin:   NewCoin(1, 2, "IOV"),
		},
		"empty object": {
			serialized: `{}`,
			wantCoin:   Coin{},
		},
		"human readable format": {
			serialized: `"12.5 IOV"`,
			wantCoin:   NewCoin(12, 500000000, "IOV"),
		},
		"invalid human readable format": {
			serialized: `"IOV"`,
			wantErr:    true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Coin
			err := json.Unmarshal([]byte(tc.serialized), &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			assert.Nil(t, err)
			if !tc.wantCoin.Equals(got) {
				t.Fatalf("unexpected coin result: %#v", got)
			}

			raw, err := json.Marshal(got)
			assert.Nil(t, err)
			var back Coin
			assert.Nil(t, json.Unmarshal(raw, &back))
			assert.Equal(t, got, back)
		})
	}
}

func TestCoinString(t *testing.T) {
	cases := map[string]struct {
		c    Coin
		want string
	}{
		"zero coin": {
			c:    Coin{},
			want: "0",
		},
		"zero coin with a ticker": {
			c:    Coin{Ticker: "IOV"},
			want: "0 IOV",
		},
		"fifty IOV": {
			c:    NewCoin(50, 0, "IOV"),
			want: "50 IOV",
		},
		"minus one IOV": {
			c:    NewCoin(-1, 0, "IOV"),
			want: "-1 IOV",
		},
		"a penny": {
			c:    NewCoin(0, FracUnit/100, "IOV"),
			want: "0.01 IOV",
		},
		"minus a penny": {
			c:    NewCoin(0, -FracUnit/100, "IOV"),
			want: "-0.01 IOV",
		},
		"biggest coin": {
			c:    NewCoin(MaxInt, MaxFrac, "IOV"),
			want: "999999999999999.999999999 IOV",
		},
		"not normalized": {
			c:    NewCoin(2, 102300000000, "IOV"),
			want: "104.3 IOV",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.c.String(); got != tc.want {
				t.Fatalf("unexpected string representation: %q", got)
			}
		})
	}
}
