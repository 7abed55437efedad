package server

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupHome creates a home directory holding a genesis file, as created by
// `tendermint init`.
func setupHome(t *testing.T, genesis string) (string, func()) {
	t.Helper()

	home, err := ioutil.TempDir("", "treasury-cmd")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	genFile := filepath.Join(home, "config", "genesis.json")
	require.NoError(t, ioutil.WriteFile(genFile, []byte(genesis), 0644))
	return home, func() { os.RemoveAll(home) }
}

func readGenesis(t *testing.T, home string) GenesisDoc {
	t.Helper()

	bz, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	return doc
}

func genNotes(args []string) (json.RawMessage, error) {
	if len(args) > 0 && args[0] == "fail" {
		return nil, errors.Wrap(errors.ErrInput, "cannot generate")
	}
	return json.RawMessage(`{"notes": {"count": 3}}`), nil
}

func TestInit(t *testing.T) {
	cases := map[string]struct {
		chainID     string
		args        []string
		wantErr     *errors.Error
		wantChainID string
	}{
		"keep chain id": {
			wantChainID: `"test-chain-LgVOZ0"`,
		},
		"replace chain id": {
			chainID:     "treasury-1",
			wantChainID: `"treasury-1"`,
		},
		"generator failure": {
			args:    []string{"fail"},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			home, cleanup := setupHome(t, `{"chain_id": "test-chain-LgVOZ0", "validators": [{"power": "10"}]}`)
			defer cleanup()

			err := InitCmd(genNotes, log.NewNopLogger(), home, tc.chainID, tc.args)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				assert.Empty(t, readGenesis(t, home)[appStateKey])
				return
			}
			require.NoError(t, err)

			doc := readGenesis(t, home)
			// keep old values, and add our values
			assert.JSONEq(t, tc.wantChainID, string(doc["chain_id"]))
			assert.NotEmpty(t, doc["validators"])
			assert.JSONEq(t, `{"notes": {"count": 3}}`, string(doc[appStateKey]))
		})
	}
}

func TestInitWithoutGenesisFile(t *testing.T) {
	home, err := ioutil.TempDir("", "treasury-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	err = InitCmd(genNotes, log.NewNopLogger(), home, "", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

type notesInitializer struct {
	max int
}

func (n notesInitializer) FromGenesis(opts treasury.Options, db treasury.KVStore) error {
	var notes struct {
		Count int `json:"count"`
	}
	if err := opts.ReadOptions("notes", &notes); err != nil {
		return err
	}
	if notes.Count > n.max {
		return errors.Wrapf(errors.ErrInput, "too many notes: %d", notes.Count)
	}
	return db.Set([]byte("notes"), []byte{byte(notes.Count)})
}

func TestValidateGenesis(t *testing.T) {
	build := func(max int) InitializerFromGenesis {
		return func(opts treasury.Options) (treasury.Initializer, error) {
			if _, ok := opts["notes"]; !ok {
				return nil, errors.Wrap(errors.ErrEmpty, "notes")
			}
			return notesInitializer{max: max}, nil
		}
	}

	cases := map[string]struct {
		genesis string
		max     int
		wantErr *errors.Error
	}{
		"valid": {
			genesis: `{"chain_id": "test-chain", "app_state": {"notes": {"count": 3}}}`,
			max:     5,
		},
		"initializer rejects state": {
			genesis: `{"chain_id": "test-chain", "app_state": {"notes": {"count": 7}}}`,
			max:     5,
			wantErr: errors.ErrInput,
		},
		"cannot configure": {
			genesis: `{"chain_id": "test-chain", "app_state": {}}`,
			max:     5,
			wantErr: errors.ErrEmpty,
		},
		"invalid chain id": {
			genesis: `{"chain_id": "x", "app_state": {"notes": {"count": 1}}}`,
			max:     5,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			home, cleanup := setupHome(t, tc.genesis)
			defer cleanup()

			path := filepath.Join(home, "config", "genesis.json")
			err := ValidateGenesis(build(tc.max), []string{path})
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}

	assert.True(t, errors.ErrInput.Is(ValidateGenesis(build(1), nil)))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "notes_total", Help: "Notes."})
	require.NoError(t, reg.Register(c))
	c.Add(3)

	srv := httptest.NewServer(metricsHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "notes_total 3")

	resp, err = http.Get(srv.URL + "/other")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
