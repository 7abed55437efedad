package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"
)

const flagKey = "key"

func defaultKeyPath() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".treasury.priv.key")
}

func keysCmd() *cobra.Command {
	var keyPath string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the private key transactions are signed with",
	}
	cmd.PersistentFlags().StringVar(&keyPath, flagKey, defaultKeyPath(), "path to the private key file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "generate",
			Short: "Generate a new private key",
			Long: `Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := generateKey(keyPath)
				if err != nil {
					return err
				}
				return printAddress(cmd.OutOrStdout(), key)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print out the address associated with your private key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := loadKey(keyPath)
				if err != nil {
					return err
				}
				return printAddress(cmd.OutOrStdout(), key)
			},
		},
	)
	return cmd
}

func generateKey(path string) (*crypto.PrivateKey, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return nil, errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", path)
	}

	key := crypto.GenPrivKeyEd25519()
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.GetEd25519()); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot close private key file: %s", err)
	}
	return key, nil
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

func printAddress(out io.Writer, key *crypto.PrivateKey) error {
	addr := key.PublicKey().Address()
	bech, err := addr.Bech32()
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintf(out, "%s\n%s\n", addr, bech)
	return err
}
