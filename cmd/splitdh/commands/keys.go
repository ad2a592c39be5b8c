package commands

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/f3rmion/splitdh/internal/keystore"
	"github.com/f3rmion/splitdh/log"
	"github.com/f3rmion/splitdh/session"
	"github.com/f3rmion/splitdh/splitkey"
)

func keygenCmd(e *env) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a split key and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := e.cfg.Group()
			if err != nil {
				return err
			}
			p, err := session.NewPartyWithLogger(g, log.FromContextOrNop(cmd.Context()))
			if err != nil {
				return err
			}
			public, err := p.Generate(rand.Reader)
			if err != nil {
				return err
			}
			store, err := e.keys()
			if err != nil {
				return err
			}
			defer e.closeStore()
			if err := store.SaveKey(name, g.Params().Name, p.Key()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "public:  %s\n", mustHex(public))
			fmt.Fprintf(out, "stored:  %s\n", store.Location(name))
			if fs, ok := store.(*keystore.FileStore); ok {
				fmt.Fprintf(out, "share:   %s\n", fs.PublicPath(name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "default", "key name")
	return cmd
}

func sharedCmd(e *env) *cobra.Command {
	var (
		name     string
		peerHex  string
		peerName string
	)

	cmd := &cobra.Command{
		Use:   "shared",
		Short: "Compute the shared key with a peer's public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer e.closeStore()
			p, curve, err := loadParty(cmd, e, name)
			if err != nil {
				return err
			}

			var peer *big.Int
			switch {
			case peerHex != "" && peerName != "":
				return errors.New("use only one of --peer and --peer-name")
			case peerHex != "":
				if peer, err = keystore.ParseHex(peerHex); err != nil {
					return fmt.Errorf("invalid peer key: %w", err)
				}
			case peerName != "":
				peerCurve, public, err := e.store.LoadPublic(peerName)
				if err != nil {
					return err
				}
				if peerCurve != curve {
					return fmt.Errorf("peer key is on %s, ours is on %s", peerCurve, curve)
				}
				peer = public
			default:
				return errors.New("missing peer key: use --peer or --peer-name")
			}

			shared, err := p.SharedKey(peer)
			if err != nil {
				return err
			}

			h, err := e.cfg.KeyHasher()
			if err != nil {
				return err
			}
			kdf, err := splitkey.NewWithHasher(p.Protocol().Group(), h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shared:  %s\n", mustHex(shared))
			fmt.Fprintf(out, "derived: %s\n", hex.EncodeToString(kdf.DeriveKey(shared, []byte(e.cfg.Info))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "default", "own key name")
	cmd.Flags().StringVar(&peerHex, "peer", "", "peer public key as hex")
	cmd.Flags().StringVar(&peerName, "peer-name", "", "name of a stored peer public key")
	return cmd
}

func ratchetCmd(e *env) *cobra.Command {
	var (
		name  string
		steps int
	)

	cmd := &cobra.Command{
		Use:   "ratchet",
		Short: "Re-randomize the split of a stored key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("steps must be positive, got %d", steps)
			}
			defer e.closeStore()
			p, curve, err := loadParty(cmd, e, name)
			if err != nil {
				return err
			}
			for i := 0; i < steps; i++ {
				if err := p.Ratchet(rand.Reader); err != nil {
					return err
				}
			}
			if err := e.store.SaveKey(name, curve, p.Key()); err != nil {
				return err
			}

			public, err := p.PublicKey()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ratcheted %s %d times, public key %s\n", name, steps, mustHex(public))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "default", "key name")
	cmd.Flags().IntVarP(&steps, "steps", "s", 1, "number of ratchet steps")
	return cmd
}

// loadParty restores the stored key name into a party on the key's own
// curve.
func loadParty(cmd *cobra.Command, e *env, name string) (*session.Party, string, error) {
	store, err := e.keys()
	if err != nil {
		return nil, "", err
	}
	curve, k, err := store.LoadKey(name)
	if err != nil {
		return nil, "", err
	}
	g, err := groupFor(curve)
	if err != nil {
		return nil, "", err
	}
	p, err := session.NewPartyWithLogger(g, log.FromContextOrNop(cmd.Context()))
	if err != nil {
		return nil, "", err
	}
	if err := p.SetKey(k); err != nil {
		return nil, "", fmt.Errorf("stored key %s: %w", name, err)
	}
	return p, curve, nil
}
