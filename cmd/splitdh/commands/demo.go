package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/f3rmion/splitdh/internal/keystore"
	"github.com/f3rmion/splitdh/log"
	"github.com/f3rmion/splitdh/session"
	"github.com/f3rmion/splitdh/splitkey"
)

func demoCmd(e *env) *cobra.Command {
	var ratchets int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run two parties end to end and check they agree",
		Long: `Generates a split key for Alice and Bob, exchanges public keys and
computes the shared key on both sides. Alice runs her halves as a separate
client and server. Both parties then ratchet their splits and recompute.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("ratchets") {
				e.cfg.Ratchets = ratchets
			}
			if e.cfg.Ratchets < 0 {
				return fmt.Errorf("ratchets must not be negative, got %d", e.cfg.Ratchets)
			}
			logger := log.FromContextOrNop(cmd.Context())
			return runDemo(cmd.OutOrStdout(), e, logger)
		},
	}

	cmd.Flags().IntVarP(&ratchets, "ratchets", "r", 3, "ratchet steps after the first agreement")
	return cmd
}

func runDemo(out io.Writer, e *env, logger log.Logger) error {
	g, err := e.cfg.Group()
	if err != nil {
		return err
	}
	h, err := e.cfg.KeyHasher()
	if err != nil {
		return err
	}
	kdf, err := splitkey.NewWithHasher(g, h)
	if err != nil {
		return err
	}

	alice, err := session.NewPartyWithLogger(g, logger.With("name", "alice"))
	if err != nil {
		return err
	}
	bob, err := session.NewPartyWithLogger(g, logger.With("name", "bob"))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := session.NewMetrics(reg)
	if err != nil {
		return err
	}
	alice.SetMetrics(metrics)
	bob.SetMetrics(metrics)

	pubA, err := alice.Generate(rand.Reader)
	if err != nil {
		return err
	}
	pubB, err := bob.Generate(rand.Reader)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "curve:       %s\n", g.Params().Name)
	fmt.Fprintf(out, "alice:       %s\n", mustHex(pubA))
	fmt.Fprintf(out, "bob:         %s\n", mustHex(pubB))

	client, server, err := alice.Split()
	if err != nil {
		return err
	}

	var first *big.Int
	for step := 0; step <= e.cfg.Ratchets; step++ {
		if step > 0 {
			update, err := client.Ratchet(rand.Reader)
			if err != nil {
				return err
			}
			if err := server.ApplyUpdate(update); err != nil {
				return err
			}
			if err := bob.Ratchet(rand.Reader); err != nil {
				return err
			}
		}

		// alice's server and client may be on different machines
		contribution, err := server.Contribute(pubB)
		if err != nil {
			return err
		}
		sA, err := client.SharedKey(pubB, contribution)
		if err != nil {
			return err
		}
		sB, err := bob.SharedKey(pubA)
		if err != nil {
			return err
		}
		if err := splitkey.VerifyAgreement(sA, sB); err != nil {
			logger.Errorw("parties disagree", "step", step)
			return err
		}
		if first == nil {
			first = sA
		} else if first.Cmp(sA) != 0 {
			return fmt.Errorf("step %d: shared key changed after ratchet: %w", step, splitkey.ErrProtocolMismatch)
		}

		logger.Infow("agreement", "step", step)
		fmt.Fprintf(out, "step %-6d shared %s\n", step, mustHex(sA))
	}

	key := kdf.DeriveKey(first, []byte(e.cfg.Info))
	fmt.Fprintf(out, "derived:     %s\n", hex.EncodeToString(key))
	fmt.Fprintln(out, "agreement:   ok")
	return printCounters(out, reg)
}

// printCounters writes every counter in reg, one per line.
func printCounters(out io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			fmt.Fprintf(out, "%-44s %v\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}

// mustHex formats values already known to fit in 32 bytes.
func mustHex(x *big.Int) string {
	s, err := keystore.FormatHex(x)
	if err != nil {
		panic(err)
	}
	return s
}
