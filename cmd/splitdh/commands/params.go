package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/internal/config"
)

func paramsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the parameters of the configured curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := e.cfg.Group()
			if err != nil {
				return err
			}
			p := g.Params()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:        %s\n", p.Name)
			fmt.Fprintf(out, "p:           %s\n", p.P)
			fmt.Fprintf(out, "A:           %s\n", p.A)
			fmt.Fprintf(out, "order:       %s\n", p.Order)
			fmt.Fprintf(out, "cofactor:    %d\n", p.Cofactor)
			fmt.Fprintf(out, "base x:      %s\n", p.BaseX)
			fmt.Fprintf(out, "scalar bits: %d\n", p.ScalarBits)
			return nil
		},
	}
}

// groupFor returns the group for a curve name read from a key file.
func groupFor(curve string) (group.Group, error) {
	c := config.Default()
	c.Curve = curve
	return c.Group()
}
