package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dbpool/internal/setup"
	"github.com/vvka-141/dbpool/internal/tui"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

func newResolveCmd(flags *globalFlags) *cobra.Command {
	var showPassword bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the connection URL the resolution chain produces",
		Long: `Runs the resolution chain without connecting and prints the resulting URL
to stdout. Each source tried is reported on stderr.

The password is masked unless --show-password is given.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			c, err := setup.Build(cfg, setup.Deps{Logger: flags.logger(cmd)})
			if err != nil {
				return err
			}

			u, steps, err := c.Resolvers.Build(setup.Selector(cfg)).Trace(cmd.Context())

			p := tui.NewPrinter(tui.IsColorEnabled())
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for _, step := range steps {
				switch kind := poolcache.KindOf(step.Err); {
				case step.Err == nil:
					fmt.Fprintln(errOut, p.Success(step.Source))
				case kind == poolcache.KindNoSecretSelector || kind == poolcache.KindEnvURLMissing:
					fmt.Fprintln(errOut, p.Step(fmt.Sprintf("%s: %s", step.Source, kind)))
				default:
					fmt.Fprintln(errOut, p.Failure(step.Err.Error()))
				}
			}
			if err != nil {
				return err
			}

			if showPassword {
				fmt.Fprintln(out, u.String())
			} else {
				fmt.Fprintln(out, u.Redacted())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPassword, "show-password", false, "Print the URL with its password")
	return cmd
}
