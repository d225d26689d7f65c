package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/paths"
	"github.com/mesh-intelligence/folio/internal/sqlite"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var seed, global bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the configuration and the local bucket",
		Long: "Create the configuration file and, for the sqlite backend, the local\n" +
			"bucket. --seed fills an empty local bucket with sample content.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if global && a.flags.dataDir == "" {
				dir, err := paths.DefaultDataDir()
				if err != nil {
					return sysError(fmt.Errorf("resolve data dir: %w", err))
				}
				cfg.DataDir = dir
			}
			if err := cfg.Validate(); err != nil {
				return userError(fmt.Errorf("invalid configuration: %w", err))
			}
			out := cmd.OutOrStdout()
			if cfg.Backend != types.BackendSQLite {
				if seed {
					return userError(fmt.Errorf("--seed needs the %s backend", types.BackendSQLite))
				}
				fmt.Fprintf(out, "folio configured for %s bucket %s\n", cfg.Backend, cfg.Cosmic.BucketSlug)
				return nil
			}

			b := sqlite.NewBackend()
			if err := b.Attach(cfg); err != nil {
				return sysError(fmt.Errorf("initialize local bucket: %w", err))
			}
			defer b.Detach()

			fmt.Fprintf(out, "folio initialized in %s\n", b.DataDir())
			if seed {
				n, err := b.Seed(cmd.Context())
				if err != nil {
					return sysError(fmt.Errorf("seed: %w", err))
				}
				if n == 0 {
					fmt.Fprintln(out, "bucket not empty, nothing seeded")
				} else {
					fmt.Fprintf(out, "seeded %d objects\n", n)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert sample content into an empty local bucket")
	cmd.Flags().BoolVar(&global, "global", false, "place the local bucket in the per-user data directory")
	return cmd
}
