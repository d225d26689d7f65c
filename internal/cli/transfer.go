package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every object in the bucket to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(a.cfg)
			defer closeFn()
			if err != nil {
				return err
			}
			n, err := sqlite.ExportJSONL(cmd.Context(), store, args[0])
			if err != nil {
				return storeFailure(err)
			}
			return a.emit(cmd.OutOrStdout(), map[string]any{"exported": n, "file": args[0]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "exported %d objects to %s\n", n, args[0])
				return err
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Insert every object of a JSONL file into the bucket",
		Long:  "Insert the objects of a file written by export. The bucket assigns new ids.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return userError(err)
			}
			store, closeFn, err := openStore(a.cfg)
			defer closeFn()
			if err != nil {
				return err
			}
			n, err := sqlite.ImportJSONL(cmd.Context(), store, args[0])
			if err != nil {
				return storeFailure(err)
			}
			return a.emit(cmd.OutOrStdout(), map[string]any{"imported": n, "file": args[0]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "imported %d objects from %s\n", n, args[0])
				return err
			})
		},
	}
}
