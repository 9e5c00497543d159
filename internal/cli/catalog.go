package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"auction-draft-mcp/internal/app"
	"auction-draft-mcp/internal/catalog"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/importer"
	"auction-draft-mcp/internal/render"
)

func newCatalogCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect player catalogs",
	}

	var sheet string
	validate := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file and list every problem",
		Long: `Load a CSV or XLSX catalog and report every invalid row. With no file the
configured catalog.source is checked, downloading it first when it is a URL.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var (
				cat *catalog.Catalog
				err error
			)
			if len(args) == 1 {
				if sheet == "" {
					sheet = e.cfg.Catalog.Sheet
				}
				cat, err = importer.LoadFile(args[0], sheet)
			} else {
				cat, err = app.LoadCatalog(cmd.Context(), e.cfg, e.log)
			}

			var verr *drafterr.ValidationError
			if drafterr.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintln(out, p.String())
				}
				return fmt.Errorf("%d problems found", len(verr.Problems))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, render.Note(fmt.Sprintf("catalog ok: %d players", cat.Len())))
			return nil
		},
	}
	validate.Flags().StringVar(&sheet, "sheet", "", "XLSX worksheet (default: first sheet)")
	cmd.AddCommand(validate)
	return cmd
}
