package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
)

// NewImportCommand crea el comando import.
func NewImportCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archivo.csv>",
		Short: "Importar SIMs desde un CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			fh, err := os.Open(args[0])
			if err != nil {
				return f.Fail(fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
			}
			defer fh.Close()

			return withServices(cmd, factory, func(svc *Services) error {
				res, err := svc.Import.Import(cmd.Context(), fh)
				if err != nil {
					return f.Fail(err)
				}
				if res.Summary.Failed > 0 {
					return f.Partial(res, renderImport(res), fmt.Errorf("%d filas con error", res.Summary.Failed))
				}
				return f.Success(res, renderImport(res))
			})
		},
	}
}

func renderImport(res *dto.ImportResponse) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "total=%d creadas=%d actualizadas=%d con error=%d\n",
			res.Summary.Total, res.Summary.Created, res.Summary.Updated, res.Summary.Failed)
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  fila %d (%s): %s\n", e.Row, e.ICCID, e.Error)
		}
	}
}
