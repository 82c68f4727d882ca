package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
)

// NewSyncCommand crea el comando sync.
func NewSyncCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	var file, source string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconciliar asignaciones externas desde un archivo JSON",
		Long: `Lee un archivo JSON con las filas ya obtenidas de cada fuente
({"buppan": [{...}, ...], "versus": [...]}) y las reconcilia contra el inventario.

Sale con código 1 si alguna fuente falló.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			req, err := readSyncFile(file)
			if err != nil {
				return f.Fail(err)
			}
			req.Only = source
			return withServices(cmd, factory, func(svc *Services) error {
				resp, err := svc.Sync.Run(cmd.Context(), req)
				if err != nil {
					if resp != nil && (errors.Is(err, domain.ErrPartialSyncFailure) || errors.Is(err, domain.ErrSyncFailed)) {
						return f.Partial(resp, renderSync(resp), err)
					}
					return f.Fail(err)
				}
				return f.Success(resp, renderSync(resp))
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "archivo JSON con las filas por fuente")
	cmd.Flags().StringVar(&source, "source", "", "sincronizar solo esta fuente")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readSyncFile(path string) (dto.SyncRequest, error) {
	fh, err := os.Open(path)
	if err != nil {
		return dto.SyncRequest{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	defer fh.Close()

	var raw map[string][]map[string]any
	dec := json.NewDecoder(fh)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return dto.SyncRequest{}, fmt.Errorf("%w: %s no es un JSON {fuente: [filas]}: %v", domain.ErrInvalidInput, path, err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	req := dto.SyncRequest{}
	for _, name := range names {
		req.Batches = append(req.Batches, dto.SyncBatchRequest{ServiceName: name, Records: raw[name]})
	}
	return req, nil
}

func renderSync(resp *dto.SyncResponse) func(io.Writer) {
	return func(w io.Writer) {
		for _, r := range resp.Results {
			fmt.Fprintf(w, "%s: %s (revisados=%d actualizados=%d historial=%d omitidos=%d errores=%d)\n",
				r.ServiceName, r.Status, r.RecordsChecked, r.RecordsUpdated, r.HistoryCreated, r.RecordsSkipped, len(r.Errors))
			if r.Error != "" {
				fmt.Fprintf(w, "  error: %s\n", r.Error)
			}
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  [%d] %s: %s\n", e.Index, e.ICCID, e.Error)
			}
		}
	}
}
