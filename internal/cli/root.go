// Package cli implementa simctl: sincronización, importación CSV, disponibilidad y alta de operadores.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/simstock-api/internal/application/auth"
	"github.com/jhoicas/simstock-api/internal/application/availability"
	"github.com/jhoicas/simstock-api/internal/application/reconcile"
	"github.com/jhoicas/simstock-api/internal/application/simimport"
)

// RootOptions flags globales.
type RootOptions struct {
	Format string // "json" | "text"
}

// ValidFormats formatos de salida permitidos.
var ValidFormats = []string{"text", "json"}

// Services casos de uso que consumen los comandos.
type Services struct {
	Sync         *reconcile.SyncUseCase
	Import       *simimport.UseCase
	Availability *availability.UseCase
	Auth         *auth.AuthUseCase
}

// ServicesFactory abre las dependencias bajo demanda; el func devuelto las libera.
type ServicesFactory func(ctx context.Context) (*Services, func(), error)

// NewRootCommand crea el comando raíz de simctl.
func NewRootCommand(factory ServicesFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "simctl",
		Short:         "simctl - inventario de SIMs",
		Long:          "Herramienta de operación del inventario de SIMs: sincroniza fuentes externas, importa CSV y consulta disponibilidad.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("formato %q inválido: use uno de %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (json|text)")

	cmd.AddCommand(NewSyncCommand(opts, factory))
	cmd.AddCommand(NewImportCommand(opts, factory))
	cmd.AddCommand(NewAvailabilityCommand(opts, factory))
	cmd.AddCommand(NewUserCommand(opts, factory))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withServices abre los servicios, ejecuta fn y los libera.
func withServices(cmd *cobra.Command, factory ServicesFactory, fn func(*Services) error) error {
	svc, closeFn, err := factory(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "inicializar servicios", err)
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(svc)
}
