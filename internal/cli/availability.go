package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/domain"
	"github.com/jhoicas/simstock-api/pkg/dates"
)

// NewAvailabilityCommand crea el comando availability.
func NewAvailabilityCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	var categoryID, start, end string
	var includeAssigned bool

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Consultar SIMs disponibles para una categoría de uso y un período",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			startDate, err := dates.Parse(start)
			if err != nil {
				return f.Fail(fmt.Errorf("%w: --start: %v", domain.ErrInvalidInput, err))
			}
			endDate, err := dates.Parse(end)
			if err != nil {
				return f.Fail(fmt.Errorf("%w: --end: %v", domain.ErrInvalidInput, err))
			}
			return withServices(cmd, factory, func(svc *Services) error {
				res, err := svc.Availability.Evaluate(cmd.Context(), dto.AvailabilityRequest{
					UsageCategoryID:          categoryID,
					StartDate:                startDate,
					EndDate:                  endDate,
					ExcludeCurrentlyAssigned: !includeAssigned,
				})
				if err != nil {
					return f.Fail(err)
				}
				return f.Success(res, renderAvailability(res))
			})
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "ID de la categoría de uso")
	cmd.Flags().StringVar(&start, "start", "", "inicio del período (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "fin del período (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&includeAssigned, "include-assigned", false, "incluir SIMs con asignación vigente")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func renderAvailability(res *dto.AvailabilityResponse) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "%s: %d SIMs disponibles (reglas evaluadas: %d)\n",
			res.UsageCategoryName, res.AvailableCount, res.RulesEvaluated)
		if res.MatchedRuleID != nil {
			fmt.Fprintf(w, "regla: %s (prioridad %d)\n", *res.MatchedRuleID, *res.MatchedRulePriority)
		}
		if res.Reason != "" {
			fmt.Fprintln(w, res.Reason)
		}
		for _, s := range res.Sims {
			fmt.Fprintf(w, "  %s\t%s\n", s.ICCID, s.Supplier)
		}
	}
}
