package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simstock-api/internal/application/availability"
	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/pkg/dates"
)

// AvailabilityHandler expone el evaluador de disponibilidad.
type AvailabilityHandler struct {
	uc *availability.UseCase
}

// NewAvailabilityHandler construye el handler.
func NewAvailabilityHandler(uc *availability.UseCase) *AvailabilityHandler {
	return &AvailabilityHandler{uc: uc}
}

// Evaluate godoc
// @Summary      Disponibilidad de SIMs para una categoría de uso y un período
// @Description  Recorre las reglas por prioridad y devuelve las SIMs de la primera regla con resultados.
// @Tags         availability
// @Security     Bearer
// @Produce      json
// @Param        usage_category_id           query  string  true   "ID de la categoría de uso"
// @Param        start_date                  query  string  true   "YYYY-MM-DD o RFC3339"
// @Param        end_date                    query  string  true   "YYYY-MM-DD o RFC3339"
// @Param        exclude_currently_assigned  query  bool    false  "Excluir SIMs asignadas" default(true)
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/availability [get]
func (h *AvailabilityHandler) Evaluate(c *fiber.Ctx) error {
	categoryID := c.Query("usage_category_id")
	if categoryID == "" {
		return badRequest(c, "VALIDATION", "usage_category_id es requerido")
	}
	start, err := dates.Parse(c.Query("start_date"))
	if err != nil {
		return badRequest(c, "INVALID_DATE", "start_date: "+err.Error())
	}
	end, err := dates.Parse(c.Query("end_date"))
	if err != nil {
		return badRequest(c, "INVALID_DATE", "end_date: "+err.Error())
	}
	exclude := true
	if v := c.Query("exclude_currently_assigned"); v != "" {
		exclude, err = strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "VALIDATION", "exclude_currently_assigned debe ser true o false")
		}
	}

	out, err := h.uc.Evaluate(c.UserContext(), dto.AvailabilityRequest{
		UsageCategoryID:          categoryID,
		StartDate:                start,
		EndDate:                  end,
		ExcludeCurrentlyAssigned: exclude,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
