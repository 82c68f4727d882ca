package http

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/reconcile"
	"github.com/jhoicas/simstock-api/internal/domain"
)

// SyncHandler dispara la reconciliación con las fuentes externas.
type SyncHandler struct {
	uc *reconcile.SyncUseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *reconcile.SyncUseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// Run godoc
// @Summary      Reconciliar asignaciones externas
// @Description  Recibe las filas ya obtenidas de cada fuente. 207 si alguna fuente falló.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        service_name  query  string           false  "Limitar a una fuente"
// @Param        body          body   dto.SyncRequest  true   "Lotes por fuente"
// @Success      200  {object}  dto.SyncResponse
// @Success      207  {object}  dto.SyncResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sync [post]
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	var in dto.SyncRequest
	// UseNumber: los IDs numéricos llegan como json.Number y no como float64.
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.Only = c.Query("service_name")

	out, err := h.uc.Run(c.UserContext(), in)
	if err != nil {
		if out != nil && (errors.Is(err, domain.ErrPartialSyncFailure) || errors.Is(err, domain.ErrSyncFailed)) {
			return c.Status(fiber.StatusMultiStatus).JSON(out)
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sources godoc
// @Summary      Fuentes configuradas y su último intento
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SyncSourceResponse
// @Router       /api/sync/sources [get]
func (h *SyncHandler) Sources(c *fiber.Ctx) error {
	out, err := h.uc.Sources(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logs godoc
// @Summary      Registro de sincronizaciones e importaciones
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.SyncLogResponse
// @Router       /api/sync/logs [get]
func (h *SyncHandler) Logs(c *fiber.Ctx) error {
	out, err := h.uc.ListLogs(c.UserContext(), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
