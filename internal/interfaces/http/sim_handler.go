package http

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/simimport"
	"github.com/jhoicas/simstock-api/internal/application/usecase"
)

// SimHandler maneja las peticiones HTTP del inventario de SIMs.
type SimHandler struct {
	uc       *usecase.SimUseCase
	importUC *simimport.UseCase
}

// NewSimHandler construye el handler.
func NewSimHandler(uc *usecase.SimUseCase, importUC *simimport.UseCase) *SimHandler {
	return &SimHandler{uc: uc, importUC: importUC}
}

// List godoc
// @Summary      Listar SIMs
// @Tags         sims
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "Estados separados por coma (IN_STOCK,ACTIVE,...)"
// @Param        supplier      query  string  false  "Proveedor"
// @Param        service_name  query  string  false  "Servicio de la asignación actual"
// @Param        msisdn        query  string  false  "MSISDN contiene"
// @Param        search        query  string  false  "ICCID o MSISDN contiene"
// @Param        page          query  int     false  "Página"  default(1)
// @Param        page_size     query  int     false  "Tamaño de página"  default(50)
// @Param        sort_by       query  string  false  "iccid, updated_at, supplier"
// @Param        sort_order    query  string  false  "asc o desc"
// @Success      200  {object}  dto.SimListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sims [get]
func (h *SimHandler) List(c *fiber.Ctx) error {
	q := dto.SimListQuery{
		Supplier:    c.Query("supplier"),
		ServiceName: c.Query("service_name"),
		MSISDN:      c.Query("msisdn"),
		Search:      c.Query("search"),
		Page:        c.QueryInt("page", 0),
		PageSize:    c.QueryInt("page_size", 0),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
	}
	for _, s := range strings.Split(c.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			q.Statuses = append(q.Statuses, s)
		}
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Alta o actualización de una SIM
// @Description  Crea la SIM si no existe (IN_STOCK) o actualiza sus datos de aprovisionamiento.
// @Tags         sims
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertSimRequest  true  "Datos de la SIM"
// @Success      200   {object}  dto.UpsertSimResponse
// @Success      201   {object}  dto.UpsertSimResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sims [post]
func (h *SimHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertSimRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpsertFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out.Created {
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de la flota
// @Tags         sims
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SimStatsResponse
// @Router       /api/sims/stats [get]
func (h *SimHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Detail godoc
// @Summary      Detalle de una SIM con su historial
// @Tags         sims
// @Security     Bearer
// @Produce      json
// @Param        iccid  path  string  true  "ICCID"
// @Success      200  {object}  dto.SimDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sims/{iccid} [get]
func (h *SimHandler) Detail(c *fiber.Ctx) error {
	out, err := h.uc.Detail(c.UserContext(), c.Params("iccid"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// HistoryPDF godoc
// @Summary      Ficha PDF de una SIM con su historial
// @Tags         sims
// @Security     Bearer
// @Produce      application/pdf
// @Param        iccid  path  string  true  "ICCID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sims/{iccid}/history.pdf [get]
func (h *SimHandler) HistoryPDF(c *fiber.Ctx) error {
	body, filename, err := h.uc.HistoryReport(c.UserContext(), c.Params("iccid"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

// Import godoc
// @Summary      Importación masiva de SIMs desde CSV
// @Description  Acepta multipart (campo file) o el CSV como cuerpo. Los errores por fila no detienen la importación.
// @Tags         sims
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  false  "Archivo CSV"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sims/import [post]
func (h *SimHandler) Import(c *fiber.Ctx) error {
	var r io.Reader
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return badRequest(c, "MISSING_FILE", "campo file requerido")
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	} else {
		if len(c.Body()) == 0 {
			return badRequest(c, "MISSING_FILE", "cuerpo CSV vacío")
		}
		r = bytes.NewReader(c.Body())
	}

	out, err := h.importUC.Import(c.UserContext(), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PublicMSISDN godoc
// @Summary      Consulta pública ICCID -> MSISDN
// @Tags         public
// @Produce      json
// @Param        iccid      query   string  true  "ICCID"
// @Param        X-API-KEY  header  string  true  "Clave de la API pública"
// @Success      200  {object}  dto.PublicMSISDNResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/public/msisdn [get]
func (h *SimHandler) PublicMSISDN(c *fiber.Ctx) error {
	iccid := c.Query("iccid")
	if iccid == "" {
		return badRequest(c, "VALIDATION", "iccid es requerido")
	}
	out, err := h.uc.LookupMSISDN(c.UserContext(), iccid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
