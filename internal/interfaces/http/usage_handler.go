package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simstock-api/internal/application/dto"
	"github.com/jhoicas/simstock-api/internal/application/usecase"
)

// UsageHandler categorías de uso y reglas de elegibilidad.
type UsageHandler struct {
	uc *usecase.UsageUseCase
}

// NewUsageHandler construye el handler.
func NewUsageHandler(uc *usecase.UsageUseCase) *UsageHandler {
	return &UsageHandler{uc: uc}
}

// ListCategories godoc
// @Summary      Listar categorías de uso
// @Tags         usage
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UsageCategoryResponse
// @Router       /api/usage-categories [get]
func (h *UsageHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetCategory godoc
// @Summary      Obtener categoría de uso
// @Tags         usage
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.UsageCategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usage-categories/{id} [get]
func (h *UsageHandler) GetCategory(c *fiber.Ctx) error {
	out, err := h.uc.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría de uso
// @Tags         usage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUsageCategoryRequest  true  "Nombre y descripción"
// @Success      201   {object}  dto.UsageCategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usage-categories [post]
func (h *UsageHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateUsageCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateCategory(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Actualizar descripción de una categoría de uso
// @Tags         usage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateUsageCategoryRequest  true  "Descripción"
// @Success      200   {object}  dto.UsageCategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/usage-categories/{id} [patch]
func (h *UsageHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.UpdateUsageCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateCategoryDescription(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRules godoc
// @Summary      Listar reglas de elegibilidad
// @Tags         usage
// @Security     Bearer
// @Produce      json
// @Param        usage_category_id  query  string  false  "Filtrar por categoría"
// @Success      200  {array}  dto.EligibilityRuleResponse
// @Router       /api/usage-rules [get]
func (h *UsageHandler) ListRules(c *fiber.Ctx) error {
	out, err := h.uc.ListRules(c.UserContext(), c.Query("usage_category_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateRule godoc
// @Summary      Crear regla de elegibilidad
// @Tags         usage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEligibilityRuleRequest  true  "Regla"
// @Success      201   {object}  dto.EligibilityRuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/usage-rules [post]
func (h *UsageHandler) CreateRule(c *fiber.Ctx) error {
	var in dto.CreateEligibilityRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateRule(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
