package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/vouchers-api/internal/application/genealogy"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// GenealogyHandler árbol de referidos y búsqueda.
type GenealogyHandler struct {
	uc *genealogy.GenealogyUseCase
}

// NewGenealogyHandler construye el handler.
func NewGenealogyHandler(uc *genealogy.GenealogyUseCase) *GenealogyHandler {
	return &GenealogyHandler{uc: uc}
}

// Tree godoc
// @Summary      Árbol de referidos
// @Description  Bosque completo con huérfanos y registros fuera del árbol. Un ciclo responde 409.
// @Tags         genealogy
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GenealogyResponse
// @Failure      409  {object}  CycleErrorResponse
// @Router       /api/genealogy [get]
func (h *GenealogyHandler) Tree(c *fiber.Ctx) error {
	out, err := h.uc.Tree(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Downline godoc
// @Summary      Subárbol de un usuario
// @Description  Un usuario que no es master solo puede pedir su propio subárbol o uno por debajo de él.
// @Tags         genealogy
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del usuario raíz del subárbol"
// @Success      200  {object}  dto.GenealogyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  CycleErrorResponse
// @Router       /api/users/{id}/downline [get]
func (h *GenealogyHandler) Downline(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.Downline(c.UserContext(), int64(id), scope(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar en la genealogía
// @Description  Coincidencias por nombre, email o login en orden de recorrido en anchura.
// @Description  Fuera del rol master la búsqueda se limita al subárbol de quien consulta.
// @Tags         genealogy
// @Security     Bearer
// @Produce      json
// @Param        term  query  string  true   "Texto a buscar"
// @Param        root  query  int     false  "Limitar al subárbol de este usuario"
// @Success      200   {object}  dto.GenealogySearchResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/genealogy/search [get]
func (h *GenealogyHandler) Search(c *fiber.Ctx) error {
	var root *int64
	if raw := c.Query("root"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, "INVALID_ROOT", "root debe ser un entero positivo")
		}
		root = &id
	}
	out, err := h.uc.Search(c.UserContext(), c.Query("term"), root, scope(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// scope devuelve la raíz del subárbol visible para quien consulta: nil para un master.
func scope(c *fiber.Ctx) *int64 {
	if GetRole(c) == entity.RoleMaster {
		return nil
	}
	id := GetUserID(c)
	return &id
}
