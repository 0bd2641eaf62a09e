package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/vouchers-api/internal/application/user"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// UserHandler consultas de usuarios y códigos de invitación.
type UserHandler struct {
	uc *user.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *user.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario por ID
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del usuario"
// @Description  master y distributor ven cualquier usuario; el resto solo su propia cuenta.
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	if role := GetRole(c); role != entity.RoleMaster && role != entity.RoleDistributor && int64(id) != GetUserID(c) {
		return writeError(c, domain.ErrForbidden)
	}
	out, err := h.uc.Get(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ResolveInvitation godoc
// @Summary      Resolver código de invitación
// @Description  Devuelve el upline y el nivel que tendrá quien se registre con el código.
// @Tags         users
// @Produce      json
// @Param        code  path  string  true  "Código de invitación"
// @Success      200   {object}  dto.InvitationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invitation-code/{code} [get]
func (h *UserHandler) ResolveInvitation(c *fiber.Ctx) error {
	out, err := h.uc.ResolveInvitation(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
