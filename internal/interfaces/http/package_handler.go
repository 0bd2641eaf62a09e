package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/application/subscription"
)

// PackageHandler paquetes de suscripción.
type PackageHandler struct {
	uc *subscription.PackageUseCase
}

// NewPackageHandler construye el handler.
func NewPackageHandler(uc *subscription.PackageUseCase) *PackageHandler {
	return &PackageHandler{uc: uc}
}

// List godoc
// @Summary      Listar paquetes
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        all  query  bool  false  "Incluir desactivados"
// @Success      200  {array}  dto.PackageResponse
// @Router       /api/packages [get]
func (h *PackageHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), !c.QueryBool("all", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear paquete
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePackageRequest  true  "Datos del paquete"
// @Success      201   {object}  dto.PackageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/packages [post]
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePackageRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
