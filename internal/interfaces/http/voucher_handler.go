package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// VoucherHandler stock, venta y comprobantes de vouchers.
type VoucherHandler struct {
	assign *voucher.AssignUseCase
	query  *voucher.QueryUseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(assign *voucher.AssignUseCase, query *voucher.QueryUseCase) *VoucherHandler {
	return &VoucherHandler{assign: assign, query: query}
}

// List godoc
// @Summary      Listar vouchers de un tipo
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "Estado"
// @Param        product_code  query  string  false  "Código de producto"
// @Param        owner_id      query  int     false  "Dueño"
// @Param        available     query  bool    false  "Solo sin dueño y vigentes"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.VoucherListResponse
// @Router       /api/gsat-vouchers [get]
// @Router       /api/wifi-vouchers [get]
// @Router       /api/tv-vouchers [get]
func (h *VoucherHandler) List(voucherType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := dto.VoucherListQuery{
			PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)},
			Status:      c.Query("status"),
			ProductCode: c.Query("product_code"),
			OwnerID:     int64(c.QueryInt("owner_id", 0)),
			Available:   c.QueryBool("available", false),
		}
		out, err := h.query.List(c.UserContext(), voucherType, q)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// Summary godoc
// @Summary      Stock disponible
// @Description  Vouchers sin dueño y vigentes agrupados por tipo y producto.
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockSummaryResponse
// @Router       /api/vouchers/summary [get]
func (h *VoucherHandler) Summary(c *fiber.Ctx) error {
	out, err := h.query.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener voucher por ID
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del voucher"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [get]
func (h *VoucherHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.query.Get(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BuyGSAT godoc
// @Summary      Comprar vouchers GSAT
// @Description  Reclama atómicamente "stocks" vouchers sin dueño del producto y envía uno por correo.
// @Description  Con stock insuficiente no se asigna ninguno.
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignVoucherRequest  true  "user_id, product_code, email, stocks"
// @Success      200   {object}  dto.AssignVoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/buy-gsat-voucher [put]
func (h *VoucherHandler) BuyGSAT(c *fiber.Ctx) error {
	return h.buy(c, entity.VoucherTypeGSAT)
}

// Assign godoc
// @Summary      Asignar vouchers de cualquier tipo
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        type  path  string                    true  "gsat | wifi | tv"
// @Param        body  body  dto.AssignVoucherRequest  true  "user_id, product_code, email, stocks"
// @Success      200   {object}  dto.AssignVoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{type}/assign [put]
func (h *VoucherHandler) Assign(c *fiber.Ctx) error {
	return h.buy(c, c.Params("type"))
}

// buy solo un master puede comprar a nombre de otro usuario.
func (h *VoucherHandler) buy(c *fiber.Ctx, voucherType string) error {
	var in dto.AssignVoucherRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if in.UserID != GetUserID(c) && GetRole(c) != entity.RoleMaster {
		return writeError(c, fmt.Errorf("%w: solo un master puede comprar para otro usuario", domain.ErrForbidden))
	}
	res, err := h.assign.Assign(c.UserContext(), voucher.AssignInput{
		UserID:      in.UserID,
		VoucherType: voucherType,
		ProductCode: in.ProductCode,
		Email:       in.Email,
		Quantity:    in.Stocks,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(voucher.ToAssignResponse(res))
}

// Receipt godoc
// @Summary      Comprobante PDF de un voucher
// @Description  Solo el dueño del voucher o un master.
// @Tags         vouchers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del voucher"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/receipt [get]
func (h *VoucherHandler) Receipt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	pdf, filename, err := h.query.Receipt(c.UserContext(), int64(id), GetUserID(c), GetRole(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
