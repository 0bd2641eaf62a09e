package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/application/ingest"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/tabular"
)

// UploadHandler cargas masivas de vouchers y del reporte ATM.
type UploadHandler struct {
	uc *ingest.ImportUseCase
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *ingest.ImportUseCase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

// Upload godoc
// @Summary      Carga masiva
// @Description  Archivo multipart "file" (.csv o .xlsx) o JSON. Vouchers: {"rows":[{...}]}; ATM: {"records":[[...]]}.
// @Description  Las filas inválidas se cuentan en "rejected"; sin filas válidas responde 422.
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        file  formData  file  false  "Archivo CSV o XLSX"
// @Success      201   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /upload-gsat-vouchers [post]
// @Router       /upload-tv-voucher [post]
// @Router       /upload-atm-transaction [post]
// @Router       /api/upload-wifi-vouchers [post]
func (h *UploadHandler) Upload(source string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			out *dto.ImportResponse
			err error
		)
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			records, rerr := readUpload(c)
			if rerr != nil {
				return writeUploadError(c, rerr)
			}
			out, err = h.uc.ImportRecords(c.UserContext(), source, records)
		} else if source == ingest.SourceATM {
			var in dto.ImportReportRequest
			if ok, berr := bindJSON(c, &in); !ok {
				return berr
			}
			out, err = h.uc.ImportATMReport(c.UserContext(), in.Records)
		} else {
			var in dto.ImportRowsRequest
			if ok, berr := bindJSON(c, &in); !ok {
				return berr
			}
			rows := make([]ingest.Row, 0, len(in.Rows))
			for _, r := range in.Rows {
				rows = append(rows, ingest.NormalizeRow(r))
			}
			out, err = h.uc.ImportVouchers(c.UserContext(), source, rows)
		}
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// errTooLarge archivo por encima de tabular.MaxUploadBytes.
var errTooLarge = errors.New("archivo demasiado grande")

func readUpload(c *fiber.Ctx) ([][]string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: campo file requerido", domain.ErrInvalidInput)
	}
	if fh.Size > tabular.MaxUploadBytes {
		return nil, errTooLarge
	}
	if !tabular.Supported(fh.Filename) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := tabular.Read(fh.Filename, f)
	if err != nil && !errors.Is(err, domain.ErrUnsupportedFile) {
		return nil, fmt.Errorf("%w: archivo ilegible: %v", domain.ErrInvalidInput, err)
	}
	return records, err
}

func writeUploadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errTooLarge) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo supera %d MB", tabular.MaxUploadBytes>>20),
		})
	}
	return writeError(c, err)
}

// ListATM godoc
// @Summary      Listar transacciones ATM
// @Tags         uploads
// @Security     Bearer
// @Produce      json
// @Param        merchant_id  query  string  false  "Comercio"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ATMTransactionListResponse
// @Router       /api/get-atm-transaction [get]
func (h *UploadHandler) ListATM(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListATM(c.UserContext(), c.Query("merchant_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
