package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vouchers-api/internal/application/auth"
	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/application/genealogy"
	"github.com/jhoicas/vouchers-api/internal/application/ingest"
	"github.com/jhoicas/vouchers-api/internal/application/subscription"
	"github.com/jhoicas/vouchers-api/internal/application/user"
	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	apphttp "github.com/jhoicas/vouchers-api/internal/interfaces/http"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

type testEnv struct {
	app      *fiber.App
	users    *memUsers
	vouchers *memVouchers
}

func ptr(v int64) *int64 { return &v }

// newEnv arma el router completo sobre repositorios en memoria. El usuario 1 es el master
// raíz (código ROOTCODE) y el 2 un comercio referido por él.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	users := &memUsers{list: []*entity.User{
		{ID: 1, DisplayName: "Root", Login: "root", Email: "root@example.com", Role: entity.RoleMaster, Status: entity.UserStatusActive, ReferralCode: "ROOTCODE"},
		{ID: 2, DisplayName: "Comercio", Login: "shop", Email: "shop@example.com", Role: entity.RoleMerchant, Status: entity.UserStatusActive, ReferralCode: "SHOPCODE", UplineID: ptr(1), ReferredByID: ptr(1), Level: 1},
	}}
	vouchers := &memVouchers{}
	log := logger.Nop()

	app := fiber.New()
	app.Use(apphttp.RequestID(), apphttp.Observe(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		UserUC:      user.NewUserUseCase(users),
		GenealogyUC: genealogy.NewGenealogyUseCase(users, log),
		AssignUC:    voucher.NewAssignUseCase(users, vouchers, sentNotifier{}, 10, log),
		QueryUC:     voucher.NewQueryUseCase(vouchers, users, fakeReceipts{}),
		ImportUC:    ingest.NewImportUseCase(vouchers, &memATM{}, log),
		PackageUC:   subscription.NewPackageUseCase(&memPackages{}),
		JWTSecret:   testJWTSecret,
	})
	return &testEnv{app: app, users: users, vouchers: vouchers}
}

func (e *testEnv) seedGSAT(n int, product string) {
	for i := 0; i < n; i++ {
		e.vouchers.list = append(e.vouchers.list, &entity.Voucher{
			ID:          int64(len(e.vouchers.list) + 1),
			Type:        entity.VoucherTypeGSAT,
			ProductCode: product,
			Amount:      decimal.NewFromInt(500),
			Status:      entity.VoucherStatusAvailable,
		})
	}
}

func (e *testEnv) do(t *testing.T, method, path, authHeader string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) upload(t *testing.T, path, authHeader, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set("Authorization", authHeader)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro, invitación y login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_ConInvitacionYLogin(t *testing.T) {
	env := newEnv(t)

	resp := env.do(t, http.MethodGet, "/api/invitation-code/ROOTCODE", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inv dto.InvitationResponse
	decode(t, resp, &inv)
	assert.Equal(t, dto.InvitationResponse{UplineID: 1, Level: 1}, inv)

	resp = env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "nuevo@example.com", Login: "nuevo", Password: "secreto123", InvitationCode: "ROOTCODE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.UserResponse
	decode(t, resp, &created)
	require.NotNil(t, created.UplineID)
	assert.Equal(t, int64(1), *created.UplineID)
	assert.Equal(t, 1, created.Level)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "nuevo@example.com", Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, created.ID, login.User.ID)
}

func TestRegister_ErroresDeEntrada(t *testing.T) {
	env := newEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"login": "x", "password": "corta"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var verr dto.ErrorResponse
	decode(t, resp, &verr)
	assert.Equal(t, "VALIDATION", verr.Code)
	assert.Equal(t, "required", verr.Fields["email"])
	assert.Equal(t, "min", verr.Fields["password"])

	resp = env.do(t, http.MethodGet, "/api/invitation-code/NOEXISTE", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "shop@example.com", Login: "otro", Password: "secreto123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "nadie", Password: "secreto123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_RolPrivilegiadoRequiereMaster(t *testing.T) {
	env := newEnv(t)
	intruso := dto.RegisterRequest{Email: "intruso@example.com", Login: "intruso", Password: "secreto123", Role: entity.RoleMaster}

	// Caso 1: anónimo pidiendo master
	resp := env.do(t, http.MethodPost, "/api/auth/register", "", intruso)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, env.users.list, 2, "no debe crearse la cuenta")

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "intruso", Password: "secreto123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Caso 2: un merchant autenticado tampoco puede
	resp = env.do(t, http.MethodPost, "/api/auth/register", bearer(t, 2, entity.RoleMerchant), dto.RegisterRequest{
		Email: "dist@example.com", Login: "dist", Password: "secreto123", Role: entity.RoleDistributor,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Caso 3: token inválido no se trata como anónimo
	resp = env.do(t, http.MethodPost, "/api/auth/register", "Bearer basura", dto.RegisterRequest{
		Email: "x@example.com", Login: "xxx", Password: "secreto123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Caso 4: el master da de alta un distribuidor
	resp = env.do(t, http.MethodPost, "/api/auth/register", bearer(t, 1, entity.RoleMaster), dto.RegisterRequest{
		Email: "dist@example.com", Login: "dist", Password: "secreto123", Role: entity.RoleDistributor, InvitationCode: "ROOTCODE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.UserResponse
	decode(t, resp, &created)
	assert.Equal(t, entity.RoleDistributor, created.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compra de vouchers y comprobante
// ──────────────────────────────────────────────────────────────────────────────

func TestBuyGSAT_TodoONada(t *testing.T) {
	env := newEnv(t)
	env.seedGSAT(3, "FG99")
	shop := bearer(t, 2, entity.RoleMerchant)
	body := dto.AssignVoucherRequest{UserID: 2, ProductCode: "FG99", Email: "shop@example.com", Stocks: 2}

	resp := env.do(t, http.MethodPut, "/api/buy-gsat-voucher", shop, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.AssignVoucherResponse
	decode(t, resp, &out)
	assert.Equal(t, 2, out.Claimed)
	require.Len(t, out.Vouchers, 2)
	assert.Equal(t, voucher.NotificationSent, out.Vouchers[0].Notification)
	assert.Equal(t, int64(2), *out.Vouchers[0].OwnerID)

	resp = env.do(t, http.MethodPut, "/api/buy-gsat-voucher", shop, body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var eresp dto.ErrorResponse
	decode(t, resp, &eresp)
	assert.Equal(t, "INSUFFICIENT_STOCK", eresp.Code)
	assert.False(t, env.vouchers.list[2].IsOwned(), "el voucher restante no debe quedar asignado")
}

func TestBuyGSAT_SoloMasterCompraParaOtros(t *testing.T) {
	env := newEnv(t)
	env.seedGSAT(1, "FG99")
	body := dto.AssignVoucherRequest{UserID: 1, ProductCode: "FG99", Email: "root@example.com", Stocks: 1}

	resp := env.do(t, http.MethodPut, "/api/buy-gsat-voucher", bearer(t, 2, entity.RoleMerchant), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body.UserID = 2
	resp = env.do(t, http.MethodPut, "/api/buy-gsat-voucher", bearer(t, 1, entity.RoleMaster), body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssign_TipoDesconocido(t *testing.T) {
	env := newEnv(t)
	body := dto.AssignVoucherRequest{UserID: 2, ProductCode: "X", Email: "shop@example.com", Stocks: 1}

	resp := env.do(t, http.MethodPut, "/api/vouchers/cable/assign", bearer(t, 2, entity.RoleMerchant), body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReceipt_DuenoOMaster(t *testing.T) {
	env := newEnv(t)
	env.seedGSAT(2, "FG99")
	env.vouchers.list[0].OwnerID = ptr(2)

	resp := env.do(t, http.MethodGet, "/api/vouchers/1/receipt", bearer(t, 2, entity.RoleMerchant), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "voucher-gsat-1.pdf")
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/vouchers/1/receipt", bearer(t, 3, entity.RoleMerchant), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/vouchers/1/receipt", bearer(t, 1, entity.RoleMaster), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/vouchers/2/receipt", bearer(t, 1, entity.RoleMaster), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "voucher sin vender")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cargas masivas
// ──────────────────────────────────────────────────────────────────────────────

func TestUpload_CSVMultipart(t *testing.T) {
	env := newEnv(t)
	csv := "Serial,Amount,Discount,Product Code\nG-1,100,3,FG99\nG-2,,3,FG99\nG-3,50,1,FG99\n"

	resp := env.upload(t, "/upload-gsat-vouchers", bearer(t, 1, entity.RoleMaster), "gsat.csv", csv)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.ImportResponse
	decode(t, resp, &out)
	assert.Equal(t, dto.ImportResponse{Source: entity.VoucherTypeGSAT, Inserted: 2, Rejected: 1}, out)
	assert.Len(t, env.vouchers.list, 2)

	resp = env.upload(t, "/upload-gsat-vouchers", bearer(t, 2, entity.RoleMerchant), "gsat.csv", csv)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.upload(t, "/upload-gsat-vouchers", bearer(t, 1, entity.RoleMaster), "gsat.txt", csv)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestUpload_EstadoImportadoNoDisponibleNoSeVende(t *testing.T) {
	env := newEnv(t)
	csv := "Product,Card Number,Recharge Code,Status\nTV1,C-1,P-1,Used\nTV1,C-2,P-2,Available\n"

	resp := env.upload(t, "/upload-tv-voucher", bearer(t, 1, entity.RoleMaster), "tv.csv", csv)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, env.vouchers.list, 2)
	assert.Equal(t, "used", env.vouchers.list[0].Status)

	shop := bearer(t, 2, entity.RoleMerchant)
	body := dto.AssignVoucherRequest{UserID: 2, ProductCode: "TV1", Email: "shop@example.com", Stocks: 2}
	resp = env.do(t, http.MethodPut, "/api/vouchers/tv/assign", shop, body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body.Stocks = 1
	resp = env.do(t, http.MethodPut, "/api/vouchers/tv/assign", shop, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.AssignVoucherResponse
	decode(t, resp, &out)
	require.Len(t, out.Vouchers, 1)
	assert.Equal(t, "C-2", out.Vouchers[0].Serial)
	assert.False(t, env.vouchers.list[0].IsOwned(), "el voucher usado no se vende")
}

func TestUpload_JSONSinFilasValidas(t *testing.T) {
	env := newEnv(t)

	resp := env.do(t, http.MethodPost, "/api/upload-wifi-vouchers", bearer(t, 1, entity.RoleMaster),
		dto.ImportRowsRequest{Rows: []map[string]string{{"Code": "", "Amount": "5"}}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var eresp dto.ErrorResponse
	decode(t, resp, &eresp)
	assert.Equal(t, "NO_VALID_ROWS", eresp.Code)

	resp = env.do(t, http.MethodPost, "/api/upload-wifi-vouchers", bearer(t, 1, entity.RoleMaster),
		dto.ImportRowsRequest{Rows: []map[string]string{{"Code": "W-1", "Amount": "5"}}})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUpload_ReporteATM(t *testing.T) {
	env := newEnv(t)
	report := "ATM REPORT\nMerchant ID: M-1,Merchant Name: Tienda\n2024-01-02,T-1,R-1,WITHDRAWAL,100,2,OK\n"

	resp := env.upload(t, "/upload-atm-transaction", bearer(t, 1, entity.RoleMaster), "atm.csv", report)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/get-atm-transaction", bearer(t, 1, entity.RoleMaster), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ATMTransactionListResponse
	decode(t, resp, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "M-1", list.Items[0].MerchantID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Genealogía
// ──────────────────────────────────────────────────────────────────────────────

func TestGenealogy_ArbolYBusqueda(t *testing.T) {
	env := newEnv(t)
	master := bearer(t, 1, entity.RoleMaster)

	resp := env.do(t, http.MethodGet, "/api/genealogy", master, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tree dto.GenealogyResponse
	decode(t, resp, &tree)
	assert.Equal(t, 2, tree.Size)
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, int64(2), tree.Roots[0].Children[0].User.ID)

	resp = env.do(t, http.MethodGet, "/api/genealogy", bearer(t, 2, entity.RoleMerchant), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/genealogy/search?term=SHOP&root=1", master, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found dto.GenealogySearchResponse
	decode(t, resp, &found)
	require.Len(t, found.Matches, 1)
	assert.Equal(t, int64(2), found.Matches[0].ID)

	resp = env.do(t, http.MethodGet, "/api/users/99/downline", master, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenealogy_ComercioSoloVeSuSubarbol(t *testing.T) {
	env := newEnv(t)
	env.users.list = append(env.users.list,
		&entity.User{ID: 3, Login: "hijo", Email: "hijo@example.com", Role: entity.RoleMerchant, UplineID: ptr(2), Level: 2},
		&entity.User{ID: 4, Login: "otro", Email: "otro@example.com", Role: entity.RoleMerchant, UplineID: ptr(1), Level: 1},
	)
	shop := bearer(t, 2, entity.RoleMerchant)

	resp := env.do(t, http.MethodGet, "/api/genealogy/search?term=@", shop, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found dto.GenealogySearchResponse
	decode(t, resp, &found)
	ids := make([]int64, 0, len(found.Matches))
	for _, m := range found.Matches {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{2, 3}, ids, "solo el propio comercio y su downline")

	resp = env.do(t, http.MethodGet, "/api/genealogy/search?term=@&root=1", shop, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/users/1/downline", shop, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/users/4/downline", shop, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/users/3/downline", shop, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/users/1", shop, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/users/2", shop, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// el master sigue viendo todo
	resp = env.do(t, http.MethodGet, "/api/genealogy/search?term=@", bearer(t, 1, entity.RoleMaster), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &found)
	assert.Len(t, found.Matches, 4)
}

func TestGenealogy_CicloResponde409(t *testing.T) {
	env := newEnv(t)
	env.users.list = append(env.users.list,
		&entity.User{ID: 7, Login: "a", UplineID: ptr(8)},
		&entity.User{ID: 8, Login: "b", UplineID: ptr(7)},
	)

	resp := env.do(t, http.MethodGet, "/api/genealogy", bearer(t, 1, entity.RoleMaster), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var out apphttp.CycleErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "HIERARCHY_CYCLE", out.Code)
	assert.ElementsMatch(t, []int64{7, 8}, out.IDs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Paquetes y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestPackages_CrearSoloMaster(t *testing.T) {
	env := newEnv(t)
	body := map[string]interface{}{"name": "Starter", "price": "999", "credits": "1000"}

	resp := env.do(t, http.MethodPost, "/api/packages", bearer(t, 2, entity.RoleMerchant), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/packages", bearer(t, 1, entity.RoleMaster), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/packages", bearer(t, 2, entity.RoleMerchant), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.PackageResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.True(t, decimal.NewFromInt(999).Equal(list[0].Price))
}

func TestMetrics_ExponeContadoresHTTP(t *testing.T) {
	env := newEnv(t)
	env.do(t, http.MethodGet, "/api/invitation-code/ROOTCODE", "", nil).Body.Close()

	resp := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(raw), `vouchers_http_requests_total{method="GET",result="2xx",route="/api/invitation-code/:code"}`)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
