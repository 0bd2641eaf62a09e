package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/vouchers-api/internal/application/auth"
	"github.com/jhoicas/vouchers-api/internal/application/genealogy"
	"github.com/jhoicas/vouchers-api/internal/application/ingest"
	"github.com/jhoicas/vouchers-api/internal/application/subscription"
	"github.com/jhoicas/vouchers-api/internal/application/user"
	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *user.UserUseCase
	GenealogyUC *genealogy.GenealogyUseCase
	AssignUC    *voucher.AssignUseCase
	QueryUC     *voucher.QueryUseCase
	ImportUC    *ingest.ImportUseCase
	PackageUC   *subscription.PackageUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Las rutas de carga conservan los paths
// sin prefijo /api que usa el dashboard.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	authRequired := AuthMiddleware(deps.JWTSecret)
	master := RequireRole(entity.RoleMaster)
	staff := RequireRole(entity.RoleMaster, entity.RoleDistributor)

	api := app.Group("/api")

	// Auth (público; register lee el token si viene para permitir altas hechas por un master)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", OptionalAuth(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// El código de invitación se resuelve antes de tener cuenta
	userHandler := NewUserHandler(deps.UserUC)
	api.Get("/invitation-code/:code", userHandler.ResolveInvitation)

	// Users y genealogía
	genealogyHandler := NewGenealogyHandler(deps.GenealogyUC)
	api.Get("/users", authRequired, staff, userHandler.List)
	api.Get("/users/:id", authRequired, userHandler.GetByID)
	api.Get("/users/:id/downline", authRequired, genealogyHandler.Downline)
	api.Get("/genealogy", authRequired, master, genealogyHandler.Tree)
	api.Get("/genealogy/search", authRequired, genealogyHandler.Search)

	// Vouchers
	voucherHandler := NewVoucherHandler(deps.AssignUC, deps.QueryUC)
	api.Get("/gsat-vouchers", authRequired, staff, voucherHandler.List(entity.VoucherTypeGSAT))
	api.Get("/wifi-vouchers", authRequired, staff, voucherHandler.List(entity.VoucherTypeWiFi))
	api.Get("/tv-vouchers", authRequired, staff, voucherHandler.List(entity.VoucherTypeTV))
	api.Put("/buy-gsat-voucher", authRequired, voucherHandler.BuyGSAT)
	vouchers := api.Group("/vouchers", authRequired)
	vouchers.Get("/summary", voucherHandler.Summary)
	vouchers.Put("/:type/assign", voucherHandler.Assign)
	vouchers.Get("/:id", staff, voucherHandler.GetByID)
	vouchers.Get("/:id/receipt", voucherHandler.Receipt)

	// Cargas masivas (solo master)
	uploadHandler := NewUploadHandler(deps.ImportUC)
	app.Post("/upload-gsat-vouchers", authRequired, master, uploadHandler.Upload(entity.VoucherTypeGSAT))
	app.Post("/upload-tv-voucher", authRequired, master, uploadHandler.Upload(entity.VoucherTypeTV))
	app.Post("/upload-atm-transaction", authRequired, master, uploadHandler.Upload(ingest.SourceATM))
	api.Post("/upload-wifi-vouchers", authRequired, master, uploadHandler.Upload(entity.VoucherTypeWiFi))
	api.Get("/get-atm-transaction", authRequired, staff, uploadHandler.ListATM)

	// Paquetes de suscripción
	packageHandler := NewPackageHandler(deps.PackageUC)
	api.Get("/packages", authRequired, packageHandler.List)
	api.Post("/packages", authRequired, master, packageHandler.Create)
}
