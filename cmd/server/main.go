package main

import (
	"log"
	"strings"

	"gymtag-backend/internal/attendance"
	"gymtag-backend/internal/audit"
	"gymtag-backend/internal/auth"
	"gymtag-backend/internal/config"
	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"
	"gymtag-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := newApp(cfg)

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/auth/user/:userId", auth.GetAccountHandler())

	// Üyeler
	protected.Get("/users", users.ListUsersHandler())
	protected.Get("/users/rfid/:tag", users.FindUserByRFIDHandler())
	protected.Get("/users/stats/:userId", attendance.UsageStatsHandler())
	protected.Get("/users/:id", users.GetUserHandler())

	// Yoklama (RFID kiosk akışı dahil)
	protected.Get("/attendance", attendance.ListAttendanceHandler())
	protected.Get("/attendance/user/:userId", attendance.ListUserAttendanceHandler())
	protected.Post("/attendance/checkin", attendance.CheckInHandler())
	protected.Post("/attendance/checkout", attendance.CheckOutHandler())
	protected.Post("/attendance/toggle", attendance.ToggleHandler())

	// Admin routes. Grup prefix'i boş olduğu için RequireRole buradan sonra
	// kayıt edilen tüm route'lara uygulanır; ortak route'lar yukarıda kalmalı.
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Üye yönetimi
	adminRoutes.Post("/users", users.CreateUserHandler())
	adminRoutes.Get("/users/payments/status", users.PaymentStatusHandler())
	adminRoutes.Post("/users/import", users.ImportUsersHandler())
	adminRoutes.Put("/users/:id/membership", users.UpdateMembershipHandler())
	adminRoutes.Post("/users/:id/payment", users.RecordPaymentHandler())
	adminRoutes.Put("/users/:id", users.UpdateUserHandler())
	adminRoutes.Delete("/users/:id", users.DeleteUserHandler())

	adminRoutes.Delete("/attendance/:id", attendance.DeleteAttendanceHandler())

	// Audit logs
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	return app
}
