package router

import (
	"net/http"

	appsvc "nexora-backend/internal/application/applications"
	authsvc "nexora-backend/internal/application/auth"
	contsvc "nexora-backend/internal/application/contacts"
	emailsvc "nexora-backend/internal/application/emails"
	projsvc "nexora-backend/internal/application/projects"
	quotsvc "nexora-backend/internal/application/quotations"
	svcsvc "nexora-backend/internal/application/services"
	usersvc "nexora-backend/internal/application/user"
	"nexora-backend/internal/config"
	"nexora-backend/internal/infrastructure/database"
	apphandler "nexora-backend/internal/interfaces/handlers/applications"
	authhandler "nexora-backend/internal/interfaces/handlers/auth"
	conthandler "nexora-backend/internal/interfaces/handlers/contacts"
	healthhandler "nexora-backend/internal/interfaces/handlers/health"
	payhandler "nexora-backend/internal/interfaces/handlers/payments"
	projhandler "nexora-backend/internal/interfaces/handlers/projects"
	quothandler "nexora-backend/internal/interfaces/handlers/quotations"
	svchandler "nexora-backend/internal/interfaces/handlers/services"
	userhandler "nexora-backend/internal/interfaces/handlers/users"
	"nexora-backend/internal/middleware"
	"nexora-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Webhook is registered before the session middleware so its raw body
	// stays untouched for signature verification.
	gatewayWebhook := &payhandler.WebhookHandler{WebhookSecret: cfg.GatewayWebhookSecret}
	app.Post("/api/v1/gateway/webhook", func(c *fiber.Ctx) error {
		return gatewayWebhook.HandleWebhook(c)
	})

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil {
		gatewayWebhook.DB = db
	}

	if db != nil && rdb != nil {
		var emailSender emailsvc.Sender
		if cfg.BrevoAPIKey != "" {
			emailSender = &emailsvc.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}
		}

		// Users
		us := &usersvc.Service{DB: db, Rdb: rdb}
		uh := &userhandler.Handlers{Service: us, Mailer: emailSender}
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Post("/create-user", middleware.AuthorizePermission(constants.AssignRole), uh.CreateUser)
		ug.Get("/get-users", middleware.AuthorizePermission(constants.ViewData), uh.ListUsers)
		ug.Get("/view-user/:user_id", middleware.AuthorizePermission(constants.ViewData), uh.ViewUser)
		ug.Put("/update-user/:user_id", uh.UpdateUser)
		ug.Patch("/update-role/:user_id", middleware.AuthorizePermission(constants.AssignRole), uh.UpdateUserRole)
		ug.Delete("/remove-user/:user_id", middleware.AuthorizePermission(constants.RemoveUser), uh.RemoveUser)

		// Projects + ledger
		ps := &projsvc.Service{DB: db}
		ph := &projhandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/projects", middleware.RequireAuth())
		pg.Post("/create-project", middleware.AuthorizePermission(constants.ManageProjects), ph.CreateProject)
		pg.Get("/get-all-projects", middleware.AuthorizePermission(constants.ViewData), ph.GetAllProjects)
		pg.Get("/open-project/:project_id", middleware.AuthorizePermission(constants.ViewData), ph.OpenProject)
		pg.Put("/update-project/:project_id", middleware.AuthorizePermission(constants.ManageProjects), ph.UpdateProject)
		pg.Delete("/delete-project/:project_id", middleware.AuthorizePermission(constants.ManageProjects), ph.DeleteProject)
		pg.Patch("/set-budget/:project_id", middleware.AuthorizePermission(constants.ManageProjects), ph.SetBudget)
		pg.Post("/record-payment/:project_id", middleware.AuthorizePermission(constants.RecordPayment), ph.RecordPayment)
		pg.Post("/override-payment/:project_id", middleware.AuthorizePermission(constants.OverrideLedger), ph.OverridePayment)
		pg.Get("/override-notes/:project_id", middleware.AuthorizePermission(constants.OverrideLedger), ph.GetOverrideNotes)

		// Contacts — submit is public (website form)
		cs := &contsvc.Service{DB: db, Mailer: emailSender, NotifyEmail: cfg.NotifyEmail}
		ch := &conthandler.Handlers{Service: cs}
		app.Post("/api/v1/contacts/submit", ch.SubmitContact)
		cg := app.Group("/api/v1/contacts", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageContacts))
		cg.Get("/get-all-contacts", ch.GetAllContacts)
		cg.Patch("/mark-read/:contact_id", ch.MarkRead)
		cg.Patch("/mark-unread/:contact_id", ch.MarkUnread)
		cg.Delete("/delete-contact/:contact_id", ch.DeleteContact)

		// Applications — submit is public (careers form)
		as := &appsvc.Service{DB: db, Mailer: emailSender}
		aph := &apphandler.Handlers{Service: as}
		app.Post("/api/v1/applications/submit", aph.SubmitApplication)
		ag := app.Group("/api/v1/applications", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageApplications))
		ag.Get("/get-applications", aph.GetApplications)
		ag.Patch("/update-status/:application_id", aph.UpdateStatus)
		ag.Delete("/delete-application/:application_id", aph.DeleteApplication)

		// Services — listing is public (website)
		ss := &svcsvc.Service{DB: db}
		sh := &svchandler.Handlers{Service: ss}
		app.Get("/api/v1/services/get-services", sh.GetServices)
		sg := app.Group("/api/v1/services", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageServices))
		sg.Post("/create-service", sh.CreateService)
		sg.Put("/update-service/:service_id", sh.UpdateService)
		sg.Delete("/delete-service/:service_id", sh.DeleteService)

		// Quotations
		qs := &quotsvc.Service{DB: db}
		qh := &quothandler.Handlers{Service: qs}
		qg := app.Group("/api/v1/quotations", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageQuotations))
		qg.Post("/create-quotation", qh.CreateQuotation)
		qg.Get("/get-quotations", qh.GetQuotations)
		qg.Get("/get-quotation/:quotation_id", qh.GetQuotation)
		qg.Put("/update-quotation/:quotation_id", qh.UpdateQuotation)
		qg.Delete("/delete-quotation/:quotation_id", qh.DeleteQuotation)
		qg.Get("/download-pdf/:quotation_id", qh.DownloadPDF)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
