package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lendflow/internal/config"
	"lendflow/internal/jobs"
	"lendflow/internal/middleware"
	"lendflow/internal/models"
	"lendflow/internal/repository"
	"lendflow/internal/service"
	"lendflow/internal/storage"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	drafts   *service.DraftService
	offers   *service.OfferService
	docs     *service.DocumentService
	projects *service.ProjectService
	leads    *service.LeadService
	db       *pgxpool.Pool
	cache    *redis.Client
	store    *storage.ObjectStore
	users    *repository.UserRepository
	sessions *repository.SessionRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, queue *jobs.Queue, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	offerRepo := repository.NewOfferRepository(db)

	draftSvc := service.NewDraftService(draftRepo, cache, cfg.Draft.CacheTTL, log)
	authSvc := service.NewAuthService(userRepo, sessionRepo, draftSvc, cfg, log)
	offerSvc := service.NewOfferService(offerRepo, draftSvc, queue, log)
	docSvc := service.NewDocumentService(documentRepo, store, store.DocumentsBucket(), cfg.Documents, cfg.Security.DownloadSecret, log)
	projectSvc := service.NewProjectService(projectRepo)
	leadSvc := service.NewLeadService(leadRepo, draftSvc)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     authSvc,
		drafts:   draftSvc,
		offers:   offerSvc,
		docs:     docSvc,
		projects: projectSvc,
		leads:    leadSvc,
		db:       db,
		cache:    cache,
		store:    store,
		users:    userRepo,
		sessions: sessionRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	authMW := middleware.Auth(h.cfg, h.users, h.sessions)

	{
		auth := v1.Group("/auth")
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		protected := v1.Group("/auth")
		protected.Use(authMW)
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)
	}

	apps := v1.Group("/applications")
	apps.Use(authMW)
	{
		apps.POST("/personal-details", h.SavePersonalDetails)
		apps.POST("/income-details", h.SaveIncomeDetails)
		apps.POST("/property-details", h.SavePropertyDetails)
		apps.POST("/co-applicant", h.SaveCoApplicant)
		apps.POST("/loan-type", h.SaveLoanType)
		apps.POST("/select-offer", h.SelectOffer)
		apps.POST("/clear-step", h.ClearStep)
		apps.POST("/back", h.PreviousStep)
		apps.POST("/reset", h.ResetDraft)

		apps.GET("/draft/:userId", h.GetDraft)
		apps.GET("/personal-details/:userId", h.GetPersonalDetails)
		apps.GET("/income-details/:userId", h.GetIncomeDetails)
		apps.GET("/property-details/:userId", h.GetPropertyDetails)
		apps.GET("/co-applicant-details/:userId", h.GetCoApplicant)
	}

	offers := v1.Group("/loan-offers")
	offers.Use(authMW)
	{
		offers.GET("/lfi-sanctions/:userId", h.ListSanctions)
		offers.GET("/lfi-sanction-letter/:userId", h.DownloadSanctionLetter)
		offers.GET("/:userId", h.CalculateOffers)
	}

	docs := v1.Group("/documents")
	docs.Use(authMW)
	{
		docs.POST("/upload-url", h.RequestUploadURL)
		docs.POST("/:id/confirm", h.ConfirmUpload)
		docs.GET("/:id/download", h.DownloadDocument)
		docs.GET("", h.ListDocuments)
	}

	// legacy path kept for clients still calling the old signing route
	s3 := v1.Group("/s3")
	s3.Use(authMW)
	s3.POST("/sign-upload", h.RequestUploadURL)

	builder := v1.Group("/builder")
	builder.Use(
		authMW,
		middleware.RequireRoles(models.UserRoleBuilder, models.UserRoleSuperAdmin),
	)
	{
		builder.GET("/projects", h.ListProjects)
		builder.POST("/projects", h.CreateProject)
		builder.GET("/projects/:id", h.GetProject)
		builder.PUT("/projects/:id", h.UpdateProject)
		builder.DELETE("/projects/:id", h.DeleteProject)
		builder.GET("/projects/:id/apf-documents", h.ListAPFDocuments)
		builder.POST("/projects/:id/apf-documents", h.AttachAPFDocument)
		builder.GET("/projects/:id/inventory", h.ListInventory)
		builder.POST("/projects/:id/inventory", h.AddInventoryUnit)
	}

	sales := v1.Group("/sales-manager")
	sales.Use(
		authMW,
		middleware.RequireRoles(
			models.UserRoleSalesManager,
			models.UserRoleLoanCoordinator,
			models.UserRoleLoanAdministrator,
			models.UserRoleSuperAdmin,
		),
	)
	{
		sales.GET("/leads/:salesManagerId", h.ListLeads)
		sales.POST("/leads/:salesManagerId", h.CreateLead)
		sales.GET("/leads/:salesManagerId/export", h.ExportLeads)
		sales.PUT("/leads/:salesManagerId/:leadId", h.UpdateLeadStatus)
		sales.GET("/sanctions/:salesManagerId", h.ListManagerSanctions)
		sales.POST("/sanctions/:salesManagerId", h.CreateSanction)
		sales.GET("/eligibility/:customerId", h.CustomerEligibility)
		sales.POST("/eligibility/:customerId", h.PrefillCustomerDraft)
	}

	admin := v1.Group("/admin")
	admin.Use(
		authMW,
		middleware.RequireRoles(models.UserRoleSuperAdmin),
	)
	admin.GET("/users", h.AdminListUsers)
	admin.PUT("/users/:id/status", h.AdminUpdateUserStatus)
}

// currentUser returns the authenticated user the auth middleware stored.
func currentUser(c *gin.Context) models.User {
	user, _ := c.Get(middleware.ContextUser)
	u, _ := user.(models.User)
	return u
}

// subjectUserID resolves the :userId on detail routes. Customers can only
// read their own record; staff roles may read any customer's.
func subjectUserID(c *gin.Context) (string, bool) {
	user := currentUser(c)
	target := c.Param("userId")
	if target == "" || target == user.ID {
		return user.ID, true
	}
	switch user.Role {
	case models.UserRoleSalesManager, models.UserRoleLoanCoordinator,
		models.UserRoleLoanAdministrator, models.UserRoleSuperAdmin:
		return target, true
	default:
		return "", false
	}
}
