// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/receipt-ledger/backend/config"
	"github.com/receipt-ledger/backend/internal/application/usecase/auth"
	"github.com/receipt-ledger/backend/internal/application/usecase/mapping"
	"github.com/receipt-ledger/backend/internal/application/usecase/sharedgroup"
	"github.com/receipt-ledger/backend/internal/application/usecase/transaction"
	"github.com/receipt-ledger/backend/internal/infra/db"
	"github.com/receipt-ledger/backend/internal/infra/server/router"
	"github.com/receipt-ledger/backend/internal/integration/adapters"
	"github.com/receipt-ledger/backend/internal/integration/cache"
	"github.com/receipt-ledger/backend/internal/integration/email"
	"github.com/receipt-ledger/backend/internal/integration/email/templates"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/receipt-ledger/backend/internal/integration/persistence"
)

// Injector wires all application dependencies together.
type Injector struct {
	Router      *router.Router
	EmailWorker *email.Worker

	redisClient *redis.Client
}

// NewInjector creates all repositories, services, use cases, controllers
// and the router from the given configuration and database connection.
func NewInjector(cfg *config.Config, database *db.Database) (*Injector, error) {
	gormDB := database.DB()

	// Repositories
	userRepo := persistence.NewUserRepository(gormDB)
	tokenRepo := persistence.NewTokenRepository(gormDB)
	groupRepo := persistence.NewGroupRepository(gormDB)
	transactionRepo := persistence.NewTransactionRepository(gormDB)
	mappingRepo := persistence.NewMappingRepository(gormDB)
	emailQueueRepo := persistence.NewEmailQueueRepository(gormDB)

	// Redis-backed mapping cache. The application works without Redis;
	// cache misses just fall through to the database.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	mappingCache := cache.NewMappingCache(redisClient, cfg.Redis.MappingTTL)

	// Services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenRepo)
	geminiService := adapters.NewGeminiService(cfg.Gemini.APIKey)
	emailService := email.NewService(emailQueueRepo)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	var emailWorker *email.Worker
	if cfg.Email.WorkerEnabled {
		if cfg.Email.ResendAPIKey == "" {
			slog.Warn("RESEND_API_KEY not set, email worker disabled")
		} else {
			sender := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
			emailWorker = email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
				PollInterval: cfg.Email.PollInterval,
				BatchSize:    cfg.Email.BatchSize,
			})
		}
	}

	appIDs := sharedgroup.NewAppIDValidator(cfg.Groups.AllowedAppIDs)

	// Auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Group use cases
	createGroupUseCase := sharedgroup.NewCreateGroupUseCase(groupRepo, userRepo)
	listGroupsUseCase := sharedgroup.NewListGroupsUseCase(groupRepo)
	getGroupUseCase := sharedgroup.NewGetGroupUseCase(groupRepo)
	inviteMemberUseCase := sharedgroup.NewInviteMemberUseCase(groupRepo, userRepo, emailService)
	cancelInvitationUseCase := sharedgroup.NewCancelInvitationUseCase(groupRepo)
	respondInvitationUseCase := sharedgroup.NewRespondInvitationUseCase(groupRepo, userRepo)
	leaveGroupUseCase := sharedgroup.NewLeaveGroupUseCase(groupRepo)
	transferOwnershipUseCase := sharedgroup.NewTransferOwnershipUseCase(groupRepo)
	toggleSharingUseCase := sharedgroup.NewToggleSharingUseCase(groupRepo)
	deleteAsOwnerUseCase := sharedgroup.NewDeleteGroupAsOwnerUseCase(groupRepo, transactionRepo, appIDs)
	deleteAsLastUseCase := sharedgroup.NewDeleteGroupAsLastMemberUseCase(groupRepo, transactionRepo, appIDs)

	// Mapping use cases
	applyMappingsUseCase := mapping.NewApplyMappingsUseCase(mappingRepo, mappingCache)
	upsertMappingUseCase := mapping.NewUpsertMappingUseCase(mappingRepo, mappingCache)
	listMappingsUseCase := mapping.NewListMappingsUseCase(mappingRepo, mappingCache)
	deleteMappingUseCase := mapping.NewDeleteMappingUseCase(mappingRepo, mappingCache)

	// Transaction use cases
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, groupRepo)
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, groupRepo)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)
	scanReceiptUseCase := transaction.NewScanReceiptUseCase(geminiService, applyMappingsUseCase)

	// Controllers
	healthController := controller.NewHealthController(database.HealthCheck)
	authController := controller.NewAuthController(registerUseCase, loginUseCase, refreshUseCase, logoutUseCase)
	groupController := controller.NewGroupController(
		createGroupUseCase,
		listGroupsUseCase,
		getGroupUseCase,
		inviteMemberUseCase,
		cancelInvitationUseCase,
		respondInvitationUseCase,
		leaveGroupUseCase,
		transferOwnershipUseCase,
		toggleSharingUseCase,
		deleteAsOwnerUseCase,
		deleteAsLastUseCase,
		cfg.Email.InviteBaseURL,
	)
	mappingController := controller.NewMappingController(upsertMappingUseCase, listMappingsUseCase, deleteMappingUseCase)
	transactionController := controller.NewTransactionController(
		createTransactionUseCase,
		listTransactionsUseCase,
		getTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		scanReceiptUseCase,
	)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	loginRateLimiter := middleware.NewRateLimiter()

	r := router.NewRouter(
		healthController,
		authController,
		groupController,
		mappingController,
		transactionController,
		authMiddleware,
		loginRateLimiter,
	)

	return &Injector{
		Router:      r,
		EmailWorker: emailWorker,
		redisClient: redisClient,
	}, nil
}

// Close releases resources held by the injector.
func (i *Injector) Close() error {
	if i.redisClient != nil {
		return i.redisClient.Close()
	}
	return nil
}
