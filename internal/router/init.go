package router

import (
	"fmt"

	"github.com/oksasatya/watchparty-api/internal/application"
	"github.com/oksasatya/watchparty-api/internal/container"
	"github.com/oksasatya/watchparty-api/internal/infrastructure/blobstore"
	"github.com/oksasatya/watchparty-api/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/watchparty-api/internal/infrastructure/postgres"
	"github.com/oksasatya/watchparty-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/watchparty-api/internal/interface/http"
	"github.com/oksasatya/watchparty-api/internal/router/modules"
	"github.com/oksasatya/watchparty-api/pkg/helpers"
)

const uploadsPath = "/uploads"

type appDeps struct {
	Accounts     *application.UserService
	Social       *application.SocialService
	WatchParties *application.WatchPartyService
}

func buildAvatarStore() (application.AvatarStore, error) {
	cfg := container.GetConfig()
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		return blobstore.NewGCSStore(gcs, cfg.GCSBucket), nil
	}
	return blobstore.NewLocalStore(cfg.UploadsDir, uploadsPath)
}

func buildNotifier() application.Notifier {
	cfg := container.GetConfig()
	// a nil *RabbitPublisher must not end up inside the interface
	var pub notify.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	return notify.NewQueueNotifier(pub, cfg.MailSendEnabled, container.GetLogger())
}

func buildUserIndex() application.UserIndex {
	es := container.GetES()
	if es == nil {
		return nil
	}
	return search.NewUserIndex(es, container.GetConfig().ESUsersIndex)
}

func buildDeps() (appDeps, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	parties := pginfra.NewWatchPartyRepository(container.GetPGPool())

	avatars, err := buildAvatarStore()
	if err != nil {
		return appDeps{}, fmt.Errorf("avatar store: %w", err)
	}
	notifier := buildNotifier()

	return appDeps{
		Accounts: application.NewUserService(
			users,
			helpers.NewBcryptHasher(cfg.BcryptCost),
			avatars,
			buildUserIndex(),
			notifier,
			logger,
		),
		Social:       application.NewSocialService(users, notifier, logger),
		WatchParties: application.NewWatchPartyService(users, parties, notifier, logger),
	}, nil
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()

	if container.GetGCS() == nil || cfg.GCSBucket == "" {
		r.Engine.Static(uploadsPath, cfg.UploadsDir)
	}

	r.Add(modules.NewAccountModule(
		handlers.NewAccountHandler(deps.Accounts, logger, cfg.MaxAvatarBytes),
		rdb,
		modules.AccountLimits{Signup: cfg.SignupRateLimit, Login: cfg.LoginRateLimit, Search: cfg.SearchRateLimit},
	))
	r.Add(modules.NewSocialModule(handlers.NewSocialHandler(deps.Social, logger)))
	r.Add(modules.NewWatchPartyModule(handlers.NewWatchPartyHandler(deps.WatchParties, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
	return nil
}
