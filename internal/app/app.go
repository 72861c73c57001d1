// Package app wires configuration into the running services.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ascendant/internal/cache"
	"ascendant/internal/config"
	"ascendant/internal/model"
	"ascendant/internal/repository"
	"ascendant/internal/service"
	"ascendant/internal/static"
	"ascendant/internal/transport/rest"
	"ascendant/internal/transport/ws"
)

const (
	pingTimeout   = 5 * time.Second
	sweepInterval = time.Minute
)

// App holds the wired components of one server process
type App struct {
	Questions      *model.QuestionSet
	Layout         *static.Layout
	Assets         fs.FS
	Sessions       cache.SessionCache
	SessionService *service.SessionService
	WSHub          *ws.Hub
	Router         http.Handler

	mongo  *mongo.Client
	redis  *redis.Client
	cancel context.CancelFunc
	logger *zap.Logger
}

// Build connects the optional backends and assembles the services
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	if err := a.connect(ctx, cfg); err != nil {
		a.Close(context.Background())
		return nil, err
	}

	questions, err := a.loadQuestions(ctx, cfg)
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}
	a.Questions = questions

	a.Assets = static.FS
	if cfg.StaticDir != "" {
		a.Assets = os.DirFS(cfg.StaticDir)
	}
	page, err := static.Page(a.Assets)
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}
	if a.Layout, err = static.ParseLayout(page); err != nil {
		a.Close(context.Background())
		return nil, fmt.Errorf("parse page: %w", err)
	}

	bg, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.redis != nil {
		a.Sessions = cache.NewSessionCache(a.redis, cfg.SessionTTL)
	} else {
		mem := cache.NewMemorySessionCache(cfg.SessionTTL)
		go mem.RunSweeper(bg, sweepInterval)
		a.Sessions = mem
	}

	a.SessionService = service.NewSessionService(
		a.Sessions,
		a.Questions,
		a.Layout,
		service.NewTokenService(cfg.SessionSecret, cfg.SessionTTL),
		logger,
	)
	a.WSHub = ws.NewHub(logger)
	a.SessionService.SetBroadcaster(a.WSHub)

	a.Router = rest.NewRouter(&rest.Container{
		SessionService: a.SessionService,
		WSHub:          a.WSHub,
		Assets:         a.Assets,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	return a, nil
}

// connect opens the clients named by the configuration and pings them
// concurrently
func (a *App) connect(ctx context.Context, cfg config.Config) error {
	if cfg.MongoURI != "" && cfg.QuestionsFile == "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		a.mongo = client
	}
	if cfg.RedisURI != "" {
		opts, err := redisOptions(cfg.RedisURI)
		if err != nil {
			return err
		}
		a.redis = redis.NewClient(opts)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(pingCtx)
	if a.mongo != nil {
		g.Go(func() error {
			if err := a.mongo.Ping(gctx, nil); err != nil {
				return fmt.Errorf("ping mongo: %w", err)
			}
			a.logger.Info("connected to MongoDB")
			return nil
		})
	}
	if a.redis != nil {
		g.Go(func() error {
			if err := a.redis.Ping(gctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			a.logger.Info("connected to Redis")
			return nil
		})
	}
	return g.Wait()
}

// redisOptions accepts a redis:// URL or a bare host:port
func redisOptions(uri string) (*redis.Options, error) {
	if !strings.Contains(uri, "://") {
		return &redis.Options{Addr: uri}, nil
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}
	return opts, nil
}

func (a *App) loadQuestions(ctx context.Context, cfg config.Config) (*model.QuestionSet, error) {
	var (
		repo   repository.QuestionRepo
		source string
		err    error
	)
	switch {
	case cfg.QuestionsFile != "":
		source = cfg.QuestionsFile
		if repo, err = repository.NewFileQuestionRepo(cfg.QuestionsFile); err != nil {
			return nil, err
		}
	case a.mongo != nil:
		source = "mongodb"
		repo = repository.NewSurveyRepo(a.mongo.Database(cfg.MongoDatabase))
	default:
		source = "embedded"
		repo = repository.NewDefaultQuestionRepo()
	}

	set, err := repo.GetSet(ctx, cfg.QuestionsSurvey)
	if errors.Is(err, repository.ErrSetNotFound) && a.mongo != nil {
		a.logger.Warn("question set not seeded, using embedded list",
			zap.String("set", cfg.QuestionsSurvey))
		source = "embedded"
		set, err = repository.NewDefaultQuestionRepo().GetSet(ctx, cfg.QuestionsSurvey)
	}
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	if len(set.Questions) == 0 {
		a.logger.Warn("question set is empty, the assessment will not be shown",
			zap.String("source", source),
			zap.String("set", cfg.QuestionsSurvey))
		return set, nil
	}
	a.logger.Info("questions loaded",
		zap.String("source", source),
		zap.String("set", set.Key),
		zap.Int("count", len(set.Questions)),
	)
	return set, nil
}

// Close stops the hub and the sweeper and releases backend clients
func (a *App) Close(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.WSHub != nil {
		a.WSHub.Close()
	}

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
