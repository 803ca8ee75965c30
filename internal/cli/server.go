package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caregiver-aptitude-service/internal/app"
	"caregiver-aptitude-service/internal/config"
	"caregiver-aptitude-service/internal/infra/memory"
	pgstore "caregiver-aptitude-service/internal/infra/postgres"
	redisstore "caregiver-aptitude-service/internal/infra/redis"
	"caregiver-aptitude-service/internal/scoring"
	transport "caregiver-aptitude-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the diagnosis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(scoring.DefaultQuiz())
	var results app.ResultRepository = memory.NewResultStore()

	if cfg.Postgres.URL != "" {
		db := openBunDB(cfg.Postgres.URL)
		defer db.Close()
		if err := runMigrations(ctx, db, log); err != nil {
			return err
		}
		// Keep the built-in quiz available after a fresh migration.
		if err := pgstore.SaveQuiz(ctx, db, scoring.DefaultQuiz()); err != nil {
			return err
		}

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		loader = pgstore.NewQuizLoader(pool)
		results = pgstore.NewResultStore(db)
		log.Info("using postgres for quizzes and diagnoses")
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository = memory.NewQuizRepository(loader, quizTTL)
	var feeds app.FeedRepository = memory.NewFeedStore()

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}

		redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL, log)
		feeds = redisstore.NewFeedStore(redisClient, redisTTL)
		if cfg.Postgres.URL == "" {
			results = redisstore.NewResultStore(redisClient)
		}
		log.Info("using redis for quiz cache and feeds", zap.String("addr", cfg.Redis.Addr))
	}

	service := app.NewDiagnosisService(quizRepo, results, feeds, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	transport.NewRESTHandler(service, log).Register(mux)
	mux.HandleFunc("/ws", transport.NewWSHandler(service, log).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting aptitude service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
