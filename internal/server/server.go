package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/api"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/config"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/database"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/hint"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/limiter"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/queue"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/worker"
)

type Server struct {
	conf        *config.Config
	logger      *zerolog.Logger
	httpServer  *http.Server
	db          *database.Database
	engine      *engine.Engine
	queue       *queue.Manager
	workers     []*worker.Worker
	rateLimiter *limiter.RateLimiter
	cancelFunc  context.CancelFunc
}

func New(conf *config.Config, logger *zerolog.Logger) (*Server, error) {
	// The submission store is optional: without DB_HOST the service still
	// evaluates code, it just keeps no history.
	var db *database.Database
	if conf.Db.Host != "" {
		var err error
		db, err = database.New(conf, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	} else {
		logger.Info().Msg("DB_HOST not set, submission history disabled")
	}

	eng := engine.New(engine.Config{
		JavacPath:      conf.Engine.JavacPath,
		JavaPath:       conf.Engine.JavaPath,
		WorkDir:        conf.Engine.WorkDir,
		CompileTimeout: conf.Engine.CompileTimeout,
		ExecuteTimeout: conf.Engine.ExecuteTimeout,
	}, logger)

	q := queue.NewManager(conf.Worker.QueueSize)

	// 100 req/sec global, 10 req/sec per IP, 50 concurrent evaluations.
	rl := limiter.NewRateLimiter(100, 10, 20, 50)
	rl.StartCleanup(5 * time.Minute)

	var hints hint.Provider = hint.Disabled{}
	if conf.LLM.Enabled {
		hints = hint.NewOpenAI(conf.LLM.BaseURL, conf.LLM.Model, conf.LLM.APIKey, logger)
		logger.Info().Str("base_url", conf.LLM.BaseURL).Msg("LLM hints enabled")
	}

	// A submission can wait in the queue, then spend the compile and the
	// execute deadline; give the handler room beyond that before it gives up.
	waitTimeout := conf.Engine.CompileTimeout + conf.Engine.ExecuteTimeout + 15*time.Second
	handler := api.NewHandler(q, db, hints, logger, waitTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handler.Health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/submit-code", rl.Middleware(handler.SubmitCode))
	mux.HandleFunc("/api/history", handler.History)

	httpServer := &http.Server{
		Addr:         ":" + conf.Server.Port,
		Handler:      mux,
		ReadTimeout:  time.Duration(conf.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(conf.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(conf.Server.IdleTimeout) * time.Second,
	}

	workers := make([]*worker.Worker, conf.Worker.Count)
	for i := 0; i < conf.Worker.Count; i++ {
		workers[i] = worker.NewWorker(i, eng, q, logger)
	}

	return &Server{
		conf:        conf,
		logger:      logger,
		httpServer:  httpServer,
		db:          db,
		engine:      eng,
		queue:       q,
		workers:     workers,
		rateLimiter: rl,
	}, nil
}

func (s *Server) Start() error {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure database schema: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFunc = cancel
	for _, w := range s.workers {
		go w.Start(ctx)
	}

	s.logger.Info().
		Str("port", s.conf.Server.Port).
		Int("workers", s.conf.Worker.Count).
		Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if s.db != nil {
		_ = s.db.Close()
	}
	return nil
}
