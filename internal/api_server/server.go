package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/erbench/erbench/internal/config"
	"github.com/erbench/erbench/internal/events"
	"github.com/erbench/erbench/internal/handlers"
	"github.com/erbench/erbench/internal/notify"
	"github.com/erbench/erbench/internal/service"
	"github.com/erbench/erbench/internal/store"
	"github.com/erbench/erbench/pkg/metrics"
	"github.com/erbench/erbench/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg         *config.Config
	store       store.Store
	listener    net.Listener
	eventWriter *events.EventProducer
}

// New returns a new instance of the erbench API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	eventWriter *events.EventProducer,
) *Server {
	return &Server{
		cfg:         cfg,
		store:       store,
		listener:    listener,
		eventWriter: eventWriter,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
		middleware.BearerGate(s.cfg.Service.AuthToken),
	)

	jobHandler := handlers.NewJobHandler(
		service.NewJobService(s.store, notify.NewLogNotifier(), s.eventWriter),
	)
	predictionHandler := handlers.NewPredictionHandler(
		service.NewPredictionService(s.store),
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/datasets", jobHandler.ListDatasets)
		r.Get("/algorithms", jobHandler.ListAlgorithms)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.ListJobs)
			r.Post("/", jobHandler.SubmitJob)
			r.Post("/query", jobHandler.QueryJobs)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", jobHandler.GetJob)
				r.Put("/", jobHandler.UpdateJob)
				r.Get("/result", jobHandler.GetJobResult)
				r.Put("/result", jobHandler.UpdateJobResult)

				r.Route("/predictions", func(r chi.Router) {
					r.Get("/", predictionHandler.ListPredictions)
					r.Post("/", predictionHandler.AppendPredictions)
					r.Post("/query", predictionHandler.QueryPredictions)
					r.Get("/csv", predictionHandler.ExportCSV)
				})
			})
		})
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
