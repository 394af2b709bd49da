package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/JUDEBARNABAS/atim/internal/config"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/infra/logging"
	"github.com/JUDEBARNABAS/atim/internal/usecase"
)

// Server wires the chat routes to the use cases.
type Server struct {
	converseUC  usecase.ConverseUseCase
	translateUC usecase.TranslateUseCase
	langs       *model.LanguageRegistry
	session     config.SessionConfig
	log         *zerolog.Logger
}

func NewServer(
	converseUC usecase.ConverseUseCase,
	translateUC usecase.TranslateUseCase,
	langs *model.LanguageRegistry,
	session config.SessionConfig,
	logger *zerolog.Logger,
) *Server {
	srvLog := logger.With().Str("component", "web").Logger()
	return &Server{
		converseUC:  converseUC,
		translateUC: translateUC,
		langs:       langs,
		session:     session,
		log:         &srvLog,
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.homeHandler())
	r.Post("/chat_with_ai", s.chatWithAIHandler())
	r.Post("/translate_simple", s.translateSimpleHandler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logging.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
