// Package server exposes the single-user session over local HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/notify"
	"github.com/verifield/verifield/types"
)

// Backend is the session the server exposes. *verifield.App implements it.
type Backend interface {
	Status() types.StatusView
	Snapshot() types.ConnectivitySnapshot
	Subscribe(fn func(types.ConnectionState)) (cancel func())

	ConnectWallet(ctx context.Context)
	SwitchChain(ctx context.Context, chainID types.ChainID)
	DisconnectWallet(ctx context.Context) error

	Wallet(ctx context.Context) (*types.WalletOverview, error)
	RefreshWallet(ctx context.Context) (*types.WalletOverview, error)
	Mint(ctx context.Context, draft *types.MintFormDraft) (*types.MintResult, error)

	Notifications(since uint64) []notify.Notification
	Chains() []types.Chain
	MetricsHandler() http.Handler
}

const shutdownTimeout = 5 * time.Second

type Server struct {
	backend Backend
	log     logger.Logger
	router  *chi.Mux
	version string
}

// New builds the router. log may be nil.
func New(backend Backend, log logger.Logger, version string) *Server {
	if log == nil {
		log = logger.NoopLogger{}
	}
	s := &Server{
		backend: backend,
		log:     log,
		router:  chi.NewRouter(),
		version: version,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Get("/health", s.handleHealth)

	r.Get("/status", s.handleStatus)
	r.Get("/status/stream", s.handleStatusStream)

	r.Route("/wallet", func(r chi.Router) {
		r.Get("/", s.handleWallet)
		r.Post("/connect", s.handleConnect)
		r.Post("/switch", s.handleSwitch)
		r.Post("/disconnect", s.handleDisconnect)
		r.Post("/refresh", s.handleRefreshWallet)
	})

	r.Post("/mint", s.handleMint)
	r.Get("/notifications", s.handleNotifications)
	r.Get("/chains", s.handleChains)

	if h := s.backend.MetricsHandler(); h != nil {
		r.Method(http.MethodGet, "/metrics", h)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http server stopping", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request", map[string]any{
			"requestId": middleware.GetReqID(r.Context()),
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"duration":  time.Since(start),
		})
	})
}
