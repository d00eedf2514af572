// Package httpapi serves the /v1 REST routes over the sign services.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/signkeeper/internal/logging"
	"github.com/dmitrijs2005/signkeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	auth    *services.AuthService
	users   *services.UserService
	tokens  services.TokenVerifier
	logger  logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, as *services.AuthService, us *services.UserService, tv services.TokenVerifier) *HTTPServer {
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		auth:    as,
		users:   us,
		tokens:  tv,
	}
}

// Handler returns the router with every route and middleware installed.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLog)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/signin", s.signin).Methods(http.MethodGet)
	v1.HandleFunc("/signup", s.signup).Methods(http.MethodGet)
	v1.HandleFunc("/signin/{provider}", s.signinByProvider).Methods(http.MethodPost)
	v1.HandleFunc("/signup/{provider}", s.signupProvider).Methods(http.MethodPost)

	protected := v1.NewRoute().Subrouter()
	protected.Use(s.requireUser)
	protected.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	protected.HandleFunc("/user", s.currentUser).Methods(http.MethodGet)
	protected.HandleFunc("/user", s.updateUser).Methods(http.MethodPut)
	protected.HandleFunc("/user/{id:[0-9]+}", s.deleteUser).Methods(http.MethodDelete)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
