// Package grpc exposes the sign services over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/signkeeper/internal/logging"
	pb "github.com/dmitrijs2005/signkeeper/internal/proto"
	"github.com/dmitrijs2005/signkeeper/internal/server/services"
)

type GRPCServer struct {
	address string
	auth    *services.AuthService
	users   *services.UserService
	tokens  services.TokenVerifier
	logger  logging.Logger
}

var _ pb.SignServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, as *services.AuthService, us *services.UserService, tv services.TokenVerifier) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		users:   us,
		tokens:  tv,
	}
}

// newServer builds the grpc.Server with interceptors and the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))
	pb.RegisterSignServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
