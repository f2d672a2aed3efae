// Package grpc runs the gRPC health endpoint of the admin server. Its
// status follows the reachability of the entity store.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") health status.
const ServiceName = "collectadmin"

const pingTimeout = 2 * time.Second

// Pinger checks the store. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StatusObserver is notified of each health check result.
type StatusObserver func(up bool)

type GRPCServer struct {
	address  string
	store    Pinger
	interval time.Duration
	observe  StatusObserver
	health   *health.Server
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, store Pinger, interval time.Duration, observe StatusObserver) *GRPCServer {
	if observe == nil {
		observe = func(bool) {}
	}
	return &GRPCServer{
		address:  a,
		store:    store,
		interval: interval,
		observe:  observe,
		health:   health.NewServer(),
		logger:   l.With("module", "grpc_server"),
	}
}

// check pings the store once and publishes the result.
func (s *GRPCServer) check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	up := s.store.PingContext(pingCtx) == nil

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if up {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	s.observe(up)

	return up
}

// watch re-checks the store every interval until ctx is done. A
// non-positive interval checks once.
func (s *GRPCServer) watch(ctx context.Context) {
	last := s.check(ctx)
	if s.interval <= 0 {
		s.logger.Warn(ctx, "store health watch disabled", "interval", s.interval)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			up := s.check(ctx)
			if up != last {
				s.logger.Warn(ctx, "store health changed", "up", up)
				last = up
			}
		}
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
