package transport

import (
	"fmt"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/adamgarcia4/goLearning/rhocollide/rho"
)

// SearchService is the health service name that follows the search phase
const SearchService = "rhocollide.Search"

// GRPC serves the standard grpc.health.v1 service. The overall server health
// ("") is SERVING while the process runs; SearchService is SERVING while an
// attempt is active and NOT_SERVING once it has reported or failed.
type GRPC struct {
	addr   string
	srv    *grpc.Server
	lis    net.Listener
	health *health.Server
}

func (g *GRPC) setupTcp() (net.Listener, error) {
	lis, err := net.Listen("tcp", g.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	return lis, nil
}

func (g *GRPC) setupServices() {
	healthpb.RegisterHealthServer(g.srv, g.health)
	g.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	g.health.SetServingStatus(SearchService, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Start performs binding synchronously and returns an error immediately if binding fails.
// If binding succeeds, it spawns Serve in a goroutine and returns nil.
func (g *GRPC) Start() error {
	lis, err := g.setupTcp()
	if err != nil {
		return fmt.Errorf("failed to setup TCP: %w", err)
	}
	g.lis = lis

	g.setupServices()

	// Register reflection service for gRPC tools (grpcurl, grpcui, etc.)
	reflection.Register(g.srv)

	go g.srv.Serve(g.lis)
	return nil
}

// Addr returns the bound address, valid after Start
func (g *GRPC) Addr() string {
	if g.lis == nil {
		return g.addr
	}
	return g.lis.Addr().String()
}

// ObservePhase is a rho.PhaseFunc mirroring the search phase into SearchService health
func (g *GRPC) ObservePhase(_ string, phase rho.Phase) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if phase.Active() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus(SearchService, status)
}

// Stop marks every service NOT_SERVING and stops the server gracefully
func (g *GRPC) Stop() error {
	g.health.Shutdown()
	g.srv.GracefulStop()
	return nil
}

// NewGRPC creates a server for addr (host:port)
func NewGRPC(addr string) (*GRPC, error) {
	if addr == "" || !strings.Contains(addr, ":") {
		return nil, fmt.Errorf("invalid address: %s", addr)
	}

	return &GRPC{
		addr:   addr,
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}, nil
}
