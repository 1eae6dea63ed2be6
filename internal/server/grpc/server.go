package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/metrics"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/dmitrijs2005/rewear/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*services.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*auth.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	SignOut(ctx context.Context, sess *auth.Session) error
	Profile(ctx context.Context, sess *auth.Session) (*models.User, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, sess *auth.Session, draft services.ItemDraft) (*models.Item, error)
	GetItem(ctx context.Context, sess *auth.Session, id string) (*services.ItemView, error)
	ListItems(ctx context.Context, sess *auth.Session, filter models.ItemFilter) ([]*models.Item, error)
	ResubmitItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error)
	DeleteOwnItem(ctx context.Context, sess *auth.Session, id string) error
}

type ExchangeService interface {
	RequestSwap(ctx context.Context, sess *auth.Session, itemID string) (*models.SwapRequest, error)
	Redeem(ctx context.Context, sess *auth.Session, itemID string) (*services.RedeemResult, error)
	RespondSwap(ctx context.Context, sess *auth.Session, requestID string, accept bool) (*models.SwapRequest, error)
	ListSwapRequests(ctx context.Context, sess *auth.Session) ([]*models.SwapRequest, error)
	Ledger(ctx context.Context, sess *auth.Session, limit int) ([]*models.PointTransaction, error)
}

type ModerationService interface {
	ApproveItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error)
	RejectItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error)
	UnapproveItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error)
	DeleteItem(ctx context.Context, sess *auth.Session, id string) error
	ListUsers(ctx context.Context, sess *auth.Session) ([]*models.User, error)
	SetUserRole(ctx context.Context, sess *auth.Session, userID string, role models.Role) error
	AdjustPoints(ctx context.Context, sess *auth.Session, userID string, delta int64, reason string) (int64, error)
	RejectSwapRequest(ctx context.Context, sess *auth.Session, requestID string) (*models.SwapRequest, error)
	ListSwapRequests(ctx context.Context, sess *auth.Session, status models.SwapStatus) ([]*models.SwapRequest, error)
}

// Services groups the business services exposed over gRPC.
type Services struct {
	Users      UserService
	Items      ItemService
	Exchange   ExchangeService
	Moderation ModerationService
}

type GRPCServer struct {
	address    string
	users      UserService
	items      ItemService
	exchange   ExchangeService
	moderation ModerationService
	logger     logging.Logger
	metrics    *metrics.Metrics
}

var _ api.Server = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, m *metrics.Metrics, svc Services) (*GRPCServer, error) {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		metrics:    m,
		users:      svc.Users,
		items:      svc.Items,
		exchange:   svc.Exchange,
		moderation: svc.Moderation,
	}, nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.observeInterceptor, s.accessTokenInterceptor))
	api.RegisterServer(srv, s)
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

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	<-stopped
	return nil
}
