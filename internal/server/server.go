//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/booking"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

type Engine interface {
	CreateClient(ctx context.Context, in booking.ClientInput) (*repository.Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, patch booking.ClientPatch) (*repository.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*repository.Client, error)
	ListClients(ctx context.Context, includeArchived bool) ([]*repository.Client, error)
	RemoveClient(ctx context.Context, id uuid.UUID) (booking.Outcome, error)

	CreateItem(ctx context.Context, in booking.ItemInput) (*booking.ItemView, error)
	UpdateItem(ctx context.Context, id uuid.UUID, patch booking.ItemPatch) (*booking.ItemView, error)
	GetItem(ctx context.Context, id uuid.UUID) (*booking.ItemView, error)
	ListItems(ctx context.Context, includeArchived bool) ([]*repository.Item, error)
	RemoveItem(ctx context.Context, id uuid.UUID) (booking.Outcome, error)
	ProjectAvailability(ctx context.Context, itemID uuid.UUID, period *booking.Period, excludeOrderID int64) (*booking.ItemView, error)

	CreateVariant(ctx context.Context, itemID uuid.UUID, in booking.VariantInput) (*booking.VariantView, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, patch booking.VariantPatch) (*booking.VariantView, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*booking.VariantView, error)
	RemoveVariant(ctx context.Context, id uuid.UUID) (booking.Outcome, error)
	CheckAvailability(ctx context.Context, variantID uuid.UUID, period booking.Period, excludeOrderID int64) (booking.Availability, error)

	CreateOrder(ctx context.Context, in booking.CreateOrderInput) (*booking.OrderDetails, error)
	UpdateOrder(ctx context.Context, orderID int64, in booking.UpdateOrderInput) (*booking.OrderDetails, error)
	GetOrder(ctx context.Context, orderID int64) (*booking.OrderDetails, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*repository.Order, error)
	RemoveOrder(ctx context.Context, id int64) (booking.Outcome, error)
}

var _ Engine = (*booking.Engine)(nil)

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

type Server struct {
	engine   Engine
	userRepo UserRepo
	logger   *zap.Logger
	server   *http.Server
}

func New(engine Engine, userRepo UserRepo, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:   engine,
		userRepo: userRepo,
		logger:   logger.Named("http"),
	}
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run blocks until the listener fails or Shutdown is called. A Shutdown that
// lands before Run makes Run return immediately.
func (s *Server) Run(port string) error {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("http server shutdown completed")
	return nil
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestLogMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	api.Use(s.basicAuthMiddleware)

	api.HandleFunc("/clients", s.handleCreateClient).Methods(http.MethodPost)
	api.HandleFunc("/clients", s.handleListClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", s.handleGetClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", s.handleUpdateClient).Methods(http.MethodPatch)
	api.HandleFunc("/clients/{id}", s.handleRemoveClient).Methods(http.MethodDelete)

	api.HandleFunc("/items", s.handleCreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items", s.handleListItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", s.handleGetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", s.handleUpdateItem).Methods(http.MethodPatch)
	api.HandleFunc("/items/{id}", s.handleRemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/availability", s.handleItemAvailability).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}/variants", s.handleCreateVariant).Methods(http.MethodPost)

	api.HandleFunc("/variants/{id}", s.handleGetVariant).Methods(http.MethodGet)
	api.HandleFunc("/variants/{id}", s.handleUpdateVariant).Methods(http.MethodPatch)
	api.HandleFunc("/variants/{id}", s.handleRemoveVariant).Methods(http.MethodDelete)
	api.HandleFunc("/variants/{id}/availability", s.handleVariantAvailability).Methods(http.MethodGet)

	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.handleUpdateOrder).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}", s.handleRemoveOrder).Methods(http.MethodDelete)

	return router
}
