package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/booking"
	mock_server "gitlab.ozon.dev/pupkingeorgij/rental/internal/server/mocks"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

func newTestServer(t *testing.T) (*Server, *mock_server.MockEngine, *mock_server.MockUserRepo) {
	ctrl := gomock.NewController(t)
	engine := mock_server.NewMockEngine(ctrl)
	users := mock_server.NewMockUserRepo(ctrl)
	return New(engine, users, zap.NewNop()), engine, users
}

func day(s string) time.Time {
	t, err := time.Parse(booking.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHandleCreateOrder(t *testing.T) {
	clientID := uuid.New()
	variantID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(engine *mock_server.MockEngine)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful order creation",
			body: `{"client_id":"` + clientID.String() + `","start_time":"2025-07-01","end_time":"2025-07-03",
				"lines":[{"variant_id":"` + variantID.String() + `","quantity":1,"price":500,"deposit":1000}]}`,
			setupMocks: func(engine *mock_server.MockEngine) {
				engine.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, in booking.CreateOrderInput) (*booking.OrderDetails, error) {
						assert.Equal(t, clientID, in.ClientID)
						assert.Equal(t, booking.NewPeriod(day("2025-07-01"), day("2025-07-03")), in.Period)
						require.Len(t, in.Lines, 1)
						assert.Equal(t, variantID, in.Lines[0].VariantID)
						return &booking.OrderDetails{Order: repository.Order{ID: 7, Status: repository.OrderBooked}}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid request body",
			body:           `{"client_id":`,
			setupMocks:     func(*mock_server.MockEngine) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
		{
			name:           "invalid date format",
			body:           `{"client_id":"` + clientID.String() + `","start_time":"01.07.2025","end_time":"2025-07-03"}`,
			setupMocks:     func(*mock_server.MockEngine) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
		{
			name: "unavailable variants",
			body: `{"client_id":"` + clientID.String() + `","start_time":"2025-07-01","end_time":"2025-07-03"}`,
			setupMocks: func(engine *mock_server.MockEngine) {
				engine.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, &booking.Error{
					Op:      "CreateOrder",
					Kind:    booking.KindConflict,
					Message: "requested variants are unavailable",
					Reasons: []string{"variant a: booked by order 3", "variant b: maintenance until 2025-07-02"},
				})
			},
			expectedStatus: http.StatusConflict,
			expectedBody: `{"error":"requested variants are unavailable",
				"reasons":["variant a: booked by order 3","variant b: maintenance until 2025-07-02"]}`,
		},
		{
			name: "internal error is not leaked",
			body: `{"client_id":"` + clientID.String() + `","start_time":"2025-07-01","end_time":"2025-07-03"}`,
			setupMocks: func(engine *mock_server.MockEngine) {
				engine.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal error"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, engine, _ := newTestServer(t)
			tc.setupMocks(engine)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			server.handleCreateOrder(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestHandleUpdateOrder_LinesPresence(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantLines bool
	}{
		{name: "omitted lines", body: `{"status":"booked_paid"}`, wantLines: false},
		{name: "explicit empty lines", body: `{"lines":[]}`, wantLines: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, engine, _ := newTestServer(t)
			engine.EXPECT().
				UpdateOrder(gomock.Any(), int64(42), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ int64, in booking.UpdateOrderInput) (*booking.OrderDetails, error) {
					assert.Equal(t, tc.wantLines, in.Lines != nil)
					return &booking.OrderDetails{Order: repository.Order{ID: 42}}, nil
				})

			req := httptest.NewRequest(http.MethodPatch, "/orders/42", strings.NewReader(tc.body))
			req = mux.SetURLVars(req, map[string]string{"id": "42"})
			rr := httptest.NewRecorder()

			server.handleUpdateOrder(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestHandleUpdateOrder_Dates(t *testing.T) {
	server, engine, _ := newTestServer(t)
	engine.EXPECT().
		UpdateOrder(gomock.Any(), int64(5), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, in booking.UpdateOrderInput) (*booking.OrderDetails, error) {
			require.NotNil(t, in.Start)
			assert.True(t, day("2025-07-10").Equal(*in.Start))
			assert.Nil(t, in.End)
			return nil, &booking.Error{Kind: booking.KindBadRequest, Message: "start must not be after end"}
		})

	req := httptest.NewRequest(http.MethodPatch, "/orders/5", strings.NewReader(`{"start_time":"2025-07-10"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "5"})
	rr := httptest.NewRecorder()

	server.handleUpdateOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"start must not be after end"}`, rr.Body.String())
}

func TestHandleGetOrder(t *testing.T) {
	tests := []struct {
		name           string
		orderID        string
		setupMocks     func(engine *mock_server.MockEngine)
		expectedStatus int
	}{
		{
			name:    "found",
			orderID: "3",
			setupMocks: func(engine *mock_server.MockEngine) {
				engine.EXPECT().GetOrder(gomock.Any(), int64(3)).
					Return(&booking.OrderDetails{Order: repository.Order{ID: 3}, Paid: 500}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "not found",
			orderID: "4",
			setupMocks: func(engine *mock_server.MockEngine) {
				engine.EXPECT().GetOrder(gomock.Any(), int64(4)).
					Return(nil, &booking.Error{Kind: booking.KindNotFound, Message: "order 4 not found"})
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			orderID:        "abc",
			setupMocks:     func(*mock_server.MockEngine) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, engine, _ := newTestServer(t)
			tc.setupMocks(engine)

			req := httptest.NewRequest(http.MethodGet, "/orders/"+tc.orderID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tc.orderID})
			rr := httptest.NewRecorder()

			server.handleGetOrder(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestHandleListOrders(t *testing.T) {
	clientID := uuid.New()

	t.Run("filters are parsed", func(t *testing.T) {
		server, engine, _ := newTestServer(t)
		engine.EXPECT().
			ListOrders(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f repository.OrderFilter) ([]*repository.Order, error) {
				assert.Equal(t, clientID, f.ClientID)
				assert.Equal(t, repository.OrderIssued, f.Status)
				require.NotNil(t, f.From)
				require.NotNil(t, f.To)
				assert.True(t, day("2025-07-01").Equal(*f.From))
				assert.True(t, day("2025-07-31").Equal(*f.To))
				assert.True(t, f.IncludeArchived)
				assert.Equal(t, 20, f.Limit)
				return []*repository.Order{{ID: 1}}, nil
			})

		url := "/orders?client_id=" + clientID.String() + "&status=issued&from=2025-07-01&to=2025-07-31&include_archived=true&limit=20"
		rr := httptest.NewRecorder()
		server.handleListOrders(rr, httptest.NewRequest(http.MethodGet, url, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	for _, query := range []string{"client_id=nope", "from=2025/07/01", "limit=0"} {
		t.Run("invalid "+query, func(t *testing.T) {
			server, _, _ := newTestServer(t)
			rr := httptest.NewRecorder()
			server.handleListOrders(rr, httptest.NewRequest(http.MethodGet, "/orders?"+query, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandleItemAvailability(t *testing.T) {
	itemID := uuid.New()

	t.Run("projects onto the period", func(t *testing.T) {
		server, engine, _ := newTestServer(t)
		want := booking.NewPeriod(day("2025-07-01"), day("2025-07-05"))
		engine.EXPECT().
			ProjectAvailability(gomock.Any(), itemID, &want, int64(9)).
			Return(&booking.ItemView{Item: repository.Item{ID: itemID}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/items/"+itemID.String()+"/availability?start=2025-07-01&end=2025-07-05&exclude_order_id=9", nil)
		req = mux.SetURLVars(req, map[string]string{"id": itemID.String()})
		rr := httptest.NewRecorder()

		server.handleItemAvailability(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("without a period", func(t *testing.T) {
		server, engine, _ := newTestServer(t)
		engine.EXPECT().
			ProjectAvailability(gomock.Any(), itemID, gomock.Nil(), int64(0)).
			Return(&booking.ItemView{Item: repository.Item{ID: itemID}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/items/"+itemID.String()+"/availability", nil)
		req = mux.SetURLVars(req, map[string]string{"id": itemID.String()})
		rr := httptest.NewRecorder()

		server.handleItemAvailability(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("half a period", func(t *testing.T) {
		server, _, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/items/"+itemID.String()+"/availability?start=2025-07-01", nil)
		req = mux.SetURLVars(req, map[string]string{"id": itemID.String()})
		rr := httptest.NewRecorder()

		server.handleItemAvailability(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleVariantAvailability(t *testing.T) {
	variantID := uuid.New()

	t.Run("unavailable", func(t *testing.T) {
		server, engine, _ := newTestServer(t)
		engine.EXPECT().
			CheckAvailability(gomock.Any(), variantID, booking.NewPeriod(day("2025-07-01"), day("2025-07-02")), int64(0)).
			Return(booking.Availability{VariantID: variantID, Reason: "booked by order 3", ConflictOrderID: 3}, nil)

		req := httptest.NewRequest(http.MethodGet, "/variants/x/availability?start=2025-07-01&end=2025-07-02", nil)
		req = mux.SetURLVars(req, map[string]string{"id": variantID.String()})
		rr := httptest.NewRecorder()

		server.handleVariantAvailability(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got booking.Availability
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.False(t, got.Available)
		assert.Equal(t, int64(3), got.ConflictOrderID)
	})

	t.Run("period required", func(t *testing.T) {
		server, _, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/variants/x/availability", nil)
		req = mux.SetURLVars(req, map[string]string{"id": variantID.String()})
		rr := httptest.NewRecorder()

		server.handleVariantAvailability(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleRemove(t *testing.T) {
	id := uuid.New()

	t.Run("client archived", func(t *testing.T) {
		server, engine, _ := newTestServer(t)
		engine.EXPECT().RemoveClient(gomock.Any(), id).Return(booking.Archived, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/clients/"+id.String(), nil), map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()
		server.handleRemoveClient(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"outcome":"archived"}`, rr.Body.String())
	})

	t.Run("item blocked by active orders", func(t *testing.T) {
		server, engine, _ := newTestServer(t)
		engine.EXPECT().RemoveItem(gomock.Any(), id).
			Return(booking.Outcome(""), &booking.Error{Kind: booking.KindBadRequest, Message: "item has active orders"})

		req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/items/"+id.String(), nil), map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()
		server.handleRemoveItem(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("order deleted", func(t *testing.T) {
		server, engine, _ := newTestServer(t)
		engine.EXPECT().RemoveOrder(gomock.Any(), int64(12)).Return(booking.Deleted, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/orders/12", nil), map[string]string{"id": "12"})
		rr := httptest.NewRecorder()
		server.handleRemoveOrder(rr, req)

		assert.JSONEq(t, `{"outcome":"deleted"}`, rr.Body.String())
	})
}

func TestHandleCreateItem_VariantDates(t *testing.T) {
	server, engine, _ := newTestServer(t)
	engine.EXPECT().
		CreateItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in booking.ItemInput) (*booking.ItemView, error) {
			assert.Equal(t, "Evening dress", in.Title)
			require.Len(t, in.Variants, 1)
			v := in.Variants[0]
			assert.Equal(t, "M", v.Size)
			assert.Equal(t, repository.VariantRepair, v.Status)
			require.NotNil(t, v.ServiceEnd)
			assert.True(t, day("2025-07-04").Equal(*v.ServiceEnd))
			return &booking.ItemView{Item: repository.Item{Title: in.Title}}, nil
		})

	body := `{"title":"Evening dress","variants":[{"size":"M","status":"repair",
		"service_start":"2025-07-01","service_end":"2025-07-04","prices":[{"amount":500,"deposit":1000,"price_type":"day"}]}]}`
	rr := httptest.NewRecorder()
	server.handleCreateItem(rr, httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestHandleUpdateItem_VariantUpserts(t *testing.T) {
	itemID, keep := uuid.New(), uuid.New()
	server, engine, _ := newTestServer(t)
	engine.EXPECT().
		UpdateItem(gomock.Any(), itemID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p booking.ItemPatch) (*booking.ItemView, error) {
			require.Len(t, p.Variants, 2)
			assert.Equal(t, keep, p.Variants[0].ID)
			require.NotNil(t, p.Variants[0].Color)
			assert.Equal(t, "red", *p.Variants[0].Color)
			assert.Equal(t, uuid.Nil, p.Variants[1].ID)
			return &booking.ItemView{}, nil
		})

	body := `{"variants":[{"id":"` + keep.String() + `","color":"red"},{"size":"L"}]}`
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPatch, "/items/x", strings.NewReader(body)), map[string]string{"id": itemID.String()})
	rr := httptest.NewRecorder()
	server.handleUpdateItem(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_BasicAuth(t *testing.T) {
	clientID := uuid.New()

	t.Run("missing credentials", func(t *testing.T) {
		server, _, _ := newTestServer(t)
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/clients", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, `Basic realm="Restricted"`, rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		server, _, users := newTestServer(t)
		users.EXPECT().ValidateUser(gomock.Any(), "admin", "bad").Return(false, nil)

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.SetBasicAuth("admin", "bad")
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("actor reaches the engine", func(t *testing.T) {
		server, engine, users := newTestServer(t)
		users.EXPECT().ValidateUser(gomock.Any(), "admin", "secret").Return(true, nil)
		engine.EXPECT().
			GetClient(gomock.Any(), clientID).
			DoAndReturn(func(ctx context.Context, id uuid.UUID) (*repository.Client, error) {
				assert.Equal(t, "admin", booking.ActorFrom(ctx))
				return &repository.Client{ID: id, Phone: "+100"}, nil
			})

		req := httptest.NewRequest(http.MethodGet, "/clients/"+clientID.String(), nil)
		req.SetBasicAuth("admin", "secret")
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("metrics are public", func(t *testing.T) {
		server, _, _ := newTestServer(t)
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(booking.KindNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(booking.KindBadRequest))
	assert.Equal(t, http.StatusConflict, statusFor(booking.KindConflict))
	assert.Equal(t, http.StatusInternalServerError, statusFor(booking.KindInternal))
}

func TestServer_ShutdownBeforeRun(t *testing.T) {
	server, _, _ := newTestServer(t)

	require.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, server.Run("0"))
}

func TestServer_ConcurrentRunAndShutdown(t *testing.T) {
	server, _, _ := newTestServer(t)

	done := make(chan error, 1)
	go func() { done <- server.Run("0") }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
