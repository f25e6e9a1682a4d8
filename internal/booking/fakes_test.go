package booking

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	mock_db "gitlab.ozon.dev/pupkingeorgij/rental/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory stand-in for the relational store. It takes a
// snapshot when a transaction begins and restores it on rollback.
type memStore struct {
	clients  map[uuid.UUID]repository.Client
	items    map[uuid.UUID]repository.Item
	variants map[uuid.UUID]repository.ItemVariant
	prices   map[uuid.UUID][]repository.Price
	orders   map[int64]repository.Order
	lines    map[int64][]repository.OrderLine
	payments map[int64][]repository.Payment
	outbox   []repository.OutboxTask
	nextID   int64

	// failOn makes the named repository call fail.
	failOn string
	locks  int

	snapshot *memStore
}

func newMemStore() *memStore {
	return &memStore{
		clients:  map[uuid.UUID]repository.Client{},
		items:    map[uuid.UUID]repository.Item{},
		variants: map[uuid.UUID]repository.ItemVariant{},
		prices:   map[uuid.UUID][]repository.Price{},
		orders:   map[int64]repository.Order{},
		lines:    map[int64][]repository.OrderLine{},
		payments: map[int64][]repository.Payment{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.prices {
		c.prices[k] = append([]repository.Price(nil), v...)
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]repository.OrderLine(nil), v...)
	}
	for k, v := range s.payments {
		c.payments[k] = append([]repository.Payment(nil), v...)
	}
	c.outbox = append([]repository.OutboxTask(nil), s.outbox...)
	c.nextID = s.nextID
	return c
}

func (s *memStore) begin() {
	s.snapshot = s.clone()
}

func (s *memStore) rollback() {
	if s.snapshot == nil {
		return
	}
	snap := s.snapshot
	s.clients, s.items, s.variants, s.prices = snap.clients, snap.items, snap.variants, snap.prices
	s.orders, s.lines, s.payments, s.outbox = snap.orders, snap.lines, snap.payments, snap.outbox
	s.nextID = snap.nextID
	s.snapshot = nil
}

func (s *memStore) fail(call string) error {
	if s.failOn == call {
		return errInjected
	}
	return nil
}

// testEnv wires an engine to a memStore through gomock transaction handles.
type testEnv struct {
	engine *Engine
	store  *memStore
	db     *mock_db.MockDB
	tx     *mock_db.MockTx
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := mock_db.NewMockDB(ctrl)
	mockTx := mock_db.NewMockTx(ctrl)
	store := newMemStore()

	mockDB.EXPECT().BeginTx(gomock.Any()).DoAndReturn(func(context.Context) (db.Tx, error) {
		store.begin()
		return mockTx, nil
	}).AnyTimes()
	mockTx.EXPECT().Commit(gomock.Any()).DoAndReturn(func(context.Context) error {
		store.snapshot = nil
		return nil
	}).AnyTimes()
	mockTx.EXPECT().Rollback(gomock.Any()).DoAndReturn(func(context.Context) error {
		store.rollback()
		return nil
	}).AnyTimes()

	engine, err := NewEngine(Deps{
		DB:       mockDB,
		Clients:  &memClients{store},
		Items:    &memItems{store},
		Variants: &memVariants{store},
		Orders:   &memOrders{store},
		Payments: &memPayments{store},
		Outbox:   &memOutbox{store},
	})
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	engine.timeNow = func() time.Time { return now }

	return &testEnv{engine: engine, store: store, db: mockDB, tx: mockTx, now: now}
}

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func period(start, end string) Period {
	return NewPeriod(date(start), date(end))
}

func (env *testEnv) addClient(discount int) *repository.Client {
	c := repository.Client{ID: uuid.New(), GivenName: "Anna", Phone: uuid.NewString(), Discount: discount}
	env.store.clients[c.ID] = c
	return &c
}

func (env *testEnv) addItem() *repository.Item {
	i := repository.Item{ID: uuid.New(), Title: "Dress " + uuid.NewString(), Status: repository.ItemInStock}
	env.store.items[i.ID] = i
	return &i
}

func (env *testEnv) addVariant(itemID uuid.UUID, mutate ...func(v *repository.ItemVariant)) uuid.UUID {
	v := repository.ItemVariant{ID: uuid.New(), ItemID: itemID, Size: "M", Quantity: 1, Status: repository.VariantAvailable}
	for _, m := range mutate {
		m(&v)
	}
	env.store.variants[v.ID] = v
	return v.ID
}

// addOrder stores an order directly, bypassing the engine checks.
func (env *testEnv) addOrder(clientID uuid.UUID, status repository.OrderStatus, p Period, variants ...uuid.UUID) int64 {
	env.store.nextID++
	id := env.store.nextID
	env.store.orders[id] = repository.Order{ID: id, ClientID: clientID, Status: status, StartTime: p.Start, EndTime: p.End}
	for _, v := range variants {
		env.store.lines[id] = append(env.store.lines[id], repository.OrderLine{OrderID: id, VariantID: v, Quantity: 1, Price: 100})
	}
	return id
}

type memClients struct{ s *memStore }

func (r *memClients) Create(_ context.Context, _ db.Querier, c *repository.Client) error {
	if err := r.s.fail("clients.Create"); err != nil {
		return err
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *memClients) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*repository.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &c, nil
}

func (r *memClients) GetForUpdate(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Client, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *memClients) Update(_ context.Context, _ db.Querier, c *repository.Client) error {
	if _, ok := r.s.clients[c.ID]; !ok {
		return repository.ErrObjectNotFound
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *memClients) Delete(_ context.Context, _ db.Querier, id uuid.UUID) error {
	delete(r.s.clients, id)
	return nil
}

func (r *memClients) Archive(_ context.Context, _ db.Querier, id uuid.UUID, at time.Time) error {
	c := r.s.clients[id]
	c.Archived, c.UpdatedAt = true, at
	r.s.clients[id] = c
	return nil
}

func (r *memClients) List(_ context.Context, _ db.Querier, includeArchived bool) ([]*repository.Client, error) {
	var out []*repository.Client
	for _, c := range r.s.clients {
		if c.Archived && !includeArchived {
			continue
		}
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (r *memClients) PhoneTaken(_ context.Context, _ db.Querier, phone string, exceptID uuid.UUID) (bool, error) {
	for _, c := range r.s.clients {
		if c.Phone == phone && c.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memClients) CountOrders(_ context.Context, _ db.Querier, clientID uuid.UUID, activeOnly bool) (int, error) {
	n := 0
	for _, o := range r.s.orders {
		if o.ClientID != clientID {
			continue
		}
		if activeOnly && !o.Blocking() {
			continue
		}
		n++
	}
	return n, nil
}

type memItems struct{ s *memStore }

func (r *memItems) Create(_ context.Context, _ db.Querier, item *repository.Item) error {
	r.s.items[item.ID] = *item
	return nil
}

func (r *memItems) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*repository.Item, error) {
	i, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &i, nil
}

func (r *memItems) GetForUpdate(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Item, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *memItems) Update(_ context.Context, _ db.Querier, item *repository.Item) error {
	r.s.items[item.ID] = *item
	return nil
}

func (r *memItems) Delete(_ context.Context, _ db.Querier, id uuid.UUID) error {
	delete(r.s.items, id)
	for vid, v := range r.s.variants {
		if v.ItemID == id {
			delete(r.s.variants, vid)
			delete(r.s.prices, vid)
		}
	}
	return nil
}

func (r *memItems) Archive(_ context.Context, _ db.Querier, id uuid.UUID, at time.Time) error {
	i := r.s.items[id]
	i.Archived, i.UpdatedAt = true, at
	r.s.items[id] = i
	return nil
}

func (r *memItems) List(_ context.Context, _ db.Querier, includeArchived bool) ([]*repository.Item, error) {
	var out []*repository.Item
	for _, i := range r.s.items {
		if i.Archived && !includeArchived {
			continue
		}
		i := i
		out = append(out, &i)
	}
	return out, nil
}

func (r *memItems) TitleTaken(_ context.Context, _ db.Querier, title string, exceptID uuid.UUID) (bool, error) {
	for _, i := range r.s.items {
		if i.Title == title && i.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memItems) CountOrders(_ context.Context, _ db.Querier, itemID uuid.UUID, activeOnly bool) (int, error) {
	n := 0
	for id, o := range r.s.orders {
		if activeOnly && !o.Blocking() {
			continue
		}
		for _, l := range r.s.lines[id] {
			if r.s.variants[l.VariantID].ItemID == itemID {
				n++
				break
			}
		}
	}
	return n, nil
}

type memVariants struct{ s *memStore }

func (r *memVariants) Create(_ context.Context, _ db.Querier, v *repository.ItemVariant) error {
	r.s.variants[v.ID] = *v
	return nil
}

func (r *memVariants) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*repository.ItemVariant, error) {
	if err := r.s.fail("variants.GetByID"); err != nil {
		return nil, err
	}
	v, ok := r.s.variants[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &v, nil
}

func (r *memVariants) ListByItem(_ context.Context, _ db.Querier, itemID uuid.UUID, includeArchived bool) ([]*repository.ItemVariant, error) {
	var out []*repository.ItemVariant
	for _, v := range r.s.variants {
		if v.ItemID != itemID || (v.Archived && !includeArchived) {
			continue
		}
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *memVariants) Lock(_ context.Context, _ db.Tx, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.s.locks++
	var locked []uuid.UUID
	for _, id := range ids {
		if _, ok := r.s.variants[id]; ok {
			locked = append(locked, id)
		}
	}
	return locked, nil
}

func (r *memVariants) Update(_ context.Context, _ db.Querier, v *repository.ItemVariant) error {
	r.s.variants[v.ID] = *v
	return nil
}

func (r *memVariants) Delete(_ context.Context, _ db.Querier, id uuid.UUID) error {
	delete(r.s.variants, id)
	delete(r.s.prices, id)
	return nil
}

func (r *memVariants) Archive(_ context.Context, _ db.Querier, id uuid.UUID, at time.Time) error {
	v := r.s.variants[id]
	v.Archived, v.UpdatedAt = true, at
	r.s.variants[id] = v
	return nil
}

func (r *memVariants) ArchiveByItem(ctx context.Context, q db.Querier, itemID uuid.UUID, at time.Time) error {
	for id, v := range r.s.variants {
		if v.ItemID == itemID {
			_ = r.Archive(ctx, q, id, at)
		}
	}
	return nil
}

func (r *memVariants) CountOrders(_ context.Context, _ db.Querier, variantID uuid.UUID, activeOnly bool) (int, error) {
	n := 0
	for id, o := range r.s.orders {
		if activeOnly && !o.Blocking() {
			continue
		}
		for _, l := range r.s.lines[id] {
			if l.VariantID == variantID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *memVariants) ListPrices(_ context.Context, _ db.Querier, variantID uuid.UUID) ([]*repository.Price, error) {
	var out []*repository.Price
	for _, p := range r.s.prices[variantID] {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *memVariants) ReplacePrices(_ context.Context, _ db.Querier, variantID uuid.UUID, prices []*repository.Price) error {
	r.s.prices[variantID] = nil
	for _, p := range prices {
		r.s.prices[variantID] = append(r.s.prices[variantID], *p)
	}
	return nil
}

type memOrders struct{ s *memStore }

func (r *memOrders) Create(_ context.Context, _ db.Querier, order *repository.Order) error {
	r.s.nextID++
	order.ID = r.s.nextID
	r.s.orders[order.ID] = *order
	return nil
}

func (r *memOrders) GetByID(_ context.Context, _ db.Querier, id int64) (*repository.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &o, nil
}

func (r *memOrders) GetForUpdate(ctx context.Context, tx db.Tx, id int64) (*repository.Order, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *memOrders) Update(_ context.Context, _ db.Querier, order *repository.Order) error {
	if _, ok := r.s.orders[order.ID]; !ok {
		return repository.ErrObjectNotFound
	}
	r.s.orders[order.ID] = *order
	return nil
}

func (r *memOrders) Delete(_ context.Context, _ db.Querier, id int64) error {
	delete(r.s.orders, id)
	delete(r.s.lines, id)
	delete(r.s.payments, id)
	return nil
}

func (r *memOrders) Archive(_ context.Context, _ db.Querier, id int64, at time.Time) error {
	o := r.s.orders[id]
	o.Archived, o.UpdatedAt = true, at
	r.s.orders[id] = o
	return nil
}

func (r *memOrders) List(_ context.Context, _ db.Querier, filter repository.OrderFilter) ([]*repository.Order, error) {
	var out []*repository.Order
	for _, o := range r.s.orders {
		if o.Archived && !filter.IncludeArchived {
			continue
		}
		if filter.ClientID != uuid.Nil && o.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOrders) ListBookings(_ context.Context, _ db.Querier, variantID uuid.UUID, excludeOrderID int64) ([]repository.Booking, error) {
	var out []repository.Booking
	for id, o := range r.s.orders {
		if id == excludeOrderID || !o.Blocking() {
			continue
		}
		for _, l := range r.s.lines[id] {
			if l.VariantID == variantID {
				out = append(out, repository.Booking{OrderID: id, Status: o.Status, StartTime: o.StartTime, EndTime: o.EndTime})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

func (r *memOrders) ListLines(_ context.Context, _ db.Querier, orderID int64) ([]*repository.OrderLine, error) {
	var out []*repository.OrderLine
	for _, l := range r.s.lines[orderID] {
		l := l
		out = append(out, &l)
	}
	return out, nil
}

func (r *memOrders) ReplaceLines(_ context.Context, _ db.Querier, orderID int64, lines []*repository.OrderLine) error {
	r.s.lines[orderID] = nil
	for _, l := range lines {
		r.s.lines[orderID] = append(r.s.lines[orderID], *l)
	}
	return nil
}

func (r *memOrders) CountLines(_ context.Context, _ db.Querier, orderID int64) (int, error) {
	return len(r.s.lines[orderID]), nil
}

type memPayments struct{ s *memStore }

func (r *memPayments) Create(_ context.Context, _ db.Querier, p *repository.Payment) error {
	if err := r.s.fail("payments.Create"); err != nil {
		return err
	}
	r.s.payments[p.OrderID] = append(r.s.payments[p.OrderID], *p)
	return nil
}

func (r *memPayments) ListByOrder(_ context.Context, _ db.Querier, orderID int64) ([]*repository.Payment, error) {
	var out []*repository.Payment
	for _, p := range r.s.payments[orderID] {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *memPayments) CountByOrder(_ context.Context, _ db.Querier, orderID int64) (int, error) {
	return len(r.s.payments[orderID]), nil
}

type memOutbox struct{ s *memStore }

func (r *memOutbox) Create(_ context.Context, _ db.Querier, task *repository.OutboxTask) error {
	r.s.outbox = append(r.s.outbox, *task)
	return nil
}
