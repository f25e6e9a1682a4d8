package booking

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

type LineInput struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	Price     int       `json:"price"`
	Deposit   int       `json:"deposit"`
}

type PaymentInput struct {
	Amount    int                      `json:"amount"`
	Method    repository.PaymentMethod `json:"method"`
	EntryType repository.EntryType     `json:"entry_type"`
	Note      string                   `json:"note"`
}

type CreateOrderInput struct {
	ClientID uuid.UUID
	Period   Period
	// Status defaults to booked.
	Status repository.OrderStatus
	// Discount defaults to the client's discount.
	Discount     *int
	DeliveryInfo *repository.DeliveryInfo
	Notes        string
	Tags         []string
	Lines        []LineInput
	Payments     []PaymentInput
}

func (in UpdateOrderInput) empty() bool {
	return in.Start == nil && in.End == nil && in.Status == nil && in.Discount == nil &&
		in.DeliveryInfo == nil && in.Notes == nil && in.Tags == nil && in.Lines == nil && in.Payments == nil
}

// UpdateOrderInput is a patch. Nil fields keep their current value. A nil
// Lines keeps the current lines; a non-nil Lines replaces them all.
// Payments are always appended.
type UpdateOrderInput struct {
	Start        *time.Time
	End          *time.Time
	Status       *repository.OrderStatus
	Discount     *int
	DeliveryInfo *repository.DeliveryInfo
	Notes        *string
	Tags         []string
	Lines        []LineInput
	Payments     []PaymentInput
}

// OrderDetails is an order with its lines and payment ledger.
type OrderDetails struct {
	repository.Order
	Lines       []*repository.OrderLine `json:"lines"`
	Payments    []*repository.Payment   `json:"payments"`
	Paid        int                     `json:"paid"`
	DepositPaid int                     `json:"deposit_paid"`
}

func (e *Engine) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderDetails, error) {
	const op = "CreateOrder"
	log := e.logger.With(zap.String("operation", op), zap.String("actor", ActorFrom(ctx)))

	period := NewPeriod(in.Period.Start, in.Period.End)
	if !period.Start.Before(period.End) {
		return nil, e.fail(op, badRequest(op, "start must be before end"))
	}
	if err := validateLines(op, in.Lines); err != nil {
		return nil, e.fail(op, err)
	}
	if err := validatePayments(op, in.Payments); err != nil {
		return nil, e.fail(op, err)
	}
	status := in.Status
	if status == "" {
		status = repository.OrderBooked
	}
	if !status.Valid() {
		return nil, e.fail(op, badRequest(op, "unknown order status %q", status))
	}

	log.Debug("creating order", zap.Stringer("period", period), zap.Int("lines", len(in.Lines)))

	var details *OrderDetails
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		client, err := e.clients.GetByID(ctx, tx, in.ClientID)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "client %s not found", in.ClientID)
			}
			return err
		}
		if client.Lifecycle() == repository.LifecycleArchived {
			return badRequest(op, "client %s is archived", client.ID)
		}

		if err := e.reserve(ctx, tx, op, in.Lines, period, 0); err != nil {
			return err
		}

		discount := client.Discount
		if in.Discount != nil {
			discount = *in.Discount
		}
		if err := validateDiscount(op, discount); err != nil {
			return err
		}

		now := e.now()
		lines := toOrderLines(in.Lines)
		order := &repository.Order{
			ClientID:     client.ID,
			Status:       status,
			StartTime:    period.Start,
			EndTime:      period.End,
			Discount:     discount,
			DeliveryInfo: in.DeliveryInfo,
			Notes:        in.Notes,
			Tags:         in.Tags,
			CreatedBy:    ActorFrom(ctx),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		order.Price, order.DepositAmount = totals(lines, discount)

		if err := e.orders.Create(ctx, tx, order); err != nil {
			return err
		}
		for _, l := range lines {
			l.OrderID = order.ID
		}
		if err := e.orders.ReplaceLines(ctx, tx, order.ID, lines); err != nil {
			return err
		}
		payments, err := e.appendPayments(ctx, tx, order.ID, in.Payments)
		if err != nil {
			return err
		}

		if err := e.audit(ctx, tx, auditEvent{
			action:     "order.created",
			entityType: "order",
			entityID:   strconv.FormatInt(order.ID, 10),
			newStatus:  string(order.Status),
		}); err != nil {
			return err
		}

		details = materialize(order, lines, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	log.Info("order created", zap.Int64("order_id", details.ID), zap.String("client_id", details.ClientID.String()))
	return details, nil
}

func (e *Engine) UpdateOrder(ctx context.Context, orderID int64, in UpdateOrderInput) (*OrderDetails, error) {
	const op = "UpdateOrder"
	log := e.logger.With(zap.String("operation", op), zap.Int64("order_id", orderID), zap.String("actor", ActorFrom(ctx)))

	if in.empty() {
		return nil, e.fail(op, badRequest(op, "no data provided for update"))
	}
	if in.Lines != nil {
		if err := validateLines(op, in.Lines); err != nil {
			return nil, e.fail(op, err)
		}
	}
	if err := validatePayments(op, in.Payments); err != nil {
		return nil, e.fail(op, err)
	}

	var details *OrderDetails
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		order, err := e.orders.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "order %d not found", orderID)
			}
			return err
		}
		if order.Lifecycle() == repository.LifecycleArchived {
			return badRequest(op, "order %d is archived", orderID)
		}
		oldStatus := order.Status
		oldPeriod := NewPeriod(order.StartTime, order.EndTime)

		period := oldPeriod
		if in.Start != nil {
			period.Start = Day(*in.Start)
		}
		if in.End != nil {
			period.End = Day(*in.End)
		}
		if !period.Ordered() {
			return badRequest(op, "start must not be after end")
		}

		if in.Status != nil && *in.Status != order.Status {
			if !CanTransition(order.Status, *in.Status) {
				return badRequest(op, "cannot move order from %s to %s", order.Status, *in.Status)
			}
			order.Status = *in.Status
		}
		if in.Discount != nil {
			if err := validateDiscount(op, *in.Discount); err != nil {
				return err
			}
			order.Discount = *in.Discount
		}
		if in.DeliveryInfo != nil {
			order.DeliveryInfo = in.DeliveryInfo
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		if in.Tags != nil {
			order.Tags = in.Tags
		}
		order.StartTime, order.EndTime = period.Start, period.End

		var lines []*repository.OrderLine
		switch {
		case in.Lines != nil:
			if err := e.reserve(ctx, tx, op, in.Lines, period, order.ID); err != nil {
				return err
			}
			lines = toOrderLines(in.Lines)
			for _, l := range lines {
				l.OrderID = order.ID
			}
			if err := e.orders.ReplaceLines(ctx, tx, order.ID, lines); err != nil {
				return err
			}
		default:
			lines, err = e.orders.ListLines(ctx, tx, order.ID)
			if err != nil {
				return err
			}
			// Moving the dates of a live order must not slide it over someone else's booking.
			if period != oldPeriod && order.Blocking() {
				if err := e.reserve(ctx, tx, op, fromOrderLines(lines), period, order.ID); err != nil {
					return err
				}
			}
		}

		order.Price, order.DepositAmount = totals(lines, order.Discount)
		order.UpdatedAt = e.now()
		if err := e.orders.Update(ctx, tx, order); err != nil {
			if isNotFound(err) {
				return notFound(op, "order %d not found", orderID)
			}
			return err
		}

		if _, err := e.appendPayments(ctx, tx, order.ID, in.Payments); err != nil {
			return err
		}
		payments, err := e.payments.ListByOrder(ctx, tx, order.ID)
		if err != nil {
			return err
		}

		if err := e.audit(ctx, tx, auditEvent{
			action:     "order.updated",
			entityType: "order",
			entityID:   strconv.FormatInt(order.ID, 10),
			oldStatus:  string(oldStatus),
			newStatus:  string(order.Status),
		}); err != nil {
			return err
		}

		details = materialize(order, lines, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersUpdatedTotal.Inc()
	log.Info("order updated", zap.String("status", string(details.Status)))
	return details, nil
}

// GetOrder resolves archived orders too.
func (e *Engine) GetOrder(ctx context.Context, orderID int64) (*OrderDetails, error) {
	const op = "GetOrder"
	order, err := e.orders.GetByID(ctx, e.db, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, e.fail(op, notFound(op, "order %d not found", orderID))
		}
		return nil, e.fail(op, persistenceError(op, err))
	}
	lines, err := e.orders.ListLines(ctx, e.db, orderID)
	if err != nil {
		return nil, e.fail(op, persistenceError(op, err))
	}
	payments, err := e.payments.ListByOrder(ctx, e.db, orderID)
	if err != nil {
		return nil, e.fail(op, persistenceError(op, err))
	}
	return materialize(order, lines, payments), nil
}

func (e *Engine) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*repository.Order, error) {
	const op = "ListOrders"
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, e.fail(op, badRequest(op, "unknown order status %q", filter.Status))
	}
	orders, err := e.orders.List(ctx, e.db, filter)
	if err != nil {
		return nil, e.fail(op, persistenceError(op, err))
	}
	return orders, nil
}

// reserve locks the requested variants and checks every one of them against
// the period. All unavailable variants are reported together.
func (e *Engine) reserve(ctx context.Context, tx db.Tx, op string, lines []LineInput, period Period, excludeOrderID int64) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.VariantID)
	}

	locked, err := e.variants.Lock(ctx, tx, ids)
	if err != nil {
		return err
	}
	if missing := missingIDs(ids, locked); len(missing) > 0 {
		nf := notFound(op, "variants not found")
		for _, id := range missing {
			nf.Reasons = append(nf.Reasons, id.String())
		}
		return nf
	}

	var reasons []string
	for _, l := range lines {
		a, err := e.checkVariant(ctx, tx, op, l.VariantID, period, excludeOrderID)
		if err != nil {
			return err
		}
		if !a.Available {
			reasons = append(reasons, fmt.Sprintf("variant %s: %s", l.VariantID, a.Reason))
		}
	}
	if len(reasons) > 0 {
		metrics.BookingConflictsTotal.Inc()
		return &Error{Op: op, Kind: KindConflict, Message: "requested variants are unavailable", Reasons: reasons}
	}
	return nil
}

func (e *Engine) appendPayments(ctx context.Context, tx db.Tx, orderID int64, in []PaymentInput) ([]*repository.Payment, error) {
	payments := make([]*repository.Payment, 0, len(in))
	for _, p := range in {
		payment := &repository.Payment{
			ID:        uuid.New(),
			OrderID:   orderID,
			Amount:    p.Amount,
			Method:    p.Method,
			EntryType: p.EntryType,
			Note:      p.Note,
			CreatedAt: e.now(),
		}
		if err := e.payments.Create(ctx, tx, payment); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func validateLines(op string, lines []LineInput) error {
	if len(lines) == 0 {
		return badRequest(op, "order must have at least one line")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	var reasons []string
	for _, l := range lines {
		if _, dup := seen[l.VariantID]; dup {
			reasons = append(reasons, fmt.Sprintf("variant %s is listed twice", l.VariantID))
		}
		seen[l.VariantID] = struct{}{}
		if l.Quantity <= 0 {
			reasons = append(reasons, fmt.Sprintf("variant %s: quantity must be positive", l.VariantID))
		}
		if l.Price < 0 || l.Deposit < 0 {
			reasons = append(reasons, fmt.Sprintf("variant %s: price and deposit must not be negative", l.VariantID))
		}
	}
	if len(reasons) > 0 {
		return &Error{Op: op, Kind: KindBadRequest, Message: "invalid order lines", Reasons: reasons}
	}
	return nil
}

func validatePayments(op string, payments []PaymentInput) error {
	for _, p := range payments {
		if p.Amount <= 0 {
			return badRequest(op, "payment amount must be positive")
		}
		if !p.Method.Valid() {
			return badRequest(op, "unknown payment method %q", p.Method)
		}
		if !p.EntryType.Valid() {
			return badRequest(op, "unknown payment entry type %q", p.EntryType)
		}
	}
	return nil
}

func validateDiscount(op string, discount int) error {
	if discount < 0 || discount > 100 {
		return badRequest(op, "discount must be between 0 and 100")
	}
	return nil
}

func totals(lines []*repository.OrderLine, discount int) (price, deposit int) {
	for _, l := range lines {
		price += l.Price * l.Quantity
		deposit += l.Deposit * l.Quantity
	}
	return price * (100 - discount) / 100, deposit
}

func toOrderLines(in []LineInput) []*repository.OrderLine {
	lines := make([]*repository.OrderLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, &repository.OrderLine{
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Deposit:   l.Deposit,
		})
	}
	return lines
}

func fromOrderLines(lines []*repository.OrderLine) []LineInput {
	in := make([]LineInput, 0, len(lines))
	for _, l := range lines {
		in = append(in, LineInput{VariantID: l.VariantID, Quantity: l.Quantity, Price: l.Price, Deposit: l.Deposit})
	}
	return in
}

func missingIDs(requested, found []uuid.UUID) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func materialize(order *repository.Order, lines []*repository.OrderLine, payments []*repository.Payment) *OrderDetails {
	sorted := append([]*repository.OrderLine(nil), lines...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].VariantID.String() < sorted[j].VariantID.String()
	})

	d := &OrderDetails{Order: *order, Lines: sorted, Payments: payments}
	for _, p := range payments {
		switch p.EntryType {
		case repository.EntryPayment:
			d.Paid += p.Amount
		case repository.EntryDeposit:
			d.DepositPaid += p.Amount
		}
	}
	return d
}
