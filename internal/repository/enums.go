package repository

type OrderStatus string

const (
	OrderBooked     OrderStatus = "booked"
	OrderBookedPaid OrderStatus = "booked_paid"
	OrderIssued     OrderStatus = "issued"
	OrderReturned   OrderStatus = "returned"
	OrderDone       OrderStatus = "done"
	OrderCanceled   OrderStatus = "canceled"
)

// ActiveOrderStatuses are the statuses that keep a reservation alive: every
// status except done and canceled. booked_paid and returned belong here on
// purpose, since a paid order still holds its variants and a returned one
// holds them until it is closed as done.
var ActiveOrderStatuses = []OrderStatus{OrderBooked, OrderBookedPaid, OrderIssued, OrderReturned}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderBooked, OrderBookedPaid, OrderIssued, OrderReturned, OrderDone, OrderCanceled:
		return true
	}
	return false
}

// IsActive is false for settled orders (done or canceled).
func (s OrderStatus) IsActive() bool {
	return s.Valid() && s != OrderDone && s != OrderCanceled
}

type VariantStatus string

const (
	VariantAvailable   VariantStatus = "available"
	VariantCleaning    VariantStatus = "cleaning"
	VariantRepair      VariantStatus = "repair"
	VariantUnavailable VariantStatus = "unavailable"
)

func (s VariantStatus) Valid() bool {
	switch s {
	case VariantAvailable, VariantCleaning, VariantRepair, VariantUnavailable:
		return true
	}
	return false
}

type ItemStatus string

const (
	ItemInStock    ItemStatus = "in_stock"
	ItemOutOfStock ItemStatus = "out_of_stock"
)

func (s ItemStatus) Valid() bool {
	return s == ItemInStock || s == ItemOutOfStock
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTerminal PaymentMethod = "terminal"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTerminal
}

type EntryType string

const (
	EntryPayment EntryType = "payment"
	EntryDeposit EntryType = "deposit"
)

func (e EntryType) Valid() bool {
	return e == EntryPayment || e == EntryDeposit
}

type PickupType string

const (
	PickupShowroom PickupType = "showroom"
	PickupTaxi     PickupType = "taxi"
	PickupPostal   PickupType = "postal_service"
)

// Lifecycle is the soft-archive state shared by clients, items, variants and orders.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleArchived Lifecycle = "archived"
)

func lifecycleOf(archived bool) Lifecycle {
	if archived {
		return LifecycleArchived
	}
	return LifecycleActive
}

// Archivable is implemented by every entity that is archived instead of deleted.
type Archivable interface {
	Lifecycle() Lifecycle
}
