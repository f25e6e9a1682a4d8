package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("not found")

type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GivenName string    `db:"given_name" json:"given_name"`
	Surname   string    `db:"surname" json:"surname"`
	Phone     string    `db:"phone" json:"phone"`
	Instagram string    `db:"instagram" json:"instagram"`
	Email     string    `db:"email" json:"email"`
	Notes     string    `db:"notes" json:"notes"`
	Discount  int       `db:"discount" json:"discount"`
	Archived  bool      `db:"archived" json:"archived"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (c *Client) Lifecycle() Lifecycle { return lifecycleOf(c.Archived) }

type Item struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Category    string     `db:"category" json:"category"`
	Description string     `db:"description" json:"description"`
	ImageURL    string     `db:"image_url" json:"image_url"`
	Status      ItemStatus `db:"status" json:"status"`
	Tags        []string   `db:"tags" json:"tags"`
	Archived    bool       `db:"archived" json:"archived"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (i *Item) Lifecycle() Lifecycle { return lifecycleOf(i.Archived) }

type ItemVariant struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	ItemID       uuid.UUID     `db:"item_id" json:"item_id"`
	Size         string        `db:"size" json:"size"`
	Color        string        `db:"color" json:"color"`
	Quantity     int           `db:"quantity" json:"quantity"`
	Status       VariantStatus `db:"status" json:"status"`
	ServiceStart *time.Time    `db:"service_start" json:"service_start,omitempty"`
	ServiceEnd   *time.Time    `db:"service_end" json:"service_end,omitempty"`
	Archived     bool          `db:"archived" json:"archived"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

func (v *ItemVariant) Lifecycle() Lifecycle { return lifecycleOf(v.Archived) }

type Price struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VariantID uuid.UUID `db:"variant_id" json:"variant_id"`
	Amount    int       `db:"amount" json:"amount"`
	Deposit   int       `db:"deposit" json:"deposit"`
	PriceType string    `db:"price_type" json:"price_type"`
}

type DeliveryInfo struct {
	PickupType      PickupType `json:"pickup_type"`
	ReturnType      PickupType `json:"return_type"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	ReturnAddress   string     `json:"return_address,omitempty"`
	TrackingNumber  string     `json:"tracking_number,omitempty"`
}

type Order struct {
	ID            int64         `db:"id" json:"id"`
	ClientID      uuid.UUID     `db:"client_id" json:"client_id"`
	Status        OrderStatus   `db:"status" json:"status"`
	StartTime     time.Time     `db:"start_time" json:"start_time"`
	EndTime       time.Time     `db:"end_time" json:"end_time"`
	Discount      int           `db:"discount" json:"discount"`
	Price         int           `db:"price" json:"price"`
	DepositAmount int           `db:"deposit_amount" json:"deposit_amount"`
	DeliveryInfo  *DeliveryInfo `db:"delivery_info" json:"delivery_info,omitempty"`
	Notes         string        `db:"notes" json:"notes"`
	Tags          []string      `db:"tags" json:"tags"`
	CreatedBy     string        `db:"created_by" json:"created_by"`
	Archived      bool          `db:"archived" json:"archived"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

func (o *Order) Lifecycle() Lifecycle { return lifecycleOf(o.Archived) }

// Blocking reports whether the order still holds its variants.
func (o *Order) Blocking() bool {
	return !o.Archived && o.Status.IsActive()
}

type OrderLine struct {
	OrderID   int64     `db:"order_id" json:"order_id"`
	VariantID uuid.UUID `db:"variant_id" json:"variant_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Price     int       `db:"price" json:"price"`
	Deposit   int       `db:"deposit" json:"deposit"`
}

type Payment struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	OrderID   int64         `db:"order_id" json:"order_id"`
	Amount    int           `db:"amount" json:"amount"`
	Method    PaymentMethod `db:"method" json:"method"`
	EntryType EntryType     `db:"entry_type" json:"entry_type"`
	Note      string        `db:"note" json:"note"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// Booking is one order's claim on a variant, as seen by the conflict check.
type Booking struct {
	OrderID   int64       `db:"order_id"`
	Status    OrderStatus `db:"status"`
	StartTime time.Time   `db:"start_time"`
	EndTime   time.Time   `db:"end_time"`
}

// OrderFilter narrows order listings. Zero values mean "no constraint".
type OrderFilter struct {
	ClientID        uuid.UUID
	Status          OrderStatus
	From            *time.Time
	To              *time.Time
	IncludeArchived bool
	Limit           int
}
