package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/booking"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

// date is a calendar day in YYYY-MM-DD form.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t, err := time.Parse(booking.DateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD", raw)
	}
	d.Time = t
	return nil
}

func (d *date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

type variantRequest struct {
	Size         *string                   `json:"size"`
	Color        *string                   `json:"color"`
	Quantity     *int                      `json:"quantity"`
	Status       *repository.VariantStatus `json:"status"`
	ServiceStart *date                     `json:"service_start"`
	ServiceEnd   *date                     `json:"service_end"`
	Prices       []booking.PriceInput      `json:"prices"`
}

func (v variantRequest) patch() booking.VariantPatch {
	return booking.VariantPatch{
		Size:         v.Size,
		Color:        v.Color,
		Quantity:     v.Quantity,
		Status:       v.Status,
		ServiceStart: v.ServiceStart.ptr(),
		ServiceEnd:   v.ServiceEnd.ptr(),
		Prices:       v.Prices,
	}
}

func (v variantRequest) input() booking.VariantInput {
	in := booking.VariantInput{
		ServiceStart: v.ServiceStart.ptr(),
		ServiceEnd:   v.ServiceEnd.ptr(),
		Prices:       v.Prices,
	}
	if v.Size != nil {
		in.Size = *v.Size
	}
	if v.Color != nil {
		in.Color = *v.Color
	}
	if v.Quantity != nil {
		in.Quantity = *v.Quantity
	}
	if v.Status != nil {
		in.Status = *v.Status
	}
	return in
}

type createItemRequest struct {
	Title       string                `json:"title"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	ImageURL    string                `json:"image_url"`
	Status      repository.ItemStatus `json:"status"`
	Tags        []string              `json:"tags"`
	Variants    []variantRequest      `json:"variants"`
}

func (req createItemRequest) input() booking.ItemInput {
	in := booking.ItemInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
		Tags:        req.Tags,
	}
	for _, v := range req.Variants {
		in.Variants = append(in.Variants, v.input())
	}
	return in
}

type variantUpsertRequest struct {
	ID uuid.UUID `json:"id"`
	variantRequest
}

type updateItemRequest struct {
	Title       *string                `json:"title"`
	Category    *string                `json:"category"`
	Description *string                `json:"description"`
	ImageURL    *string                `json:"image_url"`
	Status      *repository.ItemStatus `json:"status"`
	Tags        []string               `json:"tags"`
	Variants    []variantUpsertRequest `json:"variants"`
}

func (req updateItemRequest) patch() booking.ItemPatch {
	p := booking.ItemPatch{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
		Tags:        req.Tags,
	}
	if req.Variants != nil {
		p.Variants = make([]booking.VariantUpsert, 0, len(req.Variants))
		for _, v := range req.Variants {
			p.Variants = append(p.Variants, booking.VariantUpsert{ID: v.ID, VariantPatch: v.patch()})
		}
	}
	return p
}

type createOrderRequest struct {
	ClientID     uuid.UUID                `json:"client_id"`
	StartTime    date                     `json:"start_time"`
	EndTime      date                     `json:"end_time"`
	Status       repository.OrderStatus   `json:"status"`
	Discount     *int                     `json:"discount"`
	DeliveryInfo *repository.DeliveryInfo `json:"delivery_info"`
	Notes        string                   `json:"notes"`
	Tags         []string                 `json:"tags"`
	Lines        []booking.LineInput      `json:"lines"`
	Payments     []booking.PaymentInput   `json:"payments"`
}

func (req createOrderRequest) input() booking.CreateOrderInput {
	return booking.CreateOrderInput{
		ClientID:     req.ClientID,
		Period:       booking.NewPeriod(req.StartTime.Time, req.EndTime.Time),
		Status:       req.Status,
		Discount:     req.Discount,
		DeliveryInfo: req.DeliveryInfo,
		Notes:        req.Notes,
		Tags:         req.Tags,
		Lines:        req.Lines,
		Payments:     req.Payments,
	}
}

// updateOrderRequest keeps the difference between an omitted "lines"
// (nil) and an explicit empty list.
type updateOrderRequest struct {
	StartTime    *date                    `json:"start_time"`
	EndTime      *date                    `json:"end_time"`
	Status       *repository.OrderStatus  `json:"status"`
	Discount     *int                     `json:"discount"`
	DeliveryInfo *repository.DeliveryInfo `json:"delivery_info"`
	Notes        *string                  `json:"notes"`
	Tags         []string                 `json:"tags"`
	Lines        []booking.LineInput      `json:"lines"`
	Payments     []booking.PaymentInput   `json:"payments"`
}

func (req updateOrderRequest) input() booking.UpdateOrderInput {
	return booking.UpdateOrderInput{
		Start:        req.StartTime.ptr(),
		End:          req.EndTime.ptr(),
		Status:       req.Status,
		Discount:     req.Discount,
		DeliveryInfo: req.DeliveryInfo,
		Notes:        req.Notes,
		Tags:         req.Tags,
		Lines:        req.Lines,
		Payments:     req.Payments,
	}
}
