package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"
)

type ClientInput struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
	Phone     string `json:"phone"`
	Instagram string `json:"instagram"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	Discount  int    `json:"discount"`
}

type ClientPatch struct {
	GivenName *string `json:"given_name"`
	Surname   *string `json:"surname"`
	Phone     *string `json:"phone"`
	Instagram *string `json:"instagram"`
	Email     *string `json:"email"`
	Notes     *string `json:"notes"`
	Discount  *int    `json:"discount"`
}

func (p ClientPatch) empty() bool {
	return p.GivenName == nil && p.Surname == nil && p.Phone == nil && p.Instagram == nil &&
		p.Email == nil && p.Notes == nil && p.Discount == nil
}

type PriceInput struct {
	Amount    int    `json:"amount"`
	Deposit   int    `json:"deposit"`
	PriceType string `json:"price_type"`
}

type VariantInput struct {
	Size         string                   `json:"size"`
	Color        string                   `json:"color"`
	Quantity     int                      `json:"quantity"`
	Status       repository.VariantStatus `json:"status"`
	ServiceStart *time.Time               `json:"service_start"`
	ServiceEnd   *time.Time               `json:"service_end"`
	Prices       []PriceInput             `json:"prices"`
}

// VariantPatch updates a variant field by field. A nil Prices keeps the
// price list; a non-nil one replaces it. A nil service date keeps the stored
// one, so setting status to available is the only way to drop the
// maintenance window.
type VariantPatch struct {
	Size         *string                   `json:"size"`
	Color        *string                   `json:"color"`
	Quantity     *int                      `json:"quantity"`
	Status       *repository.VariantStatus `json:"status"`
	ServiceStart *time.Time                `json:"service_start"`
	ServiceEnd   *time.Time                `json:"service_end"`
	Prices       []PriceInput              `json:"prices"`
}

type ItemInput struct {
	Title       string                `json:"title"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	ImageURL    string                `json:"image_url"`
	Status      repository.ItemStatus `json:"status"`
	Tags        []string              `json:"tags"`
	Variants    []VariantInput        `json:"variants"`
}

// VariantUpsert is one entry of an item's desired variant list. A zero ID
// creates a new variant.
type VariantUpsert struct {
	ID uuid.UUID `json:"id"`
	VariantPatch
}

// ItemPatch updates item fields. A non-nil Variants is the complete desired
// variant list: unknown entries are created, listed ones updated and
// missing ones removed.
type ItemPatch struct {
	Title       *string                `json:"title"`
	Category    *string                `json:"category"`
	Description *string                `json:"description"`
	ImageURL    *string                `json:"image_url"`
	Status      *repository.ItemStatus `json:"status"`
	Tags        []string               `json:"tags"`
	Variants    []VariantUpsert        `json:"variants"`
}

func (p ItemPatch) empty() bool {
	return p.Title == nil && p.Category == nil && p.Description == nil && p.ImageURL == nil &&
		p.Status == nil && p.Tags == nil && p.Variants == nil
}

func (e *Engine) CreateClient(ctx context.Context, in ClientInput) (*repository.Client, error) {
	const op = "CreateClient"
	now := e.now()
	client := &repository.Client{
		ID:        uuid.New(),
		GivenName: strings.TrimSpace(in.GivenName),
		Surname:   strings.TrimSpace(in.Surname),
		Phone:     strings.TrimSpace(in.Phone),
		Instagram: in.Instagram,
		Email:     in.Email,
		Notes:     in.Notes,
		Discount:  in.Discount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if client.Phone == "" {
		return nil, e.fail(op, badRequest(op, "phone is required"))
	}
	if err := validateDiscount(op, client.Discount); err != nil {
		return nil, e.fail(op, err)
	}

	err := e.inTx(ctx, op, func(tx db.Tx) error {
		taken, err := e.clients.PhoneTaken(ctx, tx, client.Phone, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return conflict(op, "client with phone %s already exists", client.Phone)
		}
		if err := e.clients.Create(ctx, tx, client); err != nil {
			return err
		}
		return e.audit(ctx, tx, auditEvent{action: "client.created", entityType: "client", entityID: client.ID.String()})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("client created", zap.String("client_id", client.ID.String()), zap.String("actor", ActorFrom(ctx)))
	return client, nil
}

func (e *Engine) UpdateClient(ctx context.Context, id uuid.UUID, patch ClientPatch) (*repository.Client, error) {
	const op = "UpdateClient"
	if patch.empty() {
		return nil, e.fail(op, badRequest(op, "nothing to update"))
	}

	var client *repository.Client
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		var err error
		client, err = e.clients.GetForUpdate(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "client %s not found", id)
			}
			return err
		}

		if patch.Phone != nil {
			phone := strings.TrimSpace(*patch.Phone)
			if phone == "" {
				return badRequest(op, "phone is required")
			}
			if phone != client.Phone {
				taken, err := e.clients.PhoneTaken(ctx, tx, phone, client.ID)
				if err != nil {
					return err
				}
				if taken {
					return conflict(op, "client with phone %s already exists", phone)
				}
			}
			client.Phone = phone
		}
		if patch.Discount != nil {
			if err := validateDiscount(op, *patch.Discount); err != nil {
				return err
			}
			client.Discount = *patch.Discount
		}
		setString(&client.GivenName, patch.GivenName)
		setString(&client.Surname, patch.Surname)
		setString(&client.Instagram, patch.Instagram)
		setString(&client.Email, patch.Email)
		setString(&client.Notes, patch.Notes)
		client.UpdatedAt = e.now()

		if err := e.clients.Update(ctx, tx, client); err != nil {
			return err
		}
		return e.audit(ctx, tx, auditEvent{action: "client.updated", entityType: "client", entityID: client.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient resolves archived clients too.
func (e *Engine) GetClient(ctx context.Context, id uuid.UUID) (*repository.Client, error) {
	const op = "GetClient"
	client, err := e.clients.GetByID(ctx, e.db, id)
	if err != nil {
		if isNotFound(err) {
			return nil, e.fail(op, notFound(op, "client %s not found", id))
		}
		return nil, e.fail(op, persistenceError(op, err))
	}
	return client, nil
}

func (e *Engine) ListClients(ctx context.Context, includeArchived bool) ([]*repository.Client, error) {
	const op = "ListClients"
	clients, err := e.clients.List(ctx, e.db, includeArchived)
	if err != nil {
		return nil, e.fail(op, persistenceError(op, err))
	}
	return clients, nil
}

func (e *Engine) CreateItem(ctx context.Context, in ItemInput) (*ItemView, error) {
	const op = "CreateItem"
	now := e.now()
	item := &repository.Item{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Status:      in.Status,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Title == "" {
		return nil, e.fail(op, badRequest(op, "title is required"))
	}
	if item.Status == "" {
		item.Status = repository.ItemInStock
	}
	if !item.Status.Valid() {
		return nil, e.fail(op, badRequest(op, "unknown item status %q", item.Status))
	}

	var view *ItemView
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		taken, err := e.items.TitleTaken(ctx, tx, item.Title, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return conflict(op, "item with title %q already exists", item.Title)
		}
		if err := e.items.Create(ctx, tx, item); err != nil {
			return err
		}
		for _, vin := range in.Variants {
			if _, err := e.createVariant(ctx, tx, op, item.ID, vin); err != nil {
				return err
			}
		}
		if err := e.audit(ctx, tx, auditEvent{action: "item.created", entityType: "item", entityID: item.ID.String()}); err != nil {
			return err
		}
		view, err = e.loadItemView(ctx, tx, op, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("item created", zap.String("item_id", item.ID.String()), zap.Int("variants", len(view.Variants)))
	return view, nil
}

func (e *Engine) UpdateItem(ctx context.Context, id uuid.UUID, patch ItemPatch) (*ItemView, error) {
	const op = "UpdateItem"
	if patch.empty() {
		return nil, e.fail(op, badRequest(op, "nothing to update"))
	}

	var view *ItemView
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		item, err := e.items.GetForUpdate(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "item %s not found", id)
			}
			return err
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return badRequest(op, "title is required")
			}
			if title != item.Title {
				taken, err := e.items.TitleTaken(ctx, tx, title, item.ID)
				if err != nil {
					return err
				}
				if taken {
					return conflict(op, "item with title %q already exists", title)
				}
			}
			item.Title = title
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return badRequest(op, "unknown item status %q", *patch.Status)
			}
			item.Status = *patch.Status
		}
		setString(&item.Category, patch.Category)
		setString(&item.Description, patch.Description)
		setString(&item.ImageURL, patch.ImageURL)
		if patch.Tags != nil {
			item.Tags = patch.Tags
		}
		item.UpdatedAt = e.now()

		if err := e.items.Update(ctx, tx, item); err != nil {
			return err
		}
		if patch.Variants != nil {
			if err := e.reconcileVariants(ctx, tx, op, item, patch.Variants); err != nil {
				return err
			}
		}
		if err := e.audit(ctx, tx, auditEvent{action: "item.updated", entityType: "item", entityID: item.ID.String()}); err != nil {
			return err
		}
		view, err = e.loadItemView(ctx, tx, op, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// reconcileVariants makes the item's live variants match the desired list.
// Variants left out go through the archive-or-delete rule.
func (e *Engine) reconcileVariants(ctx context.Context, tx db.Tx, op string, item *repository.Item, desired []VariantUpsert) error {
	current, err := e.variants.ListByItem(ctx, tx, item.ID, false)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*repository.ItemVariant, len(current))
	for _, v := range current {
		byID[v.ID] = v
	}

	kept := make(map[uuid.UUID]struct{}, len(desired))
	for _, d := range desired {
		if d.ID == uuid.Nil {
			if _, err := e.createVariant(ctx, tx, op, item.ID, d.VariantPatch.asInput()); err != nil {
				return err
			}
			continue
		}
		v, ok := byID[d.ID]
		if !ok {
			return notFound(op, "variant %s does not belong to item %s", d.ID, item.ID)
		}
		if err := e.applyVariantPatch(ctx, tx, op, v, d.VariantPatch); err != nil {
			return err
		}
		kept[d.ID] = struct{}{}
	}

	for _, v := range current {
		if _, ok := kept[v.ID]; ok {
			continue
		}
		outcome, err := e.removeEntity(ctx, tx, op, &variantRemoval{e: e, variant: v})
		if err != nil {
			return err
		}
		e.logger.Debug("variant dropped from item",
			zap.String("variant_id", v.ID.String()),
			zap.String("outcome", string(outcome)),
		)
	}
	return nil
}

func (e *Engine) GetItem(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	return e.ProjectAvailability(ctx, id, nil, 0)
}

func (e *Engine) ListItems(ctx context.Context, includeArchived bool) ([]*repository.Item, error) {
	const op = "ListItems"
	items, err := e.items.List(ctx, e.db, includeArchived)
	if err != nil {
		return nil, e.fail(op, persistenceError(op, err))
	}
	return items, nil
}

func (e *Engine) CreateVariant(ctx context.Context, itemID uuid.UUID, in VariantInput) (*VariantView, error) {
	const op = "CreateVariant"
	var view *VariantView
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		item, err := e.items.GetForUpdate(ctx, tx, itemID)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "item %s not found", itemID)
			}
			return err
		}
		if item.Lifecycle() == repository.LifecycleArchived {
			return badRequest(op, "item %s is archived", item.ID)
		}
		v, err := e.createVariant(ctx, tx, op, item.ID, in)
		if err != nil {
			return err
		}
		if err := e.audit(ctx, tx, auditEvent{
			action:     "variant.created",
			entityType: "variant",
			entityID:   v.ID.String(),
			newStatus:  string(v.Status),
		}); err != nil {
			return err
		}
		view, err = e.variantView(ctx, tx, v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (e *Engine) UpdateVariant(ctx context.Context, id uuid.UUID, patch VariantPatch) (*VariantView, error) {
	const op = "UpdateVariant"
	var view *VariantView
	err := e.inTx(ctx, op, func(tx db.Tx) error {
		v, err := e.lockedVariant(ctx, tx, id)
		if err != nil {
			if isNotFound(err) {
				return notFound(op, "variant %s not found", id)
			}
			return err
		}
		if v.Lifecycle() == repository.LifecycleArchived {
			return badRequest(op, "variant %s is archived", id)
		}
		oldStatus := v.Status
		if err := e.applyVariantPatch(ctx, tx, op, v, patch); err != nil {
			return err
		}
		if err := e.audit(ctx, tx, auditEvent{
			action:     "variant.updated",
			entityType: "variant",
			entityID:   v.ID.String(),
			oldStatus:  string(oldStatus),
			newStatus:  string(v.Status),
		}); err != nil {
			return err
		}
		view, err = e.variantView(ctx, tx, v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetVariant resolves archived variants too.
func (e *Engine) GetVariant(ctx context.Context, id uuid.UUID) (*VariantView, error) {
	const op = "GetVariant"
	v, err := e.variants.GetByID(ctx, e.db, id)
	if err != nil {
		if isNotFound(err) {
			return nil, e.fail(op, notFound(op, "variant %s not found", id))
		}
		return nil, e.fail(op, persistenceError(op, err))
	}
	view, err := e.variantView(ctx, e.db, v)
	if err != nil {
		return nil, e.fail(op, persistenceError(op, err))
	}
	return view, nil
}

func (e *Engine) createVariant(ctx context.Context, tx db.Tx, op string, itemID uuid.UUID, in VariantInput) (*repository.ItemVariant, error) {
	now := e.now()
	v := &repository.ItemVariant{
		ID:           uuid.New(),
		ItemID:       itemID,
		Size:         in.Size,
		Color:        in.Color,
		Quantity:     in.Quantity,
		Status:       in.Status,
		ServiceStart: dayPtr(in.ServiceStart),
		ServiceEnd:   dayPtr(in.ServiceEnd),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if v.Quantity == 0 {
		v.Quantity = 1
	}
	if v.Status == "" {
		v.Status = repository.VariantAvailable
		if v.ServiceStart != nil || v.ServiceEnd != nil {
			v.Status = repository.VariantRepair
		}
	}
	if err := normalizeVariant(op, v); err != nil {
		return nil, err
	}
	if err := e.variants.Create(ctx, tx, v); err != nil {
		return nil, err
	}
	if err := e.variants.ReplacePrices(ctx, tx, v.ID, toPrices(v.ID, in.Prices)); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) applyVariantPatch(ctx context.Context, tx db.Tx, op string, v *repository.ItemVariant, patch VariantPatch) error {
	setString(&v.Size, patch.Size)
	setString(&v.Color, patch.Color)
	if patch.Quantity != nil {
		v.Quantity = *patch.Quantity
	}
	if patch.ServiceStart != nil {
		v.ServiceStart = dayPtr(patch.ServiceStart)
	}
	if patch.ServiceEnd != nil {
		v.ServiceEnd = dayPtr(patch.ServiceEnd)
	}
	if patch.Status != nil {
		v.Status = *patch.Status
		if v.Status == repository.VariantAvailable {
			v.ServiceStart, v.ServiceEnd = nil, nil
		}
	}
	if err := normalizeVariant(op, v); err != nil {
		return err
	}
	v.UpdatedAt = e.now()

	if err := e.variants.Update(ctx, tx, v); err != nil {
		return err
	}
	if patch.Prices != nil {
		return e.variants.ReplacePrices(ctx, tx, v.ID, toPrices(v.ID, patch.Prices))
	}
	return nil
}

func normalizeVariant(op string, v *repository.ItemVariant) error {
	if !v.Status.Valid() {
		return badRequest(op, "unknown variant status %q", v.Status)
	}
	if v.Quantity <= 0 {
		return badRequest(op, "quantity must be positive")
	}
	if v.ServiceStart != nil && v.ServiceEnd != nil && v.ServiceStart.After(*v.ServiceEnd) {
		return badRequest(op, "service start must not be after service end")
	}
	return nil
}

func (p VariantPatch) asInput() VariantInput {
	in := VariantInput{
		ServiceStart: p.ServiceStart,
		ServiceEnd:   p.ServiceEnd,
		Prices:       p.Prices,
	}
	if p.Size != nil {
		in.Size = *p.Size
	}
	if p.Color != nil {
		in.Color = *p.Color
	}
	if p.Quantity != nil {
		in.Quantity = *p.Quantity
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	return in
}

func toPrices(variantID uuid.UUID, in []PriceInput) []*repository.Price {
	prices := make([]*repository.Price, 0, len(in))
	for _, p := range in {
		prices = append(prices, &repository.Price{
			ID:        uuid.New(),
			VariantID: variantID,
			Amount:    p.Amount,
			Deposit:   p.Deposit,
			PriceType: p.PriceType,
		})
	}
	return prices
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}
