package inventory

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hrops/internal/events"
	inventoryerrors "go-hrops/internal/inventory/errors"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=inventory_service.go -destination=mock/inventory_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateItemRequest) (ItemResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateItemRequest) (ItemResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	GetAll(ctx context.Context, filter ListFilter) ([]ItemResponse, error)
	GetByID(ctx context.Context, id string) (ItemResponse, error)
	Adjust(ctx context.Context, actorID, id string, req AdjustRequest) (ItemResponse, error)
	LowStock(ctx context.Context) ([]ItemResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("inventory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("inventory.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateItemRequest) (ItemResponse, error) {
	s.logger.Debug("create inventory item requested", zap.String("sku", req.SKU))

	if req.Quantity < 0 || req.ReorderLevel < 0 {
		return ItemResponse{}, inventoryerrors.ErrInvalidQuantity
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "pcs"
	}
	item := &Item{
		ID:           uuid.New(),
		SKU:          strings.ToUpper(strings.TrimSpace(req.SKU)),
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         unit,
		ReorderLevel: req.ReorderLevel,
		Location:     req.Location,
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.WithTx(tx).Create(ctx, item); err != nil {
			return apperror.FromDB(err, nil, inventoryerrors.ErrSKUExists)
		}
		return s.recordChange(ctx, tx, events.OpInsert, item.ID.String(), actorID)
	})
	if err != nil {
		s.logger.Warn("create inventory item failed", zap.String("sku", item.SKU), zap.Error(err))
		return ItemResponse{}, err
	}

	s.logger.Info("create inventory item success", zap.String("item_id", item.ID.String()))
	return mapToResponse(*item), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateItemRequest) (ItemResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ItemResponse{}, inventoryerrors.ErrInvalidItemID
	}
	if req.ReorderLevel != nil && *req.ReorderLevel < 0 {
		return ItemResponse{}, inventoryerrors.ErrInvalidQuantity
	}

	var item *Item
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)
		var err error
		item, err = qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if req.Name != nil {
			item.Name = strings.TrimSpace(*req.Name)
		}
		if req.Category != nil {
			item.Category = req.Category
		}
		if req.Unit != nil {
			item.Unit = strings.TrimSpace(*req.Unit)
		}
		if req.ReorderLevel != nil {
			item.ReorderLevel = *req.ReorderLevel
		}
		if req.Location != nil {
			item.Location = req.Location
		}
		if err := qtx.Update(ctx, item); err != nil {
			return err
		}
		return s.recordChange(ctx, tx, events.OpUpdate, id, actorID)
	})
	if err != nil {
		return ItemResponse{}, err
	}
	return mapToResponse(*item), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return inventoryerrors.ErrInvalidItemID
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return mapRepositoryError(err)
		}
		return s.recordChange(ctx, tx, events.OpDelete, id, actorID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("delete inventory item success", zap.String("item_id", id))
	return nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]ItemResponse, error) {
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapAll(items), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ItemResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ItemResponse{}, inventoryerrors.ErrInvalidItemID
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ItemResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*item), nil
}

func (s *service) Adjust(ctx context.Context, actorID, id string, req AdjustRequest) (ItemResponse, error) {
	s.logger.Debug("adjust inventory requested", zap.String("item_id", id), zap.Int("delta", req.Delta))

	if _, err := uuid.Parse(id); err != nil {
		return ItemResponse{}, inventoryerrors.ErrInvalidItemID
	}

	var item *Item
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)
		var err error
		item, err = qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := item.Adjust(req.Delta); err != nil {
			return err
		}
		if err := qtx.Update(ctx, item); err != nil {
			return err
		}
		return s.recordChange(ctx, tx, events.OpUpdate, id, actorID)
	})
	if err != nil {
		s.logger.Warn("adjust inventory failed", zap.String("item_id", id), zap.Error(err))
		return ItemResponse{}, err
	}

	s.logger.Info("adjust inventory success",
		zap.String("item_id", id),
		zap.Int("delta", req.Delta),
		zap.Int("quantity", item.Quantity),
		zap.String("reason", req.Reason),
	)
	return mapToResponse(*item), nil
}

func (s *service) LowStock(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.repo.FindAll(ctx, ListFilter{LowStock: true})
	if err != nil {
		return nil, err
	}
	return mapAll(items), nil
}

func (s *service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("inventory commit failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) recordChange(ctx context.Context, tx *sql.Tx, op, itemID, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	change := events.NewChangeEvent(events.TableInventoryItems, op, itemID, "", actorID)
	event, err := kafka.NewOutboxEvent(ctx, events.TableInventoryItems, itemID, change.EventType, events.ChangeFeedTopic, change)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventoryerrors.ErrItemNotFound
	}
	return err
}

func mapAll(items []Item) []ItemResponse {
	res := make([]ItemResponse, len(items))
	for i, item := range items {
		res[i] = mapToResponse(item)
	}
	return res
}

func mapToResponse(i Item) ItemResponse {
	resp := ItemResponse{
		ID:           i.ID.String(),
		SKU:          i.SKU,
		Name:         i.Name,
		Category:     i.Category,
		Quantity:     i.Quantity,
		Unit:         i.Unit,
		ReorderLevel: i.ReorderLevel,
		Location:     i.Location,
		LowStock:     i.LowStock(),
	}
	if !i.UpdatedAt.IsZero() {
		resp.UpdatedAt = i.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
