package task

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"go-hrops/internal/events"
	inventoryerrors "go-hrops/internal/inventory/errors"
	"go-hrops/internal/storage"
	taskerrors "go-hrops/internal/task/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const messagesCacheTTL = 10 * time.Minute

// MessagesCacheKey is shared with the changefeed consumer so other
// instances drop their copy when a message lands.
func MessagesCacheKey(taskID string) string {
	return "task_messages:" + taskID
}

func (s *service) PostMessage(ctx context.Context, actor Actor, taskID string, req PostMessageRequest) (MessageResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return MessageResponse{}, taskerrors.ErrEmptyMessage
	}
	t, err := s.load(ctx, actor, taskID)
	if err != nil {
		return MessageResponse{}, err
	}
	sender, err := uuid.Parse(actor.ID)
	if err != nil {
		return MessageResponse{}, taskerrors.ErrNotParticipant
	}

	m := &Message{
		ID:        uuid.New(),
		TaskID:    t.ID,
		SenderID:  sender,
		Body:      body,
		CreatedAt: s.now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MessageResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateMessage(ctx, m); err != nil {
		s.logger.Error("post message persist failed", zap.String("task_id", taskID), zap.Error(err))
		return MessageResponse{}, err
	}
	if err := s.recordChange(ctx, tx, events.TableTaskMessages, events.OpInsert, m.ID.String(), taskID, actor.ID); err != nil {
		return MessageResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return MessageResponse{}, err
	}

	s.invalidateMessages(ctx, taskID)
	s.logger.Info("task message posted", zap.String("task_id", taskID), zap.String("message_id", m.ID.String()))
	return mapMessage(*m), nil
}

func (s *service) ListMessages(ctx context.Context, actor Actor, taskID string) ([]MessageResponse, error) {
	if _, err := s.load(ctx, actor, taskID); err != nil {
		return nil, err
	}

	key := MessagesCacheKey(taskID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var res []MessageResponse
			if err := json.Unmarshal([]byte(cached), &res); err == nil {
				return res, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("task messages cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	messages, err := s.repo.FindMessages(ctx, taskID)
	if err != nil {
		return nil, err
	}
	res := make([]MessageResponse, len(messages))
	for i, m := range messages {
		res[i] = mapMessage(m)
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(res); err == nil {
			if err := s.rdb.Set(ctx, key, string(raw), messagesCacheTTL).Err(); err != nil {
				s.logger.Warn("task messages cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return res, nil
}

func (s *service) invalidateMessages(ctx context.Context, taskID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, MessagesCacheKey(taskID)).Err(); err != nil {
		s.logger.Warn("task messages cache invalidate failed", zap.String("task_id", taskID), zap.Error(err))
	}
}

// UploadAttachment stores the object first; if the row cannot be written
// the object is removed again.
func (s *service) UploadAttachment(ctx context.Context, actor Actor, taskID string, upload storage.Upload) (AttachmentResponse, error) {
	if upload.Body == nil || upload.Size <= 0 {
		return AttachmentResponse{}, taskerrors.ErrEmptyAttachment
	}
	if upload.Size > storage.MaxUploadSize {
		return AttachmentResponse{}, taskerrors.ErrAttachmentTooLarge
	}
	t, err := s.load(ctx, actor, taskID)
	if err != nil {
		return AttachmentResponse{}, err
	}
	uploader, err := uuid.Parse(actor.ID)
	if err != nil {
		return AttachmentResponse{}, taskerrors.ErrNotParticipant
	}

	key := storage.ObjectKey(taskID, upload.Filename, s.now())
	obj, err := s.store.Put(ctx, storage.BucketTaskImages, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		s.logger.Error("task attachment upload failed", zap.String("task_id", taskID), zap.Error(err))
		return AttachmentResponse{}, err
	}

	a := &Attachment{
		ID:          uuid.New(),
		TaskID:      t.ID,
		Bucket:      obj.Bucket,
		ObjectKey:   obj.Key,
		FileName:    upload.Filename,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		UploadedBy:  uploader,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateAttachment(ctx, a); err != nil {
		s.logger.Error("task attachment persist failed", zap.String("task_id", taskID), zap.Error(err))
		if delErr := s.store.Delete(ctx, obj.Bucket, obj.Key); delErr != nil {
			s.logger.Warn("orphaned task attachment", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return AttachmentResponse{}, err
	}

	s.logger.Info("task attachment uploaded", zap.String("task_id", taskID), zap.String("key", obj.Key))
	return s.mapAttachment(*a), nil
}

func (s *service) ListAttachments(ctx context.Context, actor Actor, taskID string) ([]AttachmentResponse, error) {
	if _, err := s.load(ctx, actor, taskID); err != nil {
		return nil, err
	}
	attachments, err := s.repo.FindAttachments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	res := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		res[i] = s.mapAttachment(a)
	}
	return res, nil
}

// DeductInventory takes every line or none. Rows are locked in id order so
// two tasks drawing on the same items cannot deadlock.
func (s *service) DeductInventory(ctx context.Context, actor Actor, taskID string, req DeductInventoryRequest) (DeductInventoryResponse, error) {
	s.logger.Debug("deduct inventory requested", zap.String("task_id", taskID), zap.Int("lines", len(req.Items)))

	if _, err := uuid.Parse(taskID); err != nil {
		return DeductInventoryResponse{}, taskerrors.ErrInvalidTaskID
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return DeductInventoryResponse{}, taskerrors.ErrNotParticipant
	}
	wanted, err := mergeLines(req.Items)
	if err != nil {
		return DeductInventoryResponse{}, err
	}
	ids := make([]string, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeductInventoryResponse{}, err
	}
	defer tx.Rollback()

	t, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, taskID)
	if err != nil {
		return DeductInventoryResponse{}, mapRepositoryError(err)
	}
	if !t.Participant(actor) {
		return DeductInventoryResponse{}, taskerrors.ErrNotParticipant
	}
	if t.Status == StatusCancelled {
		return DeductInventoryResponse{}, taskerrors.ErrTaskClosed
	}

	itx := s.inventory.WithTx(tx)
	items, err := itx.FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return DeductInventoryResponse{}, err
	}
	if len(items) != len(ids) {
		return DeductInventoryResponse{}, taskerrors.ErrItemNotFound
	}

	now := s.now()
	usages := make([]InventoryUsage, 0, len(items))
	resp := DeductInventoryResponse{TaskID: taskID, Items: make([]UsageResponse, 0, len(items))}
	for i := range items {
		item := &items[i]
		qty := wanted[item.ID.String()]
		if err := item.Take(qty); err != nil {
			if errors.Is(err, inventoryerrors.ErrInsufficientStock) {
				s.logger.Warn("deduct inventory insufficient stock",
					zap.String("task_id", taskID),
					zap.String("item_id", item.ID.String()),
					zap.Int("requested", qty),
					zap.Int("available", item.Quantity),
				)
				return DeductInventoryResponse{}, taskerrors.ErrInsufficientStock
			}
			return DeductInventoryResponse{}, err
		}
		usages = append(usages, InventoryUsage{
			ID:         uuid.New(),
			TaskID:     t.ID,
			ItemID:     item.ID,
			Quantity:   qty,
			DeductedBy: actorID,
			DeductedAt: now,
		})
		resp.Items = append(resp.Items, UsageResponse{ItemID: item.ID.String(), Quantity: qty, Remaining: item.Quantity})
	}

	for i := range items {
		if err := itx.Update(ctx, &items[i]); err != nil {
			s.logger.Error("deduct inventory persist failed", zap.String("item_id", items[i].ID.String()), zap.Error(err))
			return DeductInventoryResponse{}, err
		}
		if err := s.recordChange(ctx, tx, events.TableInventoryItems, events.OpUpdate, items[i].ID.String(), taskID, actor.ID); err != nil {
			return DeductInventoryResponse{}, err
		}
	}
	if err := s.repo.WithTx(tx).CreateUsages(ctx, usages); err != nil {
		s.logger.Error("deduct inventory usage persist failed", zap.String("task_id", taskID), zap.Error(err))
		return DeductInventoryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("deduct inventory commit failed", zap.String("task_id", taskID), zap.Error(err))
		return DeductInventoryResponse{}, err
	}

	s.logger.Info("deduct inventory success", zap.String("task_id", taskID), zap.Int("items", len(items)))
	return resp, nil
}

// mergeLines folds repeated item ids into one quantity.
func mergeLines(lines []UsageLine) (map[string]int, error) {
	if len(lines) == 0 {
		return nil, taskerrors.ErrInvalidUsage
	}
	wanted := make(map[string]int, len(lines))
	for _, l := range lines {
		id, err := uuid.Parse(l.ItemID)
		if err != nil || l.Quantity <= 0 {
			return nil, taskerrors.ErrInvalidUsage
		}
		wanted[id.String()] += l.Quantity
	}
	return wanted, nil
}

func mapMessage(m Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		TaskID:    m.TaskID.String(),
		SenderID:  m.SenderID.String(),
		Body:      m.Body,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func (s *service) mapAttachment(a Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		TaskID:      a.TaskID.String(),
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		URL:         s.store.URL(a.Bucket, a.ObjectKey),
		UploadedBy:  a.UploadedBy.String(),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}
