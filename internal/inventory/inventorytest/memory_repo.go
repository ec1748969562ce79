// Package inventorytest provides an in-memory inventory.Repository.
package inventorytest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"go-hrops/internal/inventory"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoryRepository struct {
	mu      sync.Mutex
	items   map[uuid.UUID]inventory.Item
	Updates int
}

func NewMemoryRepository(seed ...inventory.Item) *MemoryRepository {
	r := &MemoryRepository{items: map[uuid.UUID]inventory.Item{}}
	for _, item := range seed {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items[item.ID] = item
	}
	return r
}

func (r *MemoryRepository) Get(id uuid.UUID) (inventory.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	return item, ok
}

func (r *MemoryRepository) WithTx(tx *sql.Tx) inventory.Repository { return r }

func (r *MemoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.SKU == item.SKU {
			return gorm.ErrDuplicatedKey
		}
	}
	r.items[item.ID] = *item
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[item.ID] = *item
	r.Updates++
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	if _, ok := r.items[uid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, uid)
	return nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, filter inventory.ListFilter) ([]inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.Item
	for _, item := range r.items {
		if filter.LowStock && !item.LowStock() {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	item, ok := r.items[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *MemoryRepository) FindByIDForUpdate(ctx context.Context, id string) (*inventory.Item, error) {
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) FindByIDsForUpdate(ctx context.Context, ids []string) ([]inventory.Item, error) {
	var out []inventory.Item
	for _, id := range ids {
		item, err := r.FindByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *MemoryRepository) CountLowStock(ctx context.Context) (int64, error) {
	items, _ := r.FindAll(ctx, inventory.ListFilter{LowStock: true})
	return int64(len(items)), nil
}
