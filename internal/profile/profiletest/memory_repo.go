// Package profiletest provides an in-memory profile.Repository for tests of
// packages that read or lock profiles.
package profiletest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"go-hrops/internal/profile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoryRepository struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]profile.Profile
	documents []profile.Document
	Updates   int
	// UpdateErr, when set, is returned by Update.
	UpdateErr error
}

func NewMemoryRepository(seed ...profile.Profile) *MemoryRepository {
	r := &MemoryRepository{profiles: map[uuid.UUID]profile.Profile{}}
	for _, p := range seed {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.profiles[p.ID] = p
	}
	return r
}

// Get returns a copy of the stored profile.
func (r *MemoryRepository) Get(id uuid.UUID) (profile.Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	return p, ok
}

func (r *MemoryRepository) WithTx(tx *sql.Tx) profile.Repository { return r }

func (r *MemoryRepository) Create(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.profiles[p.ID] = *p
	return nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, filter profile.ListFilter) ([]profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []profile.Profile
	for _, p := range r.profiles {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if !filter.IncludeFormer && p.IsTerminated {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	p, ok := r.profiles[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) FindByIDForUpdate(ctx context.Context, id string) (*profile.Profile, error) {
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryRepository) FindActive(ctx context.Context) ([]profile.Profile, error) {
	return r.FindAll(ctx, profile.ListFilter{})
}

func (r *MemoryRepository) Update(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	if _, ok := r.profiles[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.profiles[p.ID] = *p
	r.Updates++
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, _ := uuid.Parse(id)
	if _, ok := r.profiles[uid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.profiles, uid)
	return nil
}

func (r *MemoryRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.profiles {
		if p.Role == role && !p.IsTerminated {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) CreateDocument(ctx context.Context, d *profile.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = append(r.documents, *d)
	return nil
}

func (r *MemoryRepository) FindDocuments(ctx context.Context, profileID string) ([]profile.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []profile.Document
	for _, d := range r.documents {
		if d.ProfileID.String() == profileID {
			out = append(out, d)
		}
	}
	return out, nil
}
