package audit_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"go-hrops/internal/audit"
	auditerrors "go-hrops/internal/audit/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuditRepository struct {
	rows      []audit.EmployeeAudit
	gotFilter audit.ListFilter
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Create(ctx context.Context, a *audit.EmployeeAudit) error {
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAuditRepository) FindAll(ctx context.Context, filter audit.ListFilter) ([]audit.EmployeeAudit, error) {
	f.gotFilter = filter
	return f.rows, nil
}

func TestNewEntry(t *testing.T) {
	target := uuid.New()
	actor := uuid.New()

	a, err := audit.NewEntry(actor.String(), target, audit.ActionProfileUpdated, map[string]any{"position": "Lead"})
	assert.NoError(t, err)
	assert.Equal(t, target, a.TargetUserID)
	assert.Equal(t, actor, *a.ActorID)

	var changes map[string]string
	assert.NoError(t, json.Unmarshal(a.Changes, &changes))
	assert.Equal(t, "Lead", changes["position"])

	system, err := audit.NewEntry("", target, audit.ActionProfileTerminated, nil)
	assert.NoError(t, err)
	assert.Nil(t, system.ActorID)
	assert.Nil(t, system.Changes)
}

func TestService_GetAll(t *testing.T) {
	repo := &fakeAuditRepository{}
	svc := audit.NewService(repo)
	target := uuid.New()

	entry, _ := audit.NewEntry("", target, audit.ActionProfileCreated, nil)
	_ = repo.Create(context.Background(), entry)

	t.Run("maps rows", func(t *testing.T) {
		resp, err := svc.GetAll(context.Background(), audit.ListFilter{TargetUserID: target.String()})
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, audit.ActionProfileCreated, resp[0].Action)
		assert.Equal(t, target.String(), repo.gotFilter.TargetUserID)
	})

	t.Run("invalid target id", func(t *testing.T) {
		_, err := svc.GetAll(context.Background(), audit.ListFilter{TargetUserID: "nope"})
		assert.ErrorIs(t, err, auditerrors.ErrInvalidTargetID)
	})
}
