package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListGrants(ctx context.Context) ([]RoleGrant, error)
	ReplaceGrants(ctx context.Context, role string, grants []RoleGrant) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListGrants(ctx context.Context) ([]RoleGrant, error) {
	var result []RoleGrant
	err := r.db.WithContext(ctx).Order("role, resource, action").Find(&result).Error
	return result, err
}

func (r *repository) ReplaceGrants(ctx context.Context, role string, grants []RoleGrant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role = ?", role).Delete(&RoleGrant{}).Error; err != nil {
			return err
		}
		if len(grants) == 0 {
			return nil
		}
		return tx.Create(&grants).Error
	})
}
