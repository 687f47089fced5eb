package repository

import (
	"context"

	"marketplace-api/internal/model"

	"gorm.io/gorm"
)

type VendorRepository interface {
	// FindByToken resolves a vendor from its opaque access token.
	// Inactive vendors are not resolvable.
	FindByToken(ctx context.Context, token string) (*model.Vendor, error)
}

type vendorRepoImpl struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepoImpl{db: db}
}

func (r *vendorRepoImpl) FindByToken(ctx context.Context, token string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.WithContext(ctx).
		Where("access_token = ? AND active = ?", token, true).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
