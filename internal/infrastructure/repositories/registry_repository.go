package repositories

import (
	"context"
	"fmt"

	"github.com/avatarctic/realestate-crm/internal/core/domain/registry"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

type RegistryRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewRegistryRepository(database *db.Database, logger *logrus.Logger) ports.RegistryRepository {
	return &RegistryRepository{db: database, logger: logger}
}

func (r *RegistryRepository) Create(ctx context.Context, rec *registry.Record) error {
	query := `
		INSERT INTO registry_data (extracted_at, customer_name, postal_code, prefecture, current_address,
			inheritance_address, phone_number, status, pdf_path, extracted_pdf_path, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.db.DB.QueryRowxContext(ctx, query,
		rec.ExtractedAt, rec.CustomerName, rec.PostalCode, rec.Prefecture, rec.CurrentAddress,
		rec.InheritanceAddress, rec.PhoneNumber, rec.Status, rec.PDFPath, rec.ExtractedPDFPath, rec.CreatedBy,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"created_by": rec.CreatedBy}).WithError(err).Error("db: failed to store registry record")
		}
		return fmt.Errorf("failed to store registry record: %w", err)
	}
	return nil
}

func (r *RegistryRepository) List(ctx context.Context, createdBy *int64, skip, limit int) ([]*registry.Record, error) {
	list := []*registry.Record{}
	query := `
		SELECT id, extracted_at, customer_name, postal_code, prefecture, current_address, inheritance_address,
			phone_number, status, pdf_path, extracted_pdf_path, created_by, created_at, updated_at
		FROM registry_data
		WHERE ($1::BIGINT IS NULL OR created_by = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.DB.SelectContext(ctx, &list, query, createdBy, limit, skip); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list registry records")
		}
		return nil, fmt.Errorf("failed to list registry records: %w", err)
	}
	return list, nil
}
