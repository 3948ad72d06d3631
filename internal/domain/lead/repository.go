package lead

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Store owns the authoritative list of leads.
type Store interface {
	Create(ctx context.Context, lead *Lead) error
	// ListAll returns every lead in creation order.
	ListAll(ctx context.Context) ([]Lead, error)
	GetByID(ctx context.Context, id int64) (*Lead, error)
	// UpdateStatus sets the state and returns the stored record, or ErrLeadNotFound.
	UpdateStatus(ctx context.Context, id int64, state State) (*Lead, error)
	CountByState(ctx context.Context) (map[State]int, error)
}

// Repository handles lead data access through gorm
type Repository struct {
	db *gorm.DB
}

// NewRepository creates lead repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new lead and fills in its ID
func (r *Repository) Create(ctx context.Context, lead *Lead) error {
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = lead.SubmittedAt
	}
	return r.db.WithContext(ctx).Create(lead).Error
}

// ListAll returns all leads ordered by id
func (r *Repository) ListAll(ctx context.Context) ([]Lead, error) {
	leads := make([]Lead, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&leads).Error
	return leads, err
}

// GetByID retrieves lead by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Lead, error) {
	var lead Lead
	err := r.db.WithContext(ctx).First(&lead, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// UpdateStatus updates lead state inside a transaction so the returned
// record is the one that was written.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, state State) (*Lead, error) {
	var lead Lead
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lead, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeadNotFound
			}
			return err
		}
		if lead.State == state {
			return nil
		}

		now := time.Now().UTC()
		if err := tx.Model(&Lead{}).
			Where("id = ?", id).
			Updates(map[string]any{"state": state, "updated_at": now}).Error; err != nil {
			return err
		}
		lead.State = state
		lead.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// CountByState returns lead counts by state
func (r *Repository) CountByState(ctx context.Context) (map[State]int, error) {
	var rows []struct {
		State State
		Count int
	}
	err := r.db.WithContext(ctx).
		Model(&Lead{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[State]int, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}
