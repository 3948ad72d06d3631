package upload

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *Upload) error
	GetByID(ctx context.Context, id string) (*Upload, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Upload, error) {
	var u Upload
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Upload{}).Error
}

// memoryRepository keeps upload metadata in process; used with the memory lead store.
type memoryRepository struct {
	mu      sync.RWMutex
	uploads map[string]Upload
}

func NewMemoryRepository() Repository {
	return &memoryRepository{uploads: make(map[string]Upload)}
}

func (r *memoryRepository) Create(_ context.Context, u *Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads[u.ID] = *u
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.uploads[id]
	if !ok {
		return nil, ErrUploadNotFound
	}
	return &u, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.uploads, id)
	return nil
}
