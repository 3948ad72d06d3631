package lead

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"leadintake/internal/domain/upload"
	"leadintake/internal/metrics"
	"leadintake/internal/pkg/logger"
)

// ResumeStore persists the uploaded resume file.
type ResumeStore interface {
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (*upload.Upload, error)
	Delete(ctx context.Context, id string) error
}

// Service handles lead business logic
type Service struct {
	store   Store
	resumes ResumeStore
	events  Publisher
	metrics *metrics.Metrics
	log     *zap.Logger

	trustClientTime bool
	now             func() time.Time
	listGroup       singleflight.Group
}

// NewService creates lead service. events and m may be nil.
func NewService(store Store, resumes ResumeStore, events Publisher, m *metrics.Metrics, log *zap.Logger, trustClientTime bool) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:           store,
		resumes:         resumes,
		events:          events,
		metrics:         m,
		log:             log,
		trustClientTime: trustClientTime,
		now:             time.Now,
	}
}

// Submit validates the public form, stores the resume and creates a Pending lead.
func (s *Service) Submit(ctx context.Context, req *SubmitLeadRequest) (*Lead, error) {
	if errs := ValidateSubmission(req); errs != nil {
		s.metrics.ValidationFailed(errs)
		return nil, &ValidationError{Fields: errs}
	}

	up, err := s.resumes.Save(ctx, req.Resume)
	if err != nil {
		if msg, ok := resumeProblem(err); ok {
			fields := map[string]string{"resume": msg}
			s.metrics.ValidationFailed(fields)
			return nil, &ValidationError{Fields: fields}
		}
		return nil, fmt.Errorf("save resume: %w", err)
	}

	submittedAt := s.now().UTC()
	if s.trustClientTime && req.SubmittedAt != nil && !req.SubmittedAt.IsZero() {
		submittedAt = req.SubmittedAt.UTC()
	}

	lead := &Lead{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Citizenship:    req.Citizenship,
		Website:        req.Website,
		VisaCategories: req.VisaCategories,
		HelpText:       req.HelpText,
		Resume: ResumeRef{
			ID:       up.ID,
			Name:     up.OriginalName,
			MimeType: up.MimeType,
			Size:     up.Size,
			URL:      upload.URL(up.ID),
		},
		State:       StatePending,
		SubmittedAt: submittedAt,
	}

	if err := s.store.Create(ctx, lead); err != nil {
		if delErr := s.resumes.Delete(context.WithoutCancel(ctx), up.ID); delErr != nil {
			s.log.Warn("orphaned resume after failed lead insert", zap.String("upload_id", up.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.metrics.LeadSubmitted()
	s.publish(EventLeadCreated, *lead)
	s.log.Info("lead submitted",
		zap.Int64("lead_id", lead.ID),
		logger.Email("email", lead.Email),
		zap.Strings("visa_categories", lead.VisaCategories),
	)

	return lead, nil
}

// ListAll returns every lead in creation order. Concurrent callers share
// one store read; each gets its own copy of the result.
func (s *Service) ListAll(ctx context.Context) ([]Lead, error) {
	v, err, _ := s.listGroup.Do("all", func() (any, error) {
		return s.store.ListAll(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]Lead)
	leads := make([]Lead, len(shared))
	for i := range shared {
		leads[i] = shared[i].Clone()
	}
	return leads, nil
}

// GetByID returns lead by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Lead, error) {
	return s.store.GetByID(ctx, id)
}

// AdvanceToReachedOut marks the lead as reached out. Already reached-out
// leads are returned unchanged.
func (s *Service) AdvanceToReachedOut(ctx context.Context, id int64) (*Lead, error) {
	return s.UpdateStatus(ctx, id, StateReachedOut)
}

// UpdateStatus applies a state change. States only move forward:
// Pending -> Reached Out. Setting the current state again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id int64, state State) (*Lead, error) {
	if !state.Valid() {
		return nil, ErrInvalidState
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.State == state {
		return current, nil
	}
	if current.State == StateReachedOut {
		return nil, ErrInvalidTransition
	}

	updated, err := s.store.UpdateStatus(ctx, id, state)
	if err != nil {
		return nil, err
	}

	s.metrics.LeadTransitioned(string(current.State), string(updated.State))
	s.publish(EventLeadUpdated, *updated)
	s.log.Info("lead state changed",
		zap.Int64("lead_id", id),
		zap.String("from", string(current.State)),
		zap.String("to", string(updated.State)),
	)

	return updated, nil
}

// Stats returns lead counts by state
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.store.CountByState(ctx)
	if err != nil {
		return nil, err
	}

	resp := &StatsResponse{States: map[State]int{StatePending: 0, StateReachedOut: 0}}
	for state, n := range counts {
		resp.States[state] = n
		resp.Total += n
	}
	return resp, nil
}

func (s *Service) publish(eventType string, lead Lead) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, lead.Clone())
}

func resumeProblem(err error) (string, bool) {
	switch {
	case errors.Is(err, upload.ErrEmptyFile):
		return "The attached file is empty", true
	case errors.Is(err, upload.ErrFileTooLarge):
		return "The attached file is too large", true
	case errors.Is(err, upload.ErrInvalidMimeType):
		return "Upload a PDF, Word, OpenDocument, RTF or plain text file", true
	}
	return "", false
}
