package service

import (
	"context"
	"log/slog"
	"time"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/apierror"
)

const auditWriteTimeout = 5 * time.Second

// AuditService turns domain events into audit entries. Without a repository
// the events are only logged and queries report the trail as unavailable.
type AuditService struct {
	repo   repository.AuditRepository
	logger *slog.Logger
}

func NewAuditService(repo repository.AuditRepository, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Enabled() bool {
	return s.repo != nil
}

// Run records events until ctx is cancelled or the channel is closed.
func (s *AuditService) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.Record(ctx, e)
		}
	}
}

// Record persists a single event. Storage failures are logged, never returned.
func (s *AuditService) Record(ctx context.Context, e event.Event) {
	entry := model.AuditEntry{
		ID:         e.ID,
		Action:     string(e.Type),
		OccurredAt: e.OccurredAt,
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole,
		IP:         e.IP,
		Status:     model.AuditSuccess,
		Resource:   e.Resource,
		Details:    e.Payload,
	}

	if s.repo == nil {
		s.logger.Info("audit", "action", entry.Action, "actor_id", entry.ActorID, "resource", entry.Resource)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := s.repo.Log(writeCtx, entry); err != nil {
		s.logger.Error("failed to record audit entry", "action", entry.Action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, int, error) {
	if s.repo == nil {
		return nil, 0, apierror.Unavailable("Audit trail is not configured.")
	}
	return s.repo.Query(ctx, filter)
}
