package services

import (
	"context"
	"time"

	"github.com/jobnest/backend/internal/cache"
	"github.com/jobnest/backend/internal/models"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/utils"

	"github.com/google/uuid"
)

const unreadCountTTL = 30 * time.Second

type NotificationService interface {
	// Notify writes one unread notification. Durable: an error here means
	// nothing was written.
	Notify(ctx context.Context, userID, content string) (*models.Notification, error)
	List(ctx context.Context, userID string, page, perPage int) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
	// InvalidateUnread drops cached unread counts after notifications were
	// written outside this service (transactional fan-out).
	InvalidateUnread(ctx context.Context, userIDs ...string)
}

type notificationService struct {
	notifs pgrepo.NotificationRepository
	cache  cache.Cache
}

func NewNotificationService(notifs pgrepo.NotificationRepository, c cache.Cache) NotificationService {
	return &notificationService{notifs: notifs, cache: c}
}

func unreadCountKey(userID string) string {
	return "notifications:unread:" + userID
}

func (s *notificationService) Notify(ctx context.Context, userID, content string) (*models.Notification, error) {
	const op = "NotificationService.Notify"

	if userID == "" || content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and content are required", nil)
	}

	row := &models.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		Content:     content,
		IsRead:      false,
		CreatedDate: time.Now().UTC(),
	}
	if err := s.notifs.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to insert notification", err)
	}

	s.InvalidateUnread(ctx, userID)
	return row, nil
}

func (s *notificationService) List(ctx context.Context, userID string, page, perPage int) ([]models.Notification, int64, error) {
	const op = "NotificationService.List"

	if userID == "" {
		return nil, 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	rows, total, err := s.notifs.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	return rows, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	const op = "NotificationService.UnreadCount"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if s.cache != nil {
		var cached int64
		if hit, err := s.cache.GetJSON(ctx, unreadCountKey(userID), &cached); err == nil && hit {
			return cached, nil
		}
	}

	count, err := s.notifs.CountUnread(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to count unread notifications", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, unreadCountKey(userID), count, unreadCountTTL)
	}
	return count, nil
}

// MarkRead is a silent no-op when the notification does not exist, belongs
// to someone else, or is already read.
func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	const op = "NotificationService.MarkRead"

	if id == "" || userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "id and user_id are required", nil)
	}
	if err := s.notifs.MarkRead(ctx, id, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to mark notification read", err)
	}
	s.InvalidateUnread(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	const op = "NotificationService.MarkAllRead"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if err := s.notifs.MarkAllRead(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to mark notifications read", err)
	}
	s.InvalidateUnread(ctx, userID)
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	const op = "NotificationService.Delete"

	if id == "" || userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "id and user_id are required", nil)
	}
	if err := s.notifs.Delete(ctx, id, userID); err != nil {
		if err == utils.ErrNotFound {
			return utils.E(utils.CodeNotFound, op, "notification not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete notification", err)
	}
	s.InvalidateUnread(ctx, userID)
	return nil
}

func (s *notificationService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	const op = "NotificationService.DeleteAll"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	count, err := s.notifs.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to delete notifications", err)
	}
	s.InvalidateUnread(ctx, userID)
	return count, nil
}

func (s *notificationService) InvalidateUnread(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, unreadCountKey(id))
	}
	_ = s.cache.Del(ctx, keys...)
}
