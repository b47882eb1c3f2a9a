package postgres

import (
	"context"
	"errors"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	FindByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error)
	// CreateWithParticipants inserts the conversation and attaches both
	// participants in one transaction. The unique index on pair_key turns
	// a racing duplicate into utils.ErrConflict.
	CreateWithParticipants(ctx context.Context, conv *models.Conversation, userA, userB *models.User) error
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
	InsertMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var row models.Conversation
	err := r.db.WithContext(ctx).Preload("Users").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *conversationRepo) FindByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error) {
	var row models.Conversation
	err := r.db.WithContext(ctx).Preload("Users").Where("pair_key = ?", pairKey).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *conversationRepo) CreateWithParticipants(ctx context.Context, conv *models.Conversation, userA, userB *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		return tx.Model(conv).Association("Users").Append(userA, userB)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrConflict
	}
	return err
}

func (r *conversationRepo) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var rows []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Users").
		Joins("JOIN conversation_users cu ON cu.conversation_id = conversations.id").
		Where("cu.user_id = ?", userID).
		Find(&rows).Error
	return rows, err
}

func (r *conversationRepo) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("conversation_users").
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *conversationRepo) ParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("conversation_users").
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *conversationRepo) InsertMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *conversationRepo) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
