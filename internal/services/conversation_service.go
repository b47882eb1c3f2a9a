package services

import (
	"context"
	"errors"
	"time"

	"github.com/jobnest/backend/internal/models"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ConversationService is the registry mapping unordered user pairs to a
// single conversation.
type ConversationService interface {
	// GetOrCreate returns the one conversation for {userA, userB},
	// creating it when absent. The boolean reports creation.
	GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	History(ctx context.Context, userID, conversationID string, limit int) ([]models.Message, error)
	AppendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
}

type conversationService struct {
	convos pgrepo.ConversationRepository
	users  pgrepo.UserRepository

	group singleflight.Group // keyed by pair key
}

func NewConversationService(convos pgrepo.ConversationRepository, users pgrepo.UserRepository) ConversationService {
	return &conversationService{convos: convos, users: users}
}

type conversationResult struct {
	conv    *models.Conversation
	created bool
}

func (s *conversationService) GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, bool, error) {
	const op = "ConversationService.GetOrCreate"

	if userA == "" || userB == "" {
		return nil, false, utils.E(utils.CodeInvalidArgument, op, "both user ids are required", nil)
	}
	if userA == userB {
		return nil, false, utils.E(utils.CodeInvalidArgument, op, "cannot start a conversation with yourself", nil)
	}

	key := models.PairKey(userA, userB)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.getOrCreate(ctx, key, userA, userB)
	})
	if err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) {
			return nil, false, err
		}
		return nil, false, utils.E(utils.CodeInternal, op, "failed to get or create conversation", err)
	}
	res := v.(*conversationResult)
	return res.conv, res.created, nil
}

func (s *conversationService) getOrCreate(ctx context.Context, pairKey, userA, userB string) (*conversationResult, error) {
	const op = "ConversationService.GetOrCreate"

	existing, err := s.convos.FindByPairKey(ctx, pairKey)
	if err == nil {
		return &conversationResult{conv: existing}, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	a, err := s.users.GetByID(ctx, userA)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, err
	}
	b, err := s.users.GetByID(ctx, userB)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, err
	}

	conv := &models.Conversation{
		ID:          uuid.NewString(),
		PairKey:     pairKey,
		CreatedDate: time.Now().UTC(),
	}
	if err := s.convos.CreateWithParticipants(ctx, conv, a, b); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			existing, rerr := s.convos.FindByPairKey(ctx, pairKey)
			if rerr != nil {
				return nil, rerr
			}
			return &conversationResult{conv: existing}, nil
		}
		return nil, err
	}
	conv.Users = []models.User{*a, *b}
	return &conversationResult{conv: conv, created: true}, nil
}

func (s *conversationService) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	const op = "ConversationService.ListForUser"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, err := s.convos.ListForUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}
	return rows, nil
}

func (s *conversationService) History(ctx context.Context, userID, conversationID string, limit int) ([]models.Message, error) {
	const op = "ConversationService.History"

	if userID == "" || conversationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and conversation_id are required", nil)
	}

	ok, err := s.convos.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check participation", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeForbidden, op, "you are not a participant of this conversation", nil)
	}

	rows, err := s.convos.ListMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list messages", err)
	}
	return rows, nil
}

func (s *conversationService) AppendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	const op = "ConversationService.AppendMessage"

	if conversationID == "" || senderID == "" || content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "conversation_id, sender_id, and content are required", nil)
	}

	ok, err := s.convos.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check participation", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeForbidden, op, "sender is not a participant of this conversation", nil)
	}

	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.convos.InsertMessage(ctx, msg); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist message", err)
	}
	return msg, nil
}

func (s *conversationService) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	return s.convos.IsParticipant(ctx, conversationID, userID)
}

func (s *conversationService) ParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	return s.convos.ParticipantIDs(ctx, conversationID)
}
