package chat

import (
	"context"
	"sync"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"

	"github.com/sirupsen/logrus"
)

// Registry is the conversation-registry surface the broker needs: it
// authorizes room membership and durably persists every message.
type Registry interface {
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
	AppendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error)
}

// Notifier is the fan-out surface. From the broker's side it is
// best-effort: failures are logged, never propagated.
type Notifier interface {
	Notify(ctx context.Context, userID, content string) (*models.Notification, error)
}

// Sink is one connected client's outbound channel. Implementations must be
// safe for concurrent writes.
type Sink interface {
	WriteJSON(v any) error
}

// Client is one live connection. A client belongs to zero or one room.
type Client struct {
	UserID   string
	Username string
	Avatar   string

	sink   Sink
	roomID string // guarded by Hub.mu
}

func NewClient(userID, username, avatar string, sink Sink) *Client {
	return &Client{UserID: userID, Username: username, Avatar: avatar, sink: sink}
}

// Event is the broadcast payload delivered to every room member.
type Event struct {
	Sender    string `json:"sender"`
	Avatar    string `json:"avatar"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

const eventTimeFormat = "Jan 2, 3:04 PM"

type room struct {
	mu      sync.Mutex // serializes persist+broadcast within the room
	members map[*Client]struct{}
}

// Hub is the process-wide room broker. The rooms table is a cache of who
// is currently listening; it is rebuilt from live connections and lost on
// restart. Messages are not: every send is persisted before broadcast.
type Hub struct {
	registry Registry
	notifier Notifier
	log      *logrus.Logger

	mu    sync.Mutex
	rooms map[string]*room
}

func NewHub(registry Registry, notifier Notifier, log *logrus.Logger) *Hub {
	return &Hub{
		registry: registry,
		notifier: notifier,
		log:      log,
		rooms:    make(map[string]*room),
	}
}

// Join registers the client as a member of roomID after cross-checking
// that its identity is a participant of the underlying conversation. A
// client already in another room leaves it first.
func (h *Hub) Join(ctx context.Context, c *Client, roomID string) error {
	const op = "Hub.Join"

	if roomID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "room id is required", nil)
	}

	ok, err := h.registry.IsParticipant(ctx, roomID, c.UserID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to check participation", err)
	}
	if !ok {
		return utils.E(utils.CodeForbidden, op, "you are not a participant of this conversation", nil)
	}

	h.Leave(c)

	h.mu.Lock()
	r := h.rooms[roomID]
	if r == nil {
		r = &room{members: make(map[*Client]struct{})}
		h.rooms[roomID] = r
	}
	c.roomID = roomID
	h.mu.Unlock()

	r.mu.Lock()
	r.members[c] = struct{}{}
	r.mu.Unlock()

	return nil
}

// Send persists the message and then broadcasts it to every current member
// of the client's room, including the sender. The room lock is held across
// persist+broadcast so delivery order always matches persistence order. A
// failed persist aborts the send: nothing is broadcast without a durable
// record.
func (h *Hub) Send(ctx context.Context, c *Client, content string) error {
	const op = "Hub.Send"

	h.mu.Lock()
	roomID := c.roomID
	r := h.rooms[roomID]
	h.mu.Unlock()

	if roomID == "" || r == nil {
		return utils.E(utils.CodeConflict, op, "join a room before sending", nil)
	}

	r.mu.Lock()
	if _, ok := r.members[c]; !ok {
		r.mu.Unlock()
		return utils.E(utils.CodeConflict, op, "join a room before sending", nil)
	}

	msg, err := h.registry.AppendMessage(ctx, roomID, c.UserID, content)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	ev := Event{
		Sender:    c.Username,
		Avatar:    c.Avatar,
		Message:   msg.Content,
		Timestamp: msg.Timestamp.Format(eventTimeFormat),
	}
	present := make(map[string]struct{}, len(r.members))
	for m := range r.members {
		present[m.UserID] = struct{}{}
		if werr := m.sink.WriteJSON(ev); werr != nil {
			h.log.WithError(werr).WithField("user_id", m.UserID).Warn("chat: dropped broadcast write")
		}
	}
	r.mu.Unlock()

	h.notifyAbsent(ctx, roomID, c, present)
	return nil
}

// notifyAbsent fans out a notification to conversation participants who are
// not currently connected to the room. Best-effort by contract.
func (h *Hub) notifyAbsent(ctx context.Context, roomID string, sender *Client, present map[string]struct{}) {
	ids, err := h.registry.ParticipantIDs(ctx, roomID)
	if err != nil {
		h.log.WithError(err).WithField("room", roomID).Warn("chat: failed to load participants for fan-out")
		return
	}
	for _, id := range ids {
		if id == sender.UserID {
			continue
		}
		if _, online := present[id]; online {
			continue
		}
		if _, err := h.notifier.Notify(ctx, id, "You have a new message from "+sender.Username+"."); err != nil {
			h.log.WithError(err).WithField("user_id", id).Warn("chat: failed to write message notification")
		}
	}
}

// Leave removes the client from its room. Idempotent.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomID := c.roomID
	if roomID == "" {
		return
	}
	c.roomID = ""

	r := h.rooms[roomID]
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.members, c)
	empty := len(r.members) == 0
	r.mu.Unlock()
	if empty {
		delete(h.rooms, roomID)
	}
}

// Members reports how many clients are currently joined to roomID.
func (h *Hub) Members(roomID string) int {
	h.mu.Lock()
	r := h.rooms[roomID]
	h.mu.Unlock()
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
