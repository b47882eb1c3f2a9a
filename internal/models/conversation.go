package models

import "time"

// Conversation is a chat thread between exactly two users. PairKey is the
// sorted participant ids joined with ":"; its unique index guarantees at
// most one conversation per unordered pair.
type Conversation struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PairKey     string    `gorm:"column:pair_key;type:text;uniqueIndex" json:"-"`
	CreatedDate time.Time `gorm:"column:created_date;type:timestamptz" json:"created_date"`

	Users []User `gorm:"many2many:conversation_users;" json:"users,omitempty"`
}

func (Conversation) TableName() string { return "conversations" }

// PairKey normalizes an unordered user pair into the conversation key.
func PairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

type Message struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;type:uuid;index" json:"conversation_id"`
	SenderID       string    `gorm:"column:sender_id;type:uuid;index" json:"sender_id"`
	Content        string    `gorm:"column:content;type:text" json:"content"`
	Timestamp      time.Time `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
	IsRead         bool      `gorm:"column:is_read;default:false" json:"is_read"`
}

func (Message) TableName() string { return "messages" }
