package models

import "time"

// Conversation, ChatMessage and Preference are declared and migrated for
// schema compatibility with earlier deployments. No surviving request path
// writes to them; chat requests are served statelessly.

type Conversation struct {
	ID        uint      `json:"conversation_id" gorm:"primaryKey;column:conversation_id"`
	Title     string    `json:"title"`
	UserID    uint      `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ChatMessage struct {
	ID             uint      `json:"message_id" gorm:"primaryKey;column:message_id"`
	ConversationID uint      `json:"conversation_id" gorm:"index"`
	MessageText    string    `json:"message_text" gorm:"type:text;not null"`
	IsBotMessage   bool      `json:"is_bot_message" gorm:"default:false"`
	SentAt         time.Time `json:"sent_at" gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "messages"
}

type Preference struct {
	ID       uint   `json:"preference_id" gorm:"primaryKey;column:preference_id"`
	UserID   uint   `json:"user_id" gorm:"index"`
	Language string `json:"language" gorm:"default:'en'"`
	Theme    string `json:"theme" gorm:"default:'light'"`
}

func (Preference) TableName() string {
	return "preferences"
}
