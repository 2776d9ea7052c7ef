package model

import "time"

// Relation types a chat room can be attached to.
const (
	ChatRelationProject = "project"
)

// Chat message types; a request message carries the accept/decline state.
const (
	ChatMessageTypeText    = 1
	ChatMessageTypeRequest = 2
)

// ChatUserRoom success states.
const (
	ChatRoomNotSucceeded = 1
	ChatRoomSucceeded    = 2
)

// ChatRoom is polymorphically attached to its relation through an explicit
// (relation_type, relation_id) pair.
type ChatRoom struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time      `json:"created_at"`
	RelationType string         `json:"relation_type" gorm:"index:idx_chat_room_relation;not null"`
	RelationID   uint           `json:"relation_id" gorm:"index:idx_chat_room_relation;not null"`
	UserRooms    []ChatUserRoom `json:"user_rooms" gorm:"foreignKey:RoomID"`
	Messages     []ChatMessage  `json:"messages" gorm:"foreignKey:RoomID"`
}

func (ChatRoom) TableName() string {
	return "chat_room"
}

// ChatUserRoom is a membership row: which user sits in the room and under
// which persona.
type ChatUserRoom struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	RoomID      uint `json:"room_id" gorm:"index;not null"`
	UserID      uint `json:"user_id" gorm:"index;not null"`
	RoleID      uint `json:"role_id"`
	IsSucceeded int  `json:"is_succeeded"`
}

func (ChatUserRoom) TableName() string {
	return "chat_user_room"
}

type ChatMessage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at"`
	RoomID     uint      `json:"room_id" gorm:"index;not null"`
	UserID     uint      `json:"user_id"`
	TypeID     int       `json:"type_id"`
	IsAccepted int       `json:"is_accepted"`
	Body       string    `json:"body" gorm:"type:text"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}
