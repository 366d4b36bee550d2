// Package entities contains domain entities for invite-link tracking
package entities

import (
	"fmt"
	"time"
)

// ChatType distinguishes basic groups from channels/supergroups
type ChatType string

const (
	ChatTypeGroup   ChatType = "group"
	ChatTypeChannel ChatType = "channel"
)

// Session represents a persisted user authorization record
type Session struct {
	UserID      int64     `gorm:"primaryKey" json:"userId"`
	Phone       string    `gorm:"size:20" json:"phone"`
	SessionFile string    `gorm:"size:255" json:"sessionFile"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName overrides the gorm table name
func (Session) TableName() string { return "sessions" }

// InviteLink represents a tracked invite link for a private chat.
// AccessHash and ChatType are captured at creation time because channel
// peers cannot be addressed later without them.
type InviteLink struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"uniqueIndex:idx_user_chat_link;index" json:"userId"`
	ChatID     int64     `gorm:"uniqueIndex:idx_user_chat_link" json:"chatId"`
	AccessHash int64     `json:"-"`
	ChatType   ChatType  `gorm:"size:16" json:"chatType"`
	ChatTitle  string    `gorm:"size:255" json:"chatTitle"`
	InviteLink string    `gorm:"uniqueIndex:idx_user_chat_link;size:255" json:"inviteLink"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName overrides the gorm table name
func (InviteLink) TableName() string { return "invite_links" }

// Peer returns the platform peer reference for this link's chat
func (l *InviteLink) Peer() PeerRef {
	return PeerRef{ChatID: l.ChatID, AccessHash: l.AccessHash, Type: l.ChatType}
}

// DisplayTitle returns the chat title with a stable fallback
func (l *InviteLink) DisplayTitle() string {
	if l.ChatTitle != "" {
		return l.ChatTitle
	}
	return fmt.Sprintf("id:%d", l.ChatID)
}

// JoinRecord represents one account that joined through a tracked link
type JoinRecord struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"index" json:"userId"`
	ChatID         int64     `json:"chatId"`
	InviteLinkID   int64     `gorm:"index" json:"inviteLinkId"`
	JoinedUserID   int64     `json:"joinedUserId"`
	JoinedUsername string    `gorm:"size:255" json:"joinedUsername"`
	JoinedAt       time.Time `gorm:"index" json:"joinedAt"`
}

// TableName overrides the gorm table name
func (JoinRecord) TableName() string { return "joins" }

// PeerRef is a platform-addressable chat reference
type PeerRef struct {
	ChatID     int64
	AccessHash int64
	Type       ChatType
}

// DialogInfo describes one eligible chat from the user's dialog list
type DialogInfo struct {
	Peer  PeerRef
	Title string
}

// Importer is one account the platform reports as having joined via a link
type Importer struct {
	UserID      int64
	DisplayName string
	JoinedAt    time.Time
}

// TelegramUser carries the profile fields needed for name derivation
type TelegramUser struct {
	ID        int64
	Title     string
	FirstName string
	LastName  string
	Username  string
}

// DisplayName derives a human-readable name: title, else first+last,
// else @username, else a stable id label.
func (u TelegramUser) DisplayName() string {
	if u.Title != "" {
		return u.Title
	}
	if u.FirstName != "" || u.LastName != "" {
		name := u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return fmt.Sprintf("id:%d", u.ID)
}
