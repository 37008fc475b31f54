package models

import "time"

// ChatMessage is a global chat post. Token gating happens at the client;
// the backend only validates the wallet address format.
type ChatMessage struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Sender        string    `gorm:"not null" json:"sender"` // shortened address like "0x1234...5678"
	WalletAddress string    `gorm:"index;not null" json:"walletAddress"`
	Message       string    `gorm:"not null" json:"message"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat"
}
