package services

import (
	"strings"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatService stores the global chat feed. Token-ownership gating happens
// client-side; the backend validates the address format only.
type ChatService struct {
	DB *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db}
}

// Messages returns up to limit messages, oldest first.
func (s *ChatService) Messages(limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var messages []models.ChatMessage
	err := s.DB.Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Newest-first from the index, reversed for display order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Post validates and stores one message.
func (s *ChatService) Post(sender, message, walletAddress string) (*models.ChatMessage, error) {
	if sender == "" || message == "" || walletAddress == "" {
		return nil, apperrors.Validation("sender, message, and walletAddress are required")
	}
	if !ValidWalletAddress(walletAddress) {
		return nil, apperrors.Validation("Invalid wallet address format")
	}

	msg := models.ChatMessage{
		ID:            uuid.NewString(),
		Sender:        sender,
		WalletAddress: strings.ToLower(walletAddress),
		Message:       strings.TrimSpace(message),
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ValidWalletAddress checks the 0x-prefixed 40-hex-digit form.
func ValidWalletAddress(addr string) bool {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return false
	}
	for _, c := range addr[2:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
