package services

import (
	"errors"
	"strings"
	"time"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	"gorm.io/gorm"
)

// WalletService maintains the ownership cache the client refreshes after
// checking the chain.
type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// Sync upserts the wallet's last-known ownership state.
func (s *WalletService) Sync(walletAddress string, hasNFT bool, lastChecked time.Time) (*models.Wallet, error) {
	if walletAddress == "" {
		return nil, apperrors.Validation("walletAddress is required")
	}
	if lastChecked.IsZero() {
		lastChecked = time.Now()
	}

	addr := strings.ToLower(walletAddress)
	if err := upsertWallet(s.DB, addr, hasNFT, lastChecked); err != nil {
		return nil, err
	}

	var wallet models.Wallet
	if err := s.DB.Where("wallet_address = ?", addr).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Get returns the cached wallet state, or nil when the wallet was never seen.
func (s *WalletService) Get(walletAddress string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.Where("wallet_address = ?", strings.ToLower(walletAddress)).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Stale returns wallets whose ownership flag has not been checked since the
// cutoff, oldest first.
func (s *WalletService) Stale(olderThan time.Time, limit int) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := s.DB.
		Where("last_checked < ?", olderThan).
		Order("last_checked ASC").
		Limit(limit).
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

func upsertWallet(db *gorm.DB, addr string, hasNFT bool, lastChecked time.Time) error {
	res := db.Model(&models.Wallet{}).
		Where("wallet_address = ?", addr).
		Updates(map[string]interface{}{
			"has_nft":      hasNFT,
			"last_checked": lastChecked,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return db.Create(&models.Wallet{
		WalletAddress: addr,
		HasNFT:        hasNFT,
		LastChecked:   lastChecked,
	}).Error
}
