package models

import "time"

// Wallet caches whether an address was last seen holding a pet NFT.
// It is a client-refreshed signal, not authoritative ownership data.
type Wallet struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"walletAddress"`
	HasNFT        bool      `gorm:"not null;default:false" json:"hasNFT"`
	LastChecked   time.Time `json:"lastChecked"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Wallet) TableName() string {
	return "wallets"
}
