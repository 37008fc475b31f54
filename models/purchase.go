package models

import "time"

// FoodPurchase records a bag credit. When the client passes the on-chain
// transaction hash, the unique index makes a retried sync-bag call a no-op
// instead of a double credit. Credits without a hash (legacy buy-food,
// manual re-sync) are accepted as before.
type FoodPurchase struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string     `gorm:"index;not null" json:"walletAddress"`
	FoodType      int        `gorm:"not null" json:"foodType"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	TxHash        *string    `gorm:"uniqueIndex" json:"txHash,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (FoodPurchase) TableName() string {
	return "food_purchases"
}
