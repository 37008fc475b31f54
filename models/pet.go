package models

import "time"

// Pet tiers as minted on-chain. Tier never changes off-chain.
const (
	TierCommon    = "common"
	TierUncommon  = "uncommon"
	TierEpic      = "epic"
	TierLegendary = "legendary"
)

const (
	// MaxEnergy is the energy cap; feeding never pushes energy past it.
	MaxEnergy = 100

	// MaxTokenID guards against corrupt or placeholder token ids
	// (timestamps etc.) leaking in from old client builds.
	MaxTokenID = 1_000_000
)

// Pet is the off-chain record of a minted pet NFT. Ownership, tier, level,
// name and image mirror the chain; energy is authoritative here and is only
// ever written through the energy service.
type Pet struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	TokenID     string    `gorm:"uniqueIndex;not null" json:"tokenId"`
	Owner       string    `gorm:"index;not null" json:"owner"` // lowercase wallet address
	Tier        string    `gorm:"type:varchar(16);default:'common'" json:"tier"`
	Level       int       `gorm:"default:1" json:"level"`
	Energy      int       `gorm:"not null;default:100" json:"energy"`
	Name        string    `json:"name"`
	ImageURI    string    `json:"imageURI"`
	MetadataURI string    `json:"metadataURI"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Pet) TableName() string {
	return "nfts"
}
