package models

import "time"

// LeaderboardEntry holds the single best score per (wallet, game).
// Writes go through a monotonic max merge; a lower score never replaces
// a higher one regardless of submission order.
type LeaderboardEntry struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	WalletAddress string    `gorm:"uniqueIndex:idx_wallet_game;not null" json:"walletAddress"`
	GameID        string    `gorm:"uniqueIndex:idx_wallet_game;index:idx_game_score;not null" json:"gameId"`
	Score         int       `gorm:"index:idx_game_score;not null;default:0" json:"score"`
	PetName       string    `json:"petName,omitempty"`
	PetTokenID    string    `json:"petTokenId,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	PlayedAt      time.Time `json:"playedAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard"
}
