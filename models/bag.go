package models

import "time"

// Food types accepted by the feed and shop endpoints.
const (
	FoodBurger = 1 // restores 50 energy
	FoodAyam   = 2 // grilled chicken, restores 100 energy
)

// FoodRestoreAmount maps a food type to the energy it restores.
var FoodRestoreAmount = map[int]int{
	FoodBurger: 50,
	FoodAyam:   100,
}

// FoodPrice is the legacy off-chain price in FROTH, kept for the
// deprecated buy-food endpoint.
var FoodPrice = map[int]int{
	FoodBurger: 2,
	FoodAyam:   3,
}

// FoodName returns the display name for a food type.
func FoodName(foodType int) string {
	if foodType == FoodBurger {
		return "Burger"
	}
	return "Grilled Chicken"
}

// FoodColumn returns the bag column a food type is stored in.
func FoodColumn(foodType int) string {
	if foodType == FoodBurger {
		return "burger"
	}
	return "ayam"
}

// ValidFoodType reports whether foodType is a known food.
func ValidFoodType(foodType int) bool {
	return foodType == FoodBurger || foodType == FoodAyam
}

// Bag is a wallet's consumable food inventory. Counts never go negative;
// debits are guarded by a conditional update.
type Bag struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"walletAddress"`
	Burger        int       `gorm:"not null;default:0" json:"burger"`
	Ayam          int       `gorm:"not null;default:0" json:"ayam"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Bag) TableName() string {
	return "bags"
}

// Count returns the stored quantity for a food type.
func (b *Bag) Count(foodType int) int {
	if foodType == FoodBurger {
		return b.Burger
	}
	return b.Ayam
}
