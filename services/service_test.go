package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/enyekk7/froth-pet/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDB opens a per-test in-memory database to avoid cross-test
// interference. A single connection keeps sqlite from returning busy errors
// under the concurrency tests.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Pet{},
		&models.Wallet{},
		&models.Bag{},
		&models.LeaderboardEntry{},
		&models.FoodPurchase{},
		&models.ChatMessage{},
	))
	return db
}

func createPet(t *testing.T, db *gorm.DB, tokenID, owner string, energy int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Pet{
		TokenID: tokenID,
		Owner:   strings.ToLower(owner),
		Tier:    models.TierCommon,
		Level:   1,
		Energy:  energy,
		Name:    "Pet #" + tokenID,
	}).Error)
}

func createBag(t *testing.T, db *gorm.DB, wallet string, burger, ayam int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Bag{
		WalletAddress: strings.ToLower(wallet),
		Burger:        burger,
		Ayam:          ayam,
	}).Error)
}
