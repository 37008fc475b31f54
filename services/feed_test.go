package services

import (
	"testing"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	"github.com/stretchr/testify/require"
)

func TestFeedPetBurger(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	createPet(t, db, "1", testWallet, 40)
	createBag(t, db, testWallet, 2, 0)

	result, err := svc.FeedPet("1", models.FoodBurger, testWallet)
	require.NoError(t, err)
	require.Equal(t, 40, result.PreviousEnergy)
	require.Equal(t, 90, result.NewEnergy)
	require.Equal(t, 50, result.RestoreAmount)
	require.Equal(t, "Burger", result.FoodType)
	require.Equal(t, 1, result.RemainingFood.Burger)
	require.Equal(t, 0, result.RemainingFood.Ayam)
}

func TestFeedPetCapsAtMax(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	createPet(t, db, "1", testWallet, 80)
	createBag(t, db, testWallet, 0, 1)

	result, err := svc.FeedPet("1", models.FoodAyam, testWallet)
	require.NoError(t, err)
	require.Equal(t, models.MaxEnergy, result.NewEnergy)
	require.Equal(t, "Grilled Chicken", result.FoodType)
	require.Equal(t, 0, result.RemainingFood.Ayam)
}

func TestFeedPetOwnershipGate(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	otherWallet := "0xabc0000000000000000000000000000000000002"
	createPet(t, db, "1", testWallet, 40)
	createBag(t, db, otherWallet, 5, 5)

	_, err := svc.FeedPet("1", models.FoodBurger, otherWallet)
	require.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	// Nothing changed for either party.
	var bag models.Bag
	require.NoError(t, db.Where("wallet_address = ?", otherWallet).First(&bag).Error)
	require.Equal(t, 5, bag.Burger)
	var pet models.Pet
	require.NoError(t, db.Where("token_id = ?", "1").First(&pet).Error)
	require.Equal(t, 40, pet.Energy)
}

func TestFeedPetOwnershipCaseInsensitive(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	createPet(t, db, "1", testWallet, 40)
	createBag(t, db, testWallet, 1, 0)

	upper := "0xABC0000000000000000000000000000000000001"
	result, err := svc.FeedPet("1", models.FoodBurger, upper)
	require.NoError(t, err)
	require.Equal(t, 90, result.NewEnergy)
}

func TestFeedPetAlreadyFull(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	createPet(t, db, "1", testWallet, models.MaxEnergy)
	createBag(t, db, testWallet, 3, 0)

	_, err := svc.FeedPet("1", models.FoodBurger, testWallet)
	require.True(t, apperrors.Is(err, apperrors.CodeEnergyFull))

	// Inventory untouched.
	var bag models.Bag
	require.NoError(t, db.Where("wallet_address = ?", testWallet).First(&bag).Error)
	require.Equal(t, 3, bag.Burger)
}

func TestFeedPetInsufficientFood(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	createPet(t, db, "1", testWallet, 40)
	createBag(t, db, testWallet, 0, 0)

	_, err := svc.FeedPet("1", models.FoodBurger, testWallet)
	require.True(t, apperrors.Is(err, apperrors.CodeInsufficientFood))

	// Energy unchanged: the failed debit rolled the whole action back.
	var pet models.Pet
	require.NoError(t, db.Where("token_id = ?", "1").First(&pet).Error)
	require.Equal(t, 40, pet.Energy)
}

func TestFeedPetUnknownPetLeavesBagIntact(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	createBag(t, db, testWallet, 2, 2)

	_, err := svc.FeedPet("404", models.FoodBurger, testWallet)
	require.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	var bag models.Bag
	require.NoError(t, db.Where("wallet_address = ?", testWallet).First(&bag).Error)
	require.Equal(t, 2, bag.Burger)
	require.Equal(t, 2, bag.Ayam)
}

func TestFeedPetValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewFeedService(db, NewEnergyService(db), NewBagService(db))
	createPet(t, db, "1", testWallet, 40)

	_, err := svc.FeedPet("1", 3, testWallet)
	require.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = svc.FeedPet("1", models.FoodBurger, "")
	require.True(t, apperrors.Is(err, apperrors.CodeValidation))
}
