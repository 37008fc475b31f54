package services

import (
	"errors"
	"strings"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FeedService turns one food item into an energy restoration as a single
// all-or-nothing action. The debit and the restore run in one transaction;
// a food item is never lost without the matching energy gain.
type FeedService struct {
	DB     *gorm.DB
	Energy *EnergyService
	Bags   *BagService
}

func NewFeedService(db *gorm.DB, energy *EnergyService, bags *BagService) *FeedService {
	return &FeedService{DB: db, Energy: energy, Bags: bags}
}

type FeedResult struct {
	TokenID        string `json:"tokenId"`
	PreviousEnergy int    `json:"previousEnergy"`
	NewEnergy      int    `json:"newEnergy"`
	RestoreAmount  int    `json:"restoreAmount"`
	FoodType       string `json:"foodType"`
	RemainingFood  struct {
		Burger int `json:"burger"`
		Ayam   int `json:"ayam"`
	} `json:"remainingFood"`
}

// FeedPet validates ownership and fullness, then debits one unit of the
// selected food and restores its energy amount, capped at 100.
func (s *FeedService) FeedPet(tokenID string, foodType int, walletAddress string) (*FeedResult, error) {
	if !models.ValidFoodType(foodType) {
		return nil, apperrors.Validation("Invalid foodType. Must be 1 (Burger) or 2 (Grilled Chicken)")
	}
	if walletAddress == "" {
		return nil, apperrors.Validation("walletAddress is required")
	}
	addr := strings.ToLower(walletAddress)

	var result FeedResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var pet models.Pet
		err := tx.Where("token_id = ?", tokenID).First(&pet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("NFT not found")
		}
		if err != nil {
			return err
		}

		if strings.ToLower(pet.Owner) != addr {
			return apperrors.Forbidden("Not the owner of this pet")
		}
		if pet.Energy >= models.MaxEnergy {
			return apperrors.EnergyFull()
		}

		bag, err := s.Bags.debit(tx, addr, foodType, 1)
		if err != nil {
			return err
		}

		restore, err := s.Energy.restore(tx, tokenID, models.FoodRestoreAmount[foodType])
		if err != nil {
			return err
		}

		result = FeedResult{
			TokenID:        tokenID,
			PreviousEnergy: restore.PreviousEnergy,
			NewEnergy:      restore.NewEnergy,
			RestoreAmount:  models.FoodRestoreAmount[foodType],
			FoodType:       models.FoodName(foodType),
		}
		result.RemainingFood.Burger = bag.Burger
		result.RemainingFood.Ayam = bag.Ayam
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"token_id":   tokenID,
		"wallet":     addr,
		"food_type":  result.FoodType,
		"new_energy": result.NewEnergy,
	}).Info("pet fed")

	return &result, nil
}
