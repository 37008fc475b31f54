package services

import (
	"errors"
	"time"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EnergyService is the only writer of a pet's energy. Both mutations are
// single conditional UPDATEs so that concurrent requests on the same token
// can never drive energy outside [0, 100].
type EnergyService struct {
	DB *gorm.DB
}

func NewEnergyService(db *gorm.DB) *EnergyService {
	return &EnergyService{DB: db}
}

type SpendResult struct {
	TokenID        string `json:"tokenId"`
	PreviousEnergy int    `json:"previousEnergy"`
	NewEnergy      int    `json:"newEnergy"`
	EnergyCost     int    `json:"energyCost"`
}

type RestoreResult struct {
	TokenID        string `json:"tokenId"`
	PreviousEnergy int    `json:"previousEnergy"`
	NewEnergy      int    `json:"newEnergy"`
}

// SpendEnergy decrements energy by cost if and only if the pet still has at
// least that much. The precondition lives in the WHERE clause; two racing
// spends can never both succeed past the remaining balance.
func (s *EnergyService) SpendEnergy(tokenID string, cost int) (*SpendResult, error) {
	return s.spend(s.DB, tokenID, cost)
}

func (s *EnergyService) spend(db *gorm.DB, tokenID string, cost int) (*SpendResult, error) {
	if cost <= 0 {
		return nil, apperrors.Validation("energyCost is required and must be positive")
	}

	res := db.Model(&models.Pet{}).
		Where("token_id = ? AND energy >= ?", tokenID, cost).
		Updates(map[string]interface{}{
			"energy":     gorm.Expr("energy - ?", cost),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Either the pet does not exist or it ran out of energy. Re-read to
		// tell the two apart for the caller.
		var pet models.Pet
		err := db.Where("token_id = ?", tokenID).First(&pet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("NFT not found")
		}
		if err != nil {
			return nil, err
		}
		return nil, apperrors.InsufficientEnergy(pet.Energy, cost)
	}

	var pet models.Pet
	if err := db.Where("token_id = ?", tokenID).First(&pet).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"token_id":    tokenID,
		"energy_cost": cost,
		"new_energy":  pet.Energy,
	}).Info("energy spent")

	return &SpendResult{
		TokenID:        tokenID,
		PreviousEnergy: pet.Energy + cost,
		NewEnergy:      pet.Energy,
		EnergyCost:     cost,
	}, nil
}

// RestoreEnergy adds amount to a pet's energy, clamped at the cap. Used by
// the feeding workflow; callers pass the transaction handle so the restore
// commits or rolls back with the matching food debit.
func (s *EnergyService) RestoreEnergy(tokenID string, amount int) (*RestoreResult, error) {
	return s.restore(s.DB, tokenID, amount)
}

func (s *EnergyService) restore(db *gorm.DB, tokenID string, amount int) (*RestoreResult, error) {
	if amount <= 0 {
		return nil, apperrors.Validation("restore amount must be positive")
	}

	var before models.Pet
	err := db.Where("token_id = ?", tokenID).First(&before).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("NFT not found")
	}
	if err != nil {
		return nil, err
	}

	// CASE keeps the clamp inside the statement and works on both postgres
	// and the sqlite test databases.
	res := db.Model(&models.Pet{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"energy": gorm.Expr(
				"CASE WHEN energy + ? > ? THEN ? ELSE energy + ? END",
				amount, models.MaxEnergy, models.MaxEnergy, amount,
			),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	newEnergy := before.Energy + amount
	if newEnergy > models.MaxEnergy {
		newEnergy = models.MaxEnergy
	}

	return &RestoreResult{
		TokenID:        tokenID,
		PreviousEnergy: before.Energy,
		NewEnergy:      newEnergy,
	}, nil
}
