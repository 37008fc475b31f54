package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PetService maintains the off-chain pet records and the wallet ownership
// cache. Energy is deliberately absent from the update path here; it is
// only written through EnergyService.
type PetService struct {
	DB *gorm.DB
}

func NewPetService(db *gorm.DB) *PetService {
	return &PetService{DB: db}
}

// SaveInput is the mint-reconciliation payload.
type SaveInput struct {
	TokenID     string `json:"tokenId"`
	Owner       string `json:"owner"`
	Tier        string `json:"tier"`
	ImageURI    string `json:"imageURI"`
	MetadataURI string `json:"metadataURI"`
	Level       int    `json:"level"`
	Energy      *int   `json:"energy"`
	Name        string `json:"name"`
}

// Save upserts a pet record keyed by tokenId and marks the owner wallet as
// holding an NFT. Called after a successful mint or a chain re-sync.
func (s *PetService) Save(in SaveInput) (*models.Pet, error) {
	if in.TokenID == "" || in.Owner == "" {
		return nil, apperrors.Validation("tokenId and owner are required")
	}

	owner := strings.ToLower(in.Owner)
	tier := strings.ToLower(in.Tier)
	if tier == "" {
		tier = models.TierCommon
	}
	level := in.Level
	if level < 1 {
		level = 1
	}
	name := in.Name
	if name == "" {
		name = fmt.Sprintf("Pet #%s", in.TokenID)
	}

	var pet models.Pet
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("token_id = ?", in.TokenID).First(&pet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pet = models.Pet{
				TokenID:     in.TokenID,
				Owner:       owner,
				Tier:        tier,
				Level:       level,
				Energy:      models.MaxEnergy,
				Name:        name,
				ImageURI:    in.ImageURI,
				MetadataURI: in.MetadataURI,
			}
			if in.Energy != nil {
				pet.Energy = clampEnergy(*in.Energy)
			}
			if err := tx.Create(&pet).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			// Existing record: refresh chain-mirrored fields, keep energy.
			pet.Owner = owner
			pet.Tier = tier
			pet.Level = level
			pet.Name = name
			pet.ImageURI = in.ImageURI
			pet.MetadataURI = in.MetadataURI
			if err := tx.Save(&pet).Error; err != nil {
				return err
			}
		}

		return upsertWallet(tx, owner, true, time.Now())
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"token_id": pet.TokenID, "owner": owner}).Info("pet saved")
	return &pet, nil
}

// GetByTokenID returns a single pet record.
func (s *PetService) GetByTokenID(tokenID string) (*models.Pet, error) {
	var pet models.Pet
	err := s.DB.Where("token_id = ?", tokenID).First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("NFT not found")
	}
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

// GetByOwner returns all pets recorded for a wallet, newest first.
func (s *PetService) GetByOwner(owner string) ([]models.Pet, error) {
	var pets []models.Pet
	err := s.DB.Where("owner = ?", strings.ToLower(owner)).
		Order("created_at DESC").
		Find(&pets).Error
	return pets, err
}

// UpdateInput carries the patchable descriptive fields. Energy is excluded;
// clients cannot set it directly.
type UpdateInput struct {
	Name        *string `json:"name"`
	Level       *int    `json:"level"`
	Tier        *string `json:"tier"`
	ImageURI    *string `json:"imageURI"`
	MetadataURI *string `json:"metadataURI"`
}

// Update patches chain-mirrored fields on an existing pet.
func (s *PetService) Update(tokenID string, in UpdateInput) (*models.Pet, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Level != nil {
		updates["level"] = *in.Level
	}
	if in.Tier != nil {
		updates["tier"] = strings.ToLower(*in.Tier)
	}
	if in.ImageURI != nil {
		updates["image_uri"] = *in.ImageURI
	}
	if in.MetadataURI != nil {
		updates["metadata_uri"] = *in.MetadataURI
	}

	res := s.DB.Model(&models.Pet{}).Where("token_id = ?", tokenID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("NFT not found")
	}
	return s.GetByTokenID(tokenID)
}

// Delete removes a pet record, used when the token is transferred or sold.
// The record reappears under the new owner on the next save.
func (s *PetService) Delete(tokenID string) error {
	res := s.DB.Where("token_id = ?", tokenID).Delete(&models.Pet{})
	if res.Error != nil {
		return res.Error
	}
	log.WithFields(log.Fields{"token_id": tokenID, "deleted": res.RowsAffected}).Info("pet deleted")
	return nil
}

func clampEnergy(energy int) int {
	if energy < 0 {
		return 0
	}
	if energy > models.MaxEnergy {
		return models.MaxEnergy
	}
	return energy
}
