package services

import (
	"errors"
	"strings"
	"time"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BagService owns the per-wallet food inventory.
type BagService struct {
	DB *gorm.DB
}

func NewBagService(db *gorm.DB) *BagService {
	return &BagService{DB: db}
}

// GetBag returns the wallet's food counts, zero-valued when no bag exists.
func (s *BagService) GetBag(walletAddress string) (*models.Bag, error) {
	addr := strings.ToLower(walletAddress)

	var bag models.Bag
	err := s.DB.Where("wallet_address = ?", addr).First(&bag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Bag{WalletAddress: addr}, nil
	}
	if err != nil {
		return nil, err
	}
	return &bag, nil
}

// Credit adds quantity units of a food to the wallet's bag, creating the bag
// on first purchase. A non-empty txHash deduplicates retried syncs of the
// same blockchain purchase: the second call sees the unique-index conflict
// and returns without crediting again.
func (s *BagService) Credit(walletAddress string, foodType, quantity int, txHash string) error {
	addr := strings.ToLower(walletAddress)
	if !models.ValidFoodType(foodType) {
		return apperrors.Validation("Invalid foodType. Must be 1 (Burger) or 2 (Grilled Chicken)")
	}
	if quantity <= 0 {
		return apperrors.Validation("Quantity must be positive")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		purchase := models.FoodPurchase{
			ID:            uuid.NewString(),
			WalletAddress: addr,
			FoodType:      foodType,
			Quantity:      quantity,
		}
		if txHash != "" {
			hash := strings.ToLower(txHash)
			purchase.TxHash = &hash

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tx_hash"}},
				DoNothing: true,
			}).Create(&purchase)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				log.WithFields(log.Fields{
					"wallet":  addr,
					"tx_hash": hash,
				}).Info("duplicate bag sync ignored")
				return nil
			}
		} else if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		column := models.FoodColumn(foodType)
		res := tx.Model(&models.Bag{}).
			Where("wallet_address = ?", addr).
			Updates(map[string]interface{}{
				column:       gorm.Expr(column+" + ?", quantity),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		bag := models.Bag{WalletAddress: addr}
		if foodType == models.FoodBurger {
			bag.Burger = quantity
		} else {
			bag.Ayam = quantity
		}
		return tx.Create(&bag).Error
	})
}

// Debit removes quantity units of a food from the wallet's bag. The
// available-count precondition sits in the WHERE clause so concurrent
// debits on the same wallet cannot drive a count negative.
func (s *BagService) Debit(walletAddress string, foodType, quantity int) (*models.Bag, error) {
	return s.debit(s.DB, walletAddress, foodType, quantity)
}

func (s *BagService) debit(db *gorm.DB, walletAddress string, foodType, quantity int) (*models.Bag, error) {
	addr := strings.ToLower(walletAddress)
	if !models.ValidFoodType(foodType) {
		return nil, apperrors.Validation("Invalid foodType. Must be 1 (Burger) or 2 (Grilled Chicken)")
	}
	if quantity <= 0 {
		return nil, apperrors.Validation("Quantity must be positive")
	}

	column := models.FoodColumn(foodType)
	res := db.Model(&models.Bag{}).
		Where("wallet_address = ? AND "+column+" >= ?", addr, quantity).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column+" - ?", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.InsufficientFood(models.FoodName(foodType))
	}

	var bag models.Bag
	if err := db.Where("wallet_address = ?", addr).First(&bag).Error; err != nil {
		return nil, err
	}
	return &bag, nil
}
