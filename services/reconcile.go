package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/enyekk7/froth-pet/models"

	log "github.com/sirupsen/logrus"
)

// ChainPetView is the canonical on-chain state of one pet as read from the
// NFT contract.
type ChainPetView struct {
	TokenID  string
	Owner    string
	Tier     string
	Level    int
	Energy   int
	Name     string
	ImageURI string
}

// ChainReader is the contract-read surface the reconciler needs. chain.Client
// implements it; tests substitute a fixture.
type ChainReader interface {
	OwnerOf(ctx context.Context, tokenID int64) (string, error)
	GetPet(ctx context.Context, tokenID int64) (*ChainPetView, error)
}

// ReconcileService merges canonical on-chain fields with the off-chain
// energy ledger. Energy recorded in the database always wins, including a
// recorded zero; chain energy only seeds a pet the database has never seen.
type ReconcileService struct {
	Pets  *PetService
	Chain ChainReader
}

func NewReconcileService(pets *PetService, chain ChainReader) *ReconcileService {
	return &ReconcileService{Pets: pets, Chain: chain}
}

// ParseTokenID validates a token id, rejecting non-numeric, negative, and
// implausibly large values that old client builds wrote as placeholders.
func ParseTokenID(tokenID string) (int64, bool) {
	n, err := strconv.ParseInt(tokenID, 10, 64)
	if err != nil || n < 0 || n > models.MaxTokenID {
		return 0, false
	}
	return n, true
}

// Merge combines one pet's chain view with its database record. A nil return
// means the pet is excluded from the wallet's visible set. Chain-mirrored
// fields come from the chain when a view is available; energy never does
// once a database record exists.
func Merge(expectedWallet string, chainView *ChainPetView, dbView *models.Pet) *models.Pet {
	if dbView == nil && chainView == nil {
		return nil
	}

	wallet := strings.ToLower(expectedWallet)

	if dbView != nil {
		if _, ok := ParseTokenID(dbView.TokenID); !ok {
			return nil
		}
	}

	if chainView == nil {
		// Chain unavailable: degrade to the stored view, still enforcing
		// the ownership boundary against the requesting wallet.
		if dbView == nil || strings.ToLower(dbView.Owner) != wallet {
			return nil
		}
		out := *dbView
		return &out
	}

	// Ownership mismatch is a hard exclusion: the pet was transferred out
	// and must not appear, even partially, under the old owner.
	if strings.ToLower(chainView.Owner) != wallet {
		return nil
	}

	merged := models.Pet{
		TokenID:  chainView.TokenID,
		Owner:    wallet,
		Tier:     strings.ToLower(chainView.Tier),
		Level:    chainView.Level,
		Name:     chainView.Name,
		ImageURI: chainView.ImageURI,
		Energy:   clampEnergy(chainView.Energy),
	}
	if dbView != nil {
		merged.MetadataURI = dbView.MetadataURI
		merged.CreatedAt = dbView.CreatedAt
		merged.UpdatedAt = dbView.UpdatedAt
		merged.Energy = clampEnergy(dbView.Energy)
	}
	return &merged
}

// PetsForWallet returns the wallet's visible pets: database records verified
// and refreshed against the chain. Chain read failures are logged and fall
// back to the stored record rather than failing the request; a token the
// chain reports as owned by someone else, or as nonexistent, is dropped.
func (s *ReconcileService) PetsForWallet(ctx context.Context, walletAddress string) ([]models.Pet, error) {
	addr := strings.ToLower(walletAddress)

	stored, err := s.Pets.GetByOwner(addr)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Pet, 0, len(stored))
	for i := range stored {
		pet := stored[i]

		tokenNum, ok := ParseTokenID(pet.TokenID)
		if !ok {
			log.WithField("token_id", pet.TokenID).Warn("skipping invalid token id")
			continue
		}

		if s.Chain == nil {
			if merged := Merge(addr, nil, &pet); merged != nil {
				visible = append(visible, *merged)
			}
			continue
		}

		owner, err := s.Chain.OwnerOf(ctx, tokenNum)
		if err != nil {
			// Nonexistent token reads error the same way transient RPC
			// faults do, so the two cases cannot be told apart here.
			// Degrade to the stored view rather than hiding the pet.
			log.WithError(err).WithField("token_id", pet.TokenID).Warn("chain owner read failed, using stored view")
			if merged := Merge(addr, nil, &pet); merged != nil {
				visible = append(visible, *merged)
			}
			continue
		}
		if strings.ToLower(owner) != addr {
			log.WithFields(log.Fields{
				"token_id": pet.TokenID,
				"owner":    owner,
			}).Info("pet transferred out, hidden from wallet")
			continue
		}

		view, err := s.Chain.GetPet(ctx, tokenNum)
		if err != nil {
			log.WithError(err).WithField("token_id", pet.TokenID).Warn("chain pet read failed, using stored view")
			if merged := Merge(addr, nil, &pet); merged != nil {
				visible = append(visible, *merged)
			}
			continue
		}
		view.TokenID = pet.TokenID
		view.Owner = owner

		if merged := Merge(addr, view, &pet); merged != nil {
			visible = append(visible, *merged)
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		a, _ := ParseTokenID(visible[i].TokenID)
		b, _ := ParseTokenID(visible[j].TokenID)
		return a < b
	})
	return visible, nil
}
