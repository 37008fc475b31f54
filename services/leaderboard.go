package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/enyekk7/froth-pet/apperrors"
	"github.com/enyekk7/froth-pet/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LeaderboardService keeps one best-score entry per (wallet, game). Writes
// are a monotonic max merge; a lower score never replaces a higher one.
type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

type SubmitInput struct {
	WalletAddress string `json:"walletAddress"`
	GameID        string `json:"gameId"`
	Score         int    `json:"score"`
	PetName       string `json:"petName"`
	PetTokenID    string `json:"petTokenId"`
}

type SubmitResult struct {
	Entry        *models.LeaderboardEntry `json:"data"`
	IsNewBest    bool                     `json:"isNewBest"`
	PreviousBest *int                     `json:"previousBest"`
}

// NormalizeGameID slugs free-form game names so "Froth Run" and "froth-run"
// share one leaderboard.
func NormalizeGameID(gameID string) string {
	return slug.Make(gameID)
}

// SubmitScore records a score if it beats the wallet's stored best for the
// game. First submissions always insert; later ones only overwrite when the
// new score is strictly higher.
func (s *LeaderboardService) SubmitScore(in SubmitInput) (*SubmitResult, error) {
	if in.WalletAddress == "" || in.GameID == "" {
		return nil, apperrors.Validation("walletAddress, gameId, and score are required")
	}

	addr := strings.ToLower(in.WalletAddress)
	gameID := NormalizeGameID(in.GameID)
	score := in.Score
	if score < 0 {
		score = 0
	}

	var result SubmitResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.LeaderboardEntry
		err := tx.Where("wallet_address = ? AND game_id = ?", addr, gameID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry := models.LeaderboardEntry{
				WalletAddress: addr,
				GameID:        gameID,
				Score:         score,
				PetName:       in.PetName,
				PetTokenID:    in.PetTokenID,
				PlayedAt:      time.Now(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			result = SubmitResult{Entry: &entry, IsNewBest: true}
			return nil
		}
		if err != nil {
			return err
		}

		if score <= existing.Score {
			result = SubmitResult{Entry: &existing, IsNewBest: false}
			return nil
		}

		// The score precondition is re-checked in the WHERE clause so a
		// racing submission cannot overwrite a higher score committed
		// between our read and this write.
		res := tx.Model(&models.LeaderboardEntry{}).
			Where("wallet_address = ? AND game_id = ? AND score < ?", addr, gameID, score).
			Updates(map[string]interface{}{
				"score":        score,
				"pet_name":     in.PetName,
				"pet_token_id": in.PetTokenID,
				"played_at":    time.Now(),
				"updated_at":   time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to a higher score; report the stored entry.
			if err := tx.Where("wallet_address = ? AND game_id = ?", addr, gameID).First(&existing).Error; err != nil {
				return err
			}
			result = SubmitResult{Entry: &existing, IsNewBest: false}
			return nil
		}

		var updated models.LeaderboardEntry
		if err := tx.Where("wallet_address = ? AND game_id = ?", addr, gameID).First(&updated).Error; err != nil {
			return err
		}
		previous := existing.Score
		result = SubmitResult{Entry: &updated, IsNewBest: true, PreviousBest: &previous}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.IsNewBest {
		log.WithFields(log.Fields{
			"wallet":  addr,
			"game_id": gameID,
			"score":   score,
		}).Info("new personal best")
	}
	return &result, nil
}

// GetTopScores returns at most limit entries for a game, one per wallet,
// sorted by score descending. The store may still hold duplicate rows per
// wallet from before the unique index existed, so the read over-fetches and
// collapses duplicates keeping the highest score. The over-fetch is a
// heuristic: with more than limit duplicates a top entry could still be
// crowded out, which the periodic sweep cleans up.
func (s *LeaderboardService) GetTopScores(gameID string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []models.LeaderboardEntry
	err := s.DB.Where("game_id = ?", NormalizeGameID(gameID)).
		Order("score DESC").
		Limit(limit * 2).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	best := make(map[string]models.LeaderboardEntry)
	for _, row := range rows {
		addr := strings.ToLower(row.WalletAddress)
		if cur, ok := best[addr]; !ok || row.Score > cur.Score {
			best[addr] = row
		}
	}

	out := make([]models.LeaderboardEntry, 0, len(best))
	for _, entry := range best {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetBestScore returns the wallet's entry for a game, or nil if it never
// submitted a score.
func (s *LeaderboardService) GetBestScore(gameID, walletAddress string) (*models.LeaderboardEntry, error) {
	var entry models.LeaderboardEntry
	err := s.DB.Where("game_id = ? AND wallet_address = ?",
		NormalizeGameID(gameID), strings.ToLower(walletAddress)).
		Order("score DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// StartDedupScheduler runs the legacy-duplicate sweep on an interval. Rows
// written before the unique (wallet, game) index existed can still shadow
// the read path's over-fetch window; the sweep deletes everything but the
// best row per pair.
func (s *LeaderboardService) StartDedupScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			removed, err := s.SweepDuplicates()
			if err != nil {
				log.WithError(err).Error("leaderboard duplicate sweep failed")
				return
			}
			if removed > 0 {
				log.WithField("removed", removed).Info("leaderboard duplicates collapsed")
			}
		}),
	)
}

// SweepDuplicates deletes all but the highest-score row per (wallet, game).
func (s *LeaderboardService) SweepDuplicates() (int64, error) {
	var rows []models.LeaderboardEntry
	if err := s.DB.Order("score DESC, id ASC").Find(&rows).Error; err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	var drop []uint
	for _, row := range rows {
		key := strings.ToLower(row.WalletAddress) + "|" + row.GameID
		if seen[key] {
			drop = append(drop, row.ID)
			continue
		}
		seen[key] = true
	}
	if len(drop) == 0 {
		return 0, nil
	}

	res := s.DB.Where("id IN ?", drop).Delete(&models.LeaderboardEntry{})
	return res.RowsAffected, res.Error
}
