package services

import (
	"testing"
	"time"

	"github.com/enyekk7/froth-pet/models"

	"github.com/stretchr/testify/require"
)

const gameFrothRun = "froth-run"

func TestSubmitScoreMonotonic(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	scores := []int{50, 30, 80, 20}
	wantBest := []bool{true, false, true, false}

	for i, score := range scores {
		result, err := svc.SubmitScore(SubmitInput{
			WalletAddress: testWallet,
			GameID:        gameFrothRun,
			Score:         score,
			PetName:       "Pet #1",
			PetTokenID:    "1",
		})
		require.NoError(t, err)
		require.Equal(t, wantBest[i], result.IsNewBest, "submission %d (score %d)", i, score)
	}

	entry, err := svc.GetBestScore(gameFrothRun, testWallet)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, 80, entry.Score)

	// Exactly one row for the pair.
	var count int64
	require.NoError(t, db.Model(&models.LeaderboardEntry{}).
		Where("wallet_address = ? AND game_id = ?", testWallet, gameFrothRun).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSubmitScorePreservesCreatedAt(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	first, err := svc.SubmitScore(SubmitInput{WalletAddress: testWallet, GameID: gameFrothRun, Score: 10})
	require.NoError(t, err)
	created := first.Entry.CreatedAt

	time.Sleep(10 * time.Millisecond)
	second, err := svc.SubmitScore(SubmitInput{WalletAddress: testWallet, GameID: gameFrothRun, Score: 20})
	require.NoError(t, err)
	require.True(t, second.IsNewBest)
	require.NotNil(t, second.PreviousBest)
	require.Equal(t, 10, *second.PreviousBest)
	require.Equal(t, created.Unix(), second.Entry.CreatedAt.Unix())
}

func TestSubmitScoreValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	_, err := svc.SubmitScore(SubmitInput{GameID: gameFrothRun, Score: 10})
	require.Error(t, err)

	_, err = svc.SubmitScore(SubmitInput{WalletAddress: testWallet, Score: 10})
	require.Error(t, err)

	// Negative scores coerce to zero and never beat a positive best.
	_, err = svc.SubmitScore(SubmitInput{WalletAddress: testWallet, GameID: gameFrothRun, Score: 5})
	require.NoError(t, err)
	result, err := svc.SubmitScore(SubmitInput{WalletAddress: testWallet, GameID: gameFrothRun, Score: -3})
	require.NoError(t, err)
	require.False(t, result.IsNewBest)
	require.Equal(t, 5, result.Entry.Score)
}

func TestGetTopScoresDeduplicatesLegacyRows(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	// Legacy rows predate both the unique index and address normalization,
	// so the same wallet can appear twice under different casing.
	require.NoError(t, db.Create(&models.LeaderboardEntry{
		WalletAddress: "0xABC0000000000000000000000000000000000001",
		GameID:        gameFrothRun,
		Score:         40,
		PlayedAt:      time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.LeaderboardEntry{
		WalletAddress: testWallet,
		GameID:        gameFrothRun,
		Score:         90,
		PlayedAt:      time.Now(),
	}).Error)

	top, err := svc.GetTopScores(gameFrothRun, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, 90, top[0].Score)
}

func TestGetTopScoresSortedAndTruncated(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	wallets := []string{
		"0xaaa0000000000000000000000000000000000001",
		"0xaaa0000000000000000000000000000000000002",
		"0xaaa0000000000000000000000000000000000003",
		"0xaaa0000000000000000000000000000000000004",
	}
	scores := []int{70, 150, 20, 95}
	for i, wallet := range wallets {
		_, err := svc.SubmitScore(SubmitInput{WalletAddress: wallet, GameID: gameFrothRun, Score: scores[i]})
		require.NoError(t, err)
	}

	top, err := svc.GetTopScores(gameFrothRun, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Equal(t, 150, top[0].Score)
	require.Equal(t, 95, top[1].Score)
	require.Equal(t, 70, top[2].Score)
}

func TestGetBestScoreMissing(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	entry, err := svc.GetBestScore(gameFrothRun, testWallet)
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestGameIDNormalization(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	_, err := svc.SubmitScore(SubmitInput{WalletAddress: testWallet, GameID: "Froth Run", Score: 42})
	require.NoError(t, err)

	entry, err := svc.GetBestScore("froth-run", testWallet)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, 42, entry.Score)
}

func TestSweepDuplicates(t *testing.T) {
	db := setupDB(t)
	svc := NewLeaderboardService(db)

	require.NoError(t, db.Create(&models.LeaderboardEntry{
		WalletAddress: "0xABC0000000000000000000000000000000000001",
		GameID:        gameFrothRun,
		Score:         40,
		PlayedAt:      time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.LeaderboardEntry{
		WalletAddress: testWallet,
		GameID:        gameFrothRun,
		Score:         90,
		PlayedAt:      time.Now(),
	}).Error)

	removed, err := svc.SweepDuplicates()
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	var rows []models.LeaderboardEntry
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, 90, rows[0].Score)
}
