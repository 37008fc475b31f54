package services

import (
	"context"
	"errors"
	"testing"

	"github.com/enyekk7/froth-pet/models"

	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	owners map[int64]string
	pets   map[int64]*ChainPetView
	err    error
}

func (f *fakeChain) OwnerOf(_ context.Context, tokenID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	owner, ok := f.owners[tokenID]
	if !ok {
		return "", errors.New("execution reverted: nonexistent token")
	}
	return owner, nil
}

func (f *fakeChain) GetPet(_ context.Context, tokenID int64) (*ChainPetView, error) {
	if f.err != nil {
		return nil, f.err
	}
	pet, ok := f.pets[tokenID]
	if !ok {
		return nil, errors.New("execution reverted: nonexistent token")
	}
	view := *pet
	return &view, nil
}

func TestParseTokenID(t *testing.T) {
	for _, tc := range []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"1", true},
		{"1000000", true},
		{"1000001", false},
		{"-1", false},
		{"1757000000000", false}, // timestamp written by an old client build
		{"abc", false},
		{"", false},
	} {
		_, ok := ParseTokenID(tc.in)
		require.Equal(t, tc.ok, ok, "token id %q", tc.in)
	}
}

func TestMergeEnergyPriority(t *testing.T) {
	dbView := &models.Pet{TokenID: "1", Owner: testWallet, Energy: 37, Tier: models.TierCommon}
	chainView := &ChainPetView{TokenID: "1", Owner: testWallet, Energy: 100, Tier: "epic", Level: 3, Name: "Pet #1"}

	merged := Merge(testWallet, chainView, dbView)
	require.NotNil(t, merged)
	require.Equal(t, 37, merged.Energy, "recorded energy wins over the chain default")
	require.Equal(t, "epic", merged.Tier, "chain-mirrored fields follow the chain")
	require.Equal(t, 3, merged.Level)
}

func TestMergeZeroEnergyStillWins(t *testing.T) {
	dbView := &models.Pet{TokenID: "1", Owner: testWallet, Energy: 0}
	chainView := &ChainPetView{TokenID: "1", Owner: testWallet, Energy: 100}

	merged := Merge(testWallet, chainView, dbView)
	require.NotNil(t, merged)
	require.Equal(t, 0, merged.Energy)
}

func TestMergeChainSeedsNewPet(t *testing.T) {
	chainView := &ChainPetView{TokenID: "7", Owner: testWallet, Energy: 100, Tier: "rare"}

	merged := Merge(testWallet, chainView, nil)
	require.NotNil(t, merged)
	require.Equal(t, 100, merged.Energy)
}

func TestMergeOwnershipMismatchExcludes(t *testing.T) {
	dbView := &models.Pet{TokenID: "1", Owner: testWallet, Energy: 50}
	chainView := &ChainPetView{TokenID: "1", Owner: "0xabc0000000000000000000000000000000000002", Energy: 100}

	require.Nil(t, Merge(testWallet, chainView, dbView))
}

func TestMergeInvalidTokenExcludes(t *testing.T) {
	dbView := &models.Pet{TokenID: "1757000000000", Owner: testWallet, Energy: 50}
	require.Nil(t, Merge(testWallet, nil, dbView))
}

func TestPetsForWallet(t *testing.T) {
	db := setupDB(t)
	pets := NewPetService(db)
	createPet(t, db, "1", testWallet, 37)
	createPet(t, db, "2", testWallet, 80)
	createPet(t, db, "1757000000000", testWallet, 100) // corrupt legacy row

	fake := &fakeChain{
		owners: map[int64]string{
			1: testWallet,
			2: "0xabc0000000000000000000000000000000000002", // sold
		},
		pets: map[int64]*ChainPetView{
			1: {Tier: "legendary", Level: 5, Energy: 100, Name: "Pet #1"},
		},
	}
	svc := NewReconcileService(pets, fake)

	visible, err := svc.PetsForWallet(context.Background(), testWallet)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, "1", visible[0].TokenID)
	require.Equal(t, 37, visible[0].Energy)
	require.Equal(t, "legendary", visible[0].Tier)
}

func TestPetsForWalletChainDown(t *testing.T) {
	db := setupDB(t)
	pets := NewPetService(db)
	createPet(t, db, "1", testWallet, 64)

	svc := NewReconcileService(pets, &fakeChain{err: errors.New("connection refused")})

	// Chain unavailability degrades to the stored view instead of failing.
	visible, err := svc.PetsForWallet(context.Background(), testWallet)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, 64, visible[0].Energy)
}

func TestPetsForWalletNoChainConfigured(t *testing.T) {
	db := setupDB(t)
	pets := NewPetService(db)
	createPet(t, db, "1", testWallet, 12)

	svc := NewReconcileService(pets, nil)
	visible, err := svc.PetsForWallet(context.Background(), testWallet)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, 12, visible[0].Energy)
}
