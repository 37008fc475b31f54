package workers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/enyekk7/froth-pet/chain"
	"github.com/enyekk7/froth-pet/models"
	"github.com/enyekk7/froth-pet/services"

	log "github.com/sirupsen/logrus"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// maxLogRange stays under common RPC provider limits for eth_getLogs.
const maxLogRange = 2000

// ChainSyncWorker follows Transfer events on the PetNFT contract and keeps
// off-chain pet ownership in step: transfers move the record to the new
// owner, burns delete it. Energy is never touched for a record that already
// exists; only a record recreated after a sale is reseeded from the chain.
type ChainSyncWorker struct {
	Client *chain.Client
	Pets   *services.PetService

	lastBlock uint64
}

func NewChainSyncWorker(client *chain.Client, pets *services.PetService) *ChainSyncWorker {
	return &ChainSyncWorker{Client: client, Pets: pets}
}

// Run polls for new Transfer events until the context is cancelled.
func (w *ChainSyncWorker) Run(ctx context.Context, pollInterval time.Duration) {
	log.WithField("interval", pollInterval).Info("chain sync worker started")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("chain sync worker stopped")
			return
		case <-ticker.C:
			if err := w.syncOnce(ctx); err != nil {
				// Chain availability is not guaranteed; keep the last-known
				// off-chain state and retry the same window next tick.
				log.WithError(err).Warn("chain sync pass failed")
			}
		}
	}
}

func (w *ChainSyncWorker) syncOnce(ctx context.Context) error {
	head, err := w.Client.LatestBlock(ctx)
	if err != nil {
		return err
	}

	if w.lastBlock == 0 {
		// First pass: start at the head rather than replaying history.
		w.lastBlock = head
		return nil
	}
	if head <= w.lastBlock {
		return nil
	}

	from := w.lastBlock + 1
	to := head
	if to-from > maxLogRange {
		to = from + maxLogRange
	}

	transfers, err := w.Client.TransferLogs(ctx, from, to)
	if err != nil {
		return err
	}

	for _, t := range transfers {
		if err := w.applyTransfer(ctx, t); err != nil {
			log.WithError(err).WithField("token_id", t.TokenID).Error("failed to apply transfer")
			// Do not advance past an unapplied transfer.
			return err
		}
	}

	w.lastBlock = to
	if len(transfers) > 0 {
		log.WithFields(log.Fields{
			"transfers": len(transfers),
			"to_block":  to,
		}).Info("chain transfers applied")
	}
	return nil
}

func (w *ChainSyncWorker) applyTransfer(ctx context.Context, t chain.Transfer) error {
	tokenID := strconv.FormatInt(t.TokenID, 10)

	switch {
	case t.To == zeroAddress:
		// Burned: the record is excluded, not defaulted back into existence.
		return w.Pets.Delete(tokenID)

	case t.From == zeroAddress:
		// Mint: the client saves the record itself after the transaction,
		// but seed it here too so a pet never stays invisible if the client
		// disconnected right after minting.
		return w.seedFromChain(ctx, tokenID, t.To)

	default:
		// Sale or transfer: drop the old owner's record and recreate it
		// under the new owner. With the record gone, the chain's energy
		// value legitimately seeds the fresh one.
		if err := w.Pets.Delete(tokenID); err != nil {
			return err
		}
		return w.seedFromChain(ctx, tokenID, t.To)
	}
}

func (w *ChainSyncWorker) seedFromChain(ctx context.Context, tokenID, owner string) error {
	n, ok := services.ParseTokenID(tokenID)
	if !ok {
		return fmt.Errorf("invalid token id %q", tokenID)
	}

	view, err := w.Client.GetPet(ctx, n)
	if err != nil {
		return err
	}

	energy := view.Energy
	if energy > models.MaxEnergy {
		energy = models.MaxEnergy
	}
	_, err = w.Pets.Save(services.SaveInput{
		TokenID:  tokenID,
		Owner:    owner,
		Tier:     view.Tier,
		Level:    view.Level,
		Energy:   &energy,
		Name:     view.Name,
		ImageURI: view.ImageURI,
	})
	return err
}
