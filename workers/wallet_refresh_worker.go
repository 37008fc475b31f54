package workers

import (
	"context"
	"time"

	"github.com/enyekk7/froth-pet/chain"
	"github.com/enyekk7/froth-pet/services"

	log "github.com/sirupsen/logrus"
)

// refreshBatchSize caps how many wallets one pass re-checks, so a slow RPC
// endpoint cannot stall the ticker indefinitely.
const refreshBatchSize = 50

// WalletRefreshWorker re-checks the cached hasNFT flag against the contract's
// balanceOf for wallets the client has not refreshed in a while. The cache is
// only a hint for the UI; this keeps the hint from going permanently stale
// when a holder stops opening the app.
type WalletRefreshWorker struct {
	Client  *chain.Client
	Wallets *services.WalletService
}

func NewWalletRefreshWorker(client *chain.Client, wallets *services.WalletService) *WalletRefreshWorker {
	return &WalletRefreshWorker{Client: client, Wallets: wallets}
}

// Run refreshes stale wallets until the context is cancelled. maxAge is how
// old a wallet's last check may be before it qualifies for a refresh.
func (w *WalletRefreshWorker) Run(ctx context.Context, pollInterval, maxAge time.Duration) {
	log.WithFields(log.Fields{
		"interval": pollInterval,
		"max_age":  maxAge,
	}).Info("wallet refresh worker started")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("wallet refresh worker stopped")
			return
		case <-ticker.C:
			if err := w.refreshOnce(ctx, maxAge); err != nil {
				log.WithError(err).Warn("wallet refresh pass failed")
			}
		}
	}
}

func (w *WalletRefreshWorker) refreshOnce(ctx context.Context, maxAge time.Duration) error {
	stale, err := w.Wallets.Stale(time.Now().Add(-maxAge), refreshBatchSize)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	refreshed := 0
	for _, wallet := range stale {
		balance, err := w.Client.BalanceOf(ctx, wallet.WalletAddress)
		if err != nil {
			// Leave LastChecked untouched so the wallet is retried next pass.
			log.WithError(err).WithField("wallet", wallet.WalletAddress).Warn("balanceOf failed")
			continue
		}
		if _, err := w.Wallets.Sync(wallet.WalletAddress, balance > 0, time.Now()); err != nil {
			return err
		}
		refreshed++
	}

	if refreshed > 0 {
		log.WithField("wallets", refreshed).Info("wallet ownership refreshed")
	}
	return nil
}
