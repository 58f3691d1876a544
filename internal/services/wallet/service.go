package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ridepay/internal/models"
	"ridepay/internal/repositories"
	"ridepay/internal/services/paymob"
)

type service struct {
	repo    repositories.WalletRepository
	users   repositories.UserRepository
	cache   CacheOperator
	gateway paymob.Gateway
	metrics MetricsCollector
}

// NewService creates a new wallet service
func NewService(
	repo repositories.WalletRepository,
	users repositories.UserRepository,
	cache CacheOperator,
	gateway paymob.Gateway,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if users == nil {
		panic("user repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if gateway == nil {
		panic("gateway is required")
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		users:   users,
		cache:   cache,
		gateway: gateway,
		metrics: metrics,
	}
}

func (s *service) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	existing, err := s.repo.GetWalletByUserID(userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, fmt.Errorf("failed to check wallet: %w", err)
	}

	wallet := &models.Wallet{UserID: userID}
	if err := s.repo.CreateWallet(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.cache.CacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	// Try cache first
	if wallet, err := s.cache.GetWallet(ctx, userID); err == nil {
		return wallet, nil
	}

	wallet, err := s.repo.GetWalletByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	s.cache.CacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.GetEntries(ctx, wallet.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return entries, nil
}

func (s *service) TopUpWithCard(ctx context.Context, userID uint, amount float64, initiate InitiateFunc) (*TopUpResult, error) {
	return s.topUp(ctx, userID, amount, initiate, models.PaymentMethodCard)
}

func (s *service) TopUpWithMobileWallet(ctx context.Context, userID uint, amount float64, initiate InitiateFunc) (*TopUpResult, error) {
	return s.topUp(ctx, userID, amount, initiate, models.PaymentMethodMobileWallet)
}

// topUp validates, runs the provider initiation and, only once the provider
// session exists, records the payment attempt and its pending ledger entry in
// one transaction. The balance is not changed here: that happens exclusively
// when the provider's callback is reconciled.
func (s *service) topUp(ctx context.Context, userID uint, amount float64, initiate InitiateFunc, method string) (*TopUpResult, error) {
	if initiate == nil {
		return nil, errors.New("initiate func is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	initiation, err := initiate()
	if err != nil {
		log.Printf("payment initiation error for user %d: %v", userID, err)
		s.metrics.RecordError("top_up", "initiation")
		return nil, fmt.Errorf("%w: %v", ErrInitiationFailed, err)
	}
	if initiation == nil || !initiation.Success {
		log.Printf("payment initiation rejected for user %d", userID)
		s.metrics.RecordError("top_up", "initiation")
		return nil, ErrInitiationFailed
	}

	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	wallet, err := s.repo.GetWalletByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if wallet.IsLocked {
		return nil, ErrWalletLocked
	}

	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		// Balance snapshot is taken inside the transaction so the ledger
		// entry's before/after pair is consistent with what was committed.
		w, err := tx.GetWalletByUserID(userID)
		if err != nil {
			return err
		}

		attempt := &models.PaymentAttempt{
			UserID:      userID,
			Amount:      amount,
			PaymentType: models.PaymentTypeCredit,
			Method:      method,
			Status:      models.PaymentStatusPending,
			Reference:   initiation.Reference,
		}
		if err := tx.CreateAttempt(attempt); err != nil {
			return err
		}

		entry := &models.LedgerEntry{
			WalletID:         w.ID,
			PaymentAttemptID: attempt.ID,
			Type:             models.LedgerTypeDeposit,
			Amount:           amount,
			BalanceBefore:    w.Balance,
			BalanceAfter:     w.Balance + amount,
			Status:           models.LedgerStatusPending,
		}
		return tx.CreateEntry(entry)
	})
	if err != nil {
		log.Printf("failed to record top-up for user %d, reference %s: %v", userID, initiation.Reference, err)
		s.metrics.RecordError("top_up", "persistence")
		return nil, ErrRecordingFailed
	}

	log.Printf("top-up initiated for user %d: reference=%s order=%d amount=%.2f",
		userID, initiation.Reference, initiation.PaymobOrderID, amount)
	s.metrics.RecordTransaction("top_up_initiated", amount)

	return &TopUpResult{
		PaymentURL:      initiation.RedirectURL,
		Reference:       initiation.Reference,
		ProviderOrderID: initiation.PaymobOrderID,
		Status:          "pending",
	}, nil
}

// ProcessCallback applies a provider callback to the ledger exactly once.
// Unverifiable callbacks are dropped before any row is read; unknown
// references and duplicate deliveries are logged no-ops.
func (s *service) ProcessCallback(ctx context.Context, signature string, payload *paymob.CallbackPayload) {
	outcome, err := s.gateway.VerifyCallback(signature, payload)
	if err != nil {
		log.Printf("callback rejected: %v", err)
		s.metrics.RecordCallback(CallbackOutcomeRejected)
		return
	}

	attempt, err := s.repo.GetAttemptByReference(outcome.Reference)
	if err != nil {
		if errors.Is(err, repositories.ErrAttemptNotFound) {
			log.Printf("callback for unknown reference %s ignored", outcome.Reference)
			s.metrics.RecordCallback(CallbackOutcomeUnknown)
		} else {
			log.Printf("failed to load attempt for reference %s: %v", outcome.Reference, err)
			s.metrics.RecordError("callback", "lookup")
		}
		return
	}

	if attempt.Status == models.PaymentStatusSuccess {
		log.Printf("duplicate callback for settled reference %s ignored", outcome.Reference)
		s.metrics.RecordCallback(CallbackOutcomeDuplicate)
		return
	}

	settled, err := s.settle(outcome)
	if err != nil {
		// The transaction rolled back; the attempt stays pending and a
		// redelivered callback can still reconcile it.
		log.Printf("failed to settle reference %s: %v", outcome.Reference, err)
		s.metrics.RecordError("callback", "settlement")
		return
	}
	if !settled {
		log.Printf("reference %s settled by concurrent delivery", outcome.Reference)
		s.metrics.RecordCallback(CallbackOutcomeDuplicate)
		return
	}

	s.cache.InvalidateWallet(ctx, attempt.UserID)

	if outcome.Succeeded {
		log.Printf("payment %s settled: credited %.2f to user %d", outcome.Reference, attempt.Amount, attempt.UserID)
		s.metrics.RecordCallback(CallbackOutcomeCredited)
		s.metrics.RecordTransaction("top_up_completed", attempt.Amount)
	} else {
		log.Printf("payment %s settled as failed for user %d", outcome.Reference, attempt.UserID)
		s.metrics.RecordCallback(CallbackOutcomeFailed)
	}
}

// settle moves the attempt and its ledger entry to their terminal state and,
// on success, credits the wallet. Everything happens in one transaction. The
// attempt row is re-read under a lock so two callbacks racing on the same
// reference serialize, and the loser sees committed state and no-ops.
func (s *service) settle(outcome *paymob.CallbackOutcome) (bool, error) {
	settled := false
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		attempt, err := tx.GetAttemptByReferenceForUpdate(outcome.Reference)
		if err != nil {
			return err
		}
		if attempt.Status != models.PaymentStatusPending {
			// Settled by a concurrent delivery while we waited on the lock.
			return nil
		}
		settled = true

		entry, err := tx.GetEntryByAttemptID(attempt.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		if !outcome.Succeeded {
			attempt.Status = models.PaymentStatusFailed
			attempt.UpdatedAt = now
			if err := tx.UpdateAttempt(attempt); err != nil {
				return err
			}
			entry.Status = models.LedgerStatusFailed
			entry.UpdatedAt = now
			// The balance is untouched on the failure path.
			return tx.UpdateEntry(entry)
		}

		if outcome.Amount != attempt.Amount {
			log.Printf("callback amount %.2f differs from attempt amount %.2f for reference %s; crediting recorded amount",
				outcome.Amount, attempt.Amount, attempt.Reference)
		}

		attempt.Status = models.PaymentStatusSuccess
		attempt.UpdatedAt = now
		if err := tx.UpdateAttempt(attempt); err != nil {
			return err
		}

		entry.Status = models.LedgerStatusCompleted
		entry.UpdatedAt = now
		if err := tx.UpdateEntry(entry); err != nil {
			return err
		}

		// Re-read the wallet under a lock inside this transaction; a value
		// read earlier in the request could produce a lost update.
		wallet, err := tx.GetWalletByUserIDForUpdate(attempt.UserID)
		if err != nil {
			return err
		}
		wallet.Balance += attempt.Amount
		wallet.UpdatedAt = now
		return tx.UpdateWallet(wallet)
	})
	return settled, err
}
