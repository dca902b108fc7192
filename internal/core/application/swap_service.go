package application

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/shopspring/decimal"

	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"
)

// InitiateSwapRequest collects the parameters of an initiate_swap operation.
// The depositor is always the authenticated caller, never taken from the
// request.
type InitiateSwapRequest struct {
	Participant         string
	Asset               string
	Amount              decimal.Decimal
	Hashlock            []byte
	Timelock            uint32
	EthereumDestination string
	EthereumAmount      string
	EthereumToken       string
}

// SwapService is the swap ledger state machine. It validates every
// transition, delegates persistence to the swap registry, triggers the asset
// transfer capability and reports transitions through the publishers.
//
// Operations are serialized by an internal lock, mirroring the transaction
// ordering a host ledger would provide.
type SwapService struct {
	repoManager ports.RepoManager
	vault       ports.AssetVault
	ledgerClock ports.LedgerClock
	auth        ports.Authenticator
	publishers  []ports.Publisher

	lock sync.Mutex
}

func NewSwapService(
	repoManager ports.RepoManager,
	vault ports.AssetVault,
	ledgerClock ports.LedgerClock,
	auth ports.Authenticator,
	publishers ...ports.Publisher,
) *SwapService {
	return &SwapService{
		repoManager: repoManager,
		vault:       vault,
		ledgerClock: ledgerClock,
		auth:        auth,
		publishers:  publishers,
	}
}

// InitiateSwap creates a new swap order escrowing the caller's funds and
// returns its id, the hex encoded hashlock. Either the record and the
// transfer both succeed, or neither is observable.
func (s *SwapService) InitiateSwap(
	ctx context.Context, req InitiateSwapRequest,
) (string, error) {
	caller, err := s.auth.Caller(ctx)
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	currentSequence, err := s.ledgerClock.CurrentSequence(ctx)
	if err != nil {
		return "", err
	}

	swap, err := domain.NewSwap(
		caller, req.Participant, req.Asset,
		req.Amount, req.Hashlock, req.Timelock, currentSequence,
		req.EthereumDestination, req.EthereumAmount, req.EthereumToken,
	)
	if err != nil {
		return "", err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	swapRepo := s.repoManager.SwapRepository()
	if err := swapRepo.AddSwap(ctx, swap, swap.TTL(currentSequence)); err != nil {
		return "", err
	}

	if err := s.vault.Transfer(
		ctx, caller, s.vault.CustodyAccount(), swap.Asset, swap.Amount,
	); err != nil {
		if derr := swapRepo.DeleteSwap(ctx, swap.Id); derr != nil {
			log.WithError(derr).WithField("swap_id", swap.Id).
				Error("failed to roll back swap record after failed escrow transfer")
		}
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	// Advisory bookkeeping, allocated only once the swap is durable so that
	// a failing initiate leaves the counter untouched. Nothing consumes the
	// returned value yet.
	nonce, err := s.repoManager.NonceRepository().NextNonce(ctx, caller)
	if err != nil {
		log.WithError(err).WithField("swap_id", swap.Id).
			Warn("failed to allocate depositor nonce")
	}

	log.WithFields(log.Fields{
		"swap_id":  swap.Id,
		"asset":    swap.Asset,
		"amount":   swap.Amount.String(),
		"timelock": swap.Timelock,
		"nonce":    nonce,
	}).Info("swap initiated")

	s.publish(ports.SwapInitiatedTopic, serializeSwapInitiated(swap))

	return swap.Id, nil
}

// Withdraw releases the escrowed funds to the swap participant in exchange
// for the preimage of the hashlock. The caller must be authenticated as the
// participant and act before the timelock.
func (s *SwapService) Withdraw(
	ctx context.Context, swapId string, preimage []byte,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	swapRepo := s.repoManager.SwapRepository()
	swap, err := swapRepo.GetSwap(ctx, swapId)
	if err != nil {
		return err
	}

	if err := s.auth.RequireAuth(ctx, swap.Participant); err != nil {
		return err
	}

	currentSequence, err := s.ledgerClock.CurrentSequence(ctx)
	if err != nil {
		return err
	}

	settled := *swap
	if err := settled.Withdraw(preimage, currentSequence); err != nil {
		return err
	}

	if err := s.vault.Transfer(
		ctx, s.vault.CustodyAccount(), swap.Participant, swap.Asset, swap.Amount,
	); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if err := swapRepo.UpdateSwap(ctx, swapId,
		func(_ *domain.Swap) (*domain.Swap, error) {
			return &settled, nil
		},
	); err != nil {
		s.rollbackTransfer(ctx, swap.Participant, swap.Asset, swap.Amount, swapId)
		return err
	}

	log.WithFields(log.Fields{
		"swap_id": swapId,
		"asset":   swap.Asset,
		"amount":  swap.Amount.String(),
	}).Info("swap withdrawn")

	// The preimage becomes public here, this is how the counterpart chain's
	// relayer learns the secret and completes the mirrored leg.
	s.publish(ports.WithdrawnTopic, serializeWithdrawn(swap, preimage))

	return nil
}

// Refund returns the escrowed funds to the initiator once the timelock has
// passed. The caller must be authenticated as the initiator.
func (s *SwapService) Refund(ctx context.Context, swapId string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	swapRepo := s.repoManager.SwapRepository()
	swap, err := swapRepo.GetSwap(ctx, swapId)
	if err != nil {
		return err
	}

	if err := s.auth.RequireAuth(ctx, swap.Initiator); err != nil {
		return err
	}

	currentSequence, err := s.ledgerClock.CurrentSequence(ctx)
	if err != nil {
		return err
	}

	settled := *swap
	if err := settled.Refund(currentSequence); err != nil {
		return err
	}

	if err := s.vault.Transfer(
		ctx, s.vault.CustodyAccount(), swap.Initiator, swap.Asset, swap.Amount,
	); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if err := swapRepo.UpdateSwap(ctx, swapId,
		func(_ *domain.Swap) (*domain.Swap, error) {
			return &settled, nil
		},
	); err != nil {
		s.rollbackTransfer(ctx, swap.Initiator, swap.Asset, swap.Amount, swapId)
		return err
	}

	log.WithFields(log.Fields{
		"swap_id": swapId,
		"asset":   swap.Asset,
		"amount":  swap.Amount.String(),
	}).Info("swap refunded")

	s.publish(ports.RefundedTopic, serializeRefunded(swap))

	return nil
}

// GetSwap returns the swap with the given id. Read-only, no side effects.
func (s *SwapService) GetSwap(ctx context.Context, swapId string) (*domain.Swap, error) {
	return s.repoManager.SwapRepository().GetSwap(ctx, swapId)
}

// ListSwaps returns all the swaps in the registry, used by relayers to
// resync after downtime.
func (s *SwapService) ListSwaps(ctx context.Context) ([]*domain.Swap, error) {
	return s.repoManager.SwapRepository().GetAllSwaps(ctx)
}

// publish notifies all publishers after the state mutation is durable.
// Failures are logged and never propagated, consumers must expect
// at-least-once delivery anyway.
func (s *SwapService) publish(topic, message string) {
	for _, pub := range s.publishers {
		if err := pub.Publish(topic, message); err != nil {
			log.WithError(err).WithField("topic", topic).
				Warn("failed to publish event")
		}
	}
}

func (s *SwapService) rollbackTransfer(
	ctx context.Context, beneficiary, asset string, amount decimal.Decimal,
	swapId string,
) {
	if err := s.vault.Transfer(
		ctx, beneficiary, s.vault.CustodyAccount(), asset, amount,
	); err != nil {
		log.WithError(err).WithField("swap_id", swapId).
			Error("failed to roll back settlement transfer after storage failure")
	}
}
