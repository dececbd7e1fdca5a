package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
)

// DefaultStatusReset is how long a success or error save status stays visible.
const DefaultStatusReset = 3 * time.Second

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrSaveFailed     = errors.New("sale could not be saved")
	ErrStaleResult    = errors.New("bill was cleared while the sale was being saved")
)

// Saver persists a sale and returns the identifier assigned by the server.
// attemptID is unique per save attempt and is used as the idempotency key.
type Saver interface {
	CreateSale(ctx context.Context, attemptID string, payload SalePayload) (string, error)
}

type Option func(*Session)

// WithStatusReset overrides DefaultStatusReset.
func WithStatusReset(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.resetAfter = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the single cashier session of a register. It is safe for
// concurrent use.
type Session struct {
	saver      Saver
	resetAfter time.Duration
	logger     *slog.Logger

	mu    sync.Mutex
	state State
	// inFlight is independent of the displayed status: Clear resets the
	// status but the outstanding call still blocks a new save.
	inFlight   bool
	generation uint64
	resetTimer *time.Timer
	resetSeq   uint64
}

func NewSession(saver Saver, opts ...Option) *Session {
	s := &Session{
		saver:      saver,
		resetAfter: DefaultStatusReset,
		logger:     slog.Default(),
		state:      NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddProduct adds a product from the raw form fields. It reports false when
// the input was rejected.
func (s *Session) AddProduct(in ProductInput) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, item, ok := s.state.AddProduct(in)
	s.state = next
	return item, ok
}

func (s *Session) SetQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.SetQuantity(id, quantity)
}

func (s *Session) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.RemoveItem(id)
}

func (s *Session) SetDiscount(discountType enum.DiscountType, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.SetDiscount(discountType, raw)
}

func (s *Session) SetPayment(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.SetPayment(raw)
}

func (s *Session) Bill() Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Bill()
}

func (s *Session) SaveStatus() enum.SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SaveStatus
}

func (s *Session) LastSaleID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastSaleID
}

// Clear starts a new bill. A save that is still outstanding is not
// cancelled, but its result is discarded when it returns.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.stopResetLocked()
	s.state = NewState()
}

// Save sends the current bill to the sales API and returns the assigned sale
// id. The mutex is released for the duration of the call.
func (s *Session) Save(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrSaveInProgress
	}
	if s.state.Cart.IsEmpty() {
		s.state = s.state.withSaveStatus(enum.SaveStatusError)
		s.scheduleResetLocked()
		s.mu.Unlock()
		return "", ErrEmptyCart
	}

	s.stopResetLocked()
	s.inFlight = true
	s.state = s.state.withSaveStatus(enum.SaveStatusSaving)
	generation := s.generation
	payload := BuildSnapshot(s.state).Payload()
	s.mu.Unlock()

	attemptID := uuid.NewString()
	saleID, err := s.saver.CreateSale(ctx, attemptID, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if generation != s.generation {
		s.logger.Info("discarding save result for cleared bill",
			slog.String("attempt_id", attemptID),
			slog.String("sale_id", saleID),
		)
		return "", ErrStaleResult
	}

	if err != nil {
		s.logger.Error("failed to save sale",
			slog.String("attempt_id", attemptID),
			slog.Any("error", err),
		)
		s.state = s.state.withSaveStatus(enum.SaveStatusError)
		s.scheduleResetLocked()
		return "", fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.state = s.state.withSaveStatus(enum.SaveStatusSuccess)
	s.state.LastSaleID = saleID
	s.scheduleResetLocked()
	s.logger.Info("sale saved",
		slog.String("attempt_id", attemptID),
		slog.String("sale_id", saleID),
	)
	return saleID, nil
}

// Close stops the pending status reset, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopResetLocked()
}

// scheduleResetLocked replaces any pending reset with a new one.
func (s *Session) scheduleResetLocked() {
	s.stopResetLocked()
	seq := s.resetSeq
	s.resetTimer = time.AfterFunc(s.resetAfter, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A timer that fired while being stopped must not reset a newer status.
		if seq != s.resetSeq {
			return
		}
		s.resetTimer = nil
		if s.state.SaveStatus == enum.SaveStatusSuccess || s.state.SaveStatus == enum.SaveStatusError {
			s.state = s.state.withSaveStatus(enum.SaveStatusIdle)
		}
	})
}

func (s *Session) stopResetLocked() {
	s.resetSeq++
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
}
