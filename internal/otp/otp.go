// Package otp issues and verifies the one-time codes used for customer
// identity. Codes live in process memory only, keyed by normalized phone,
// with exactly one outstanding code per phone.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/notify"
	"github.com/Raghav1000000000/cafe/internal/phone"
)

var (
	ErrNoOTPRequested = errors.New("no otp requested for this phone")
	ErrInvalidCode    = errors.New("invalid otp code")
)

// Challenge is the outcome of a successful code request.
type Challenge struct {
	Code  string
	Phone string
}

// CustomerUpserter marks the customer verified once a code is consumed.
type CustomerUpserter interface {
	UpsertCustomer(ctx context.Context, c *customer.Customer) error
}

type record struct {
	code      string
	createdAt time.Time
	attempts  int
}

// Manager owns the in-memory OTP table. The mutex guards the map itself;
// there is no cross-call atomicity, matching the rest of the system.
type Manager struct {
	normalizer *phone.Normalizer
	notifier   notify.Notifier
	customers  CustomerUpserter

	// ttl bounds how long a code stays verifiable, maxAttempts how many
	// wrong guesses it survives. Zero disables either limit, reproducing
	// the source system's unlimited behavior.
	ttl         time.Duration
	maxAttempts int

	mu    sync.Mutex
	codes map[string]*record

	now func() time.Time
}

func NewManager(normalizer *phone.Normalizer, notifier notify.Notifier, customers CustomerUpserter, ttl time.Duration, maxAttempts int) *Manager {
	return &Manager{
		normalizer:  normalizer,
		notifier:    notifier,
		customers:   customers,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		codes:       make(map[string]*record),
		now:         time.Now,
	}
}

// Request issues a fresh code for the phone, overwriting any outstanding
// one, and hands it to the notifier in the background. Delivery failure
// never fails the request.
func (m *Manager) Request(ctx context.Context, rawPhone string) (Challenge, error) {
	if !m.normalizer.IsValid(rawPhone) {
		return Challenge{}, phone.ErrInvalidPhone
	}
	normalized := m.normalizer.Normalize(rawPhone)

	code, err := generateCode()
	if err != nil {
		log.Error().Err(err).Msg("otp: failed to generate code")
		return Challenge{}, fmt.Errorf("otp: failed to generate code: %w", err)
	}

	m.mu.Lock()
	m.codes[normalized] = &record{code: code, createdAt: m.now()}
	m.mu.Unlock()

	notify.Dispatch(m.notifier, normalized, "Your cafe verification code is "+code)

	log.Info().Str("phone", normalized).Msg("otp: code issued")

	return Challenge{Code: code, Phone: normalized}, nil
}

// Verify checks the submitted code. A correct code is single-use: the
// record is deleted and the customer record is stamped verified.
func (m *Manager) Verify(ctx context.Context, rawPhone, code string) (string, error) {
	if !m.normalizer.IsValid(rawPhone) {
		return "", phone.ErrInvalidPhone
	}
	normalized := m.normalizer.Normalize(rawPhone)

	m.mu.Lock()
	rec, ok := m.codes[normalized]
	if !ok {
		m.mu.Unlock()
		return "", ErrNoOTPRequested
	}

	if m.ttl > 0 && m.now().Sub(rec.createdAt) > m.ttl {
		delete(m.codes, normalized)
		m.mu.Unlock()
		log.Warn().Str("phone", normalized).Msg("otp: code expired")
		return "", ErrNoOTPRequested
	}

	if rec.code != code {
		rec.attempts++
		exhausted := m.maxAttempts > 0 && rec.attempts >= m.maxAttempts
		if exhausted {
			delete(m.codes, normalized)
		}
		m.mu.Unlock()
		if exhausted {
			log.Warn().Str("phone", normalized).Msg("otp: attempt limit reached, code discarded")
		}
		return "", ErrInvalidCode
	}

	delete(m.codes, normalized)
	m.mu.Unlock()

	verifiedAt := m.now().UnixMilli()
	cust := &customer.Customer{
		Phone:      normalized,
		VerifiedAt: &verifiedAt,
	}
	if err := m.customers.UpsertCustomer(ctx, cust); err != nil {
		log.Warn().Err(err).Str("phone", normalized).Msg("otp: failed to record verified customer")
	}

	log.Info().Str("phone", normalized).Msg("otp: phone verified")

	return normalized, nil
}

// generateCode draws a 4-digit code uniformly from [1000, 9999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}
