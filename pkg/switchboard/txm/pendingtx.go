package txm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrAlreadyInExpectedState = errors.New("transaction already in expected state")
	ErrSigAlreadyExists       = errors.New("signature already exists")
	ErrTransactionNotFound    = errors.New("transaction not found")
)

type TxFailReason string

const (
	TxFailReject TxFailReason = "reject" // immediate send failure
	TxFailRevert TxFailReason = "revert" // on-chain execution error
	TxFailDrop   TxFailReason = "drop"   // not confirmed within timeout
)

type pendingTx struct {
	id         string
	tx         solana.Transaction
	cfg        TxConfig
	signatures []solana.Signature
	createdAt  time.Time
	state      TxState
	cancel     context.CancelFunc
}

// PendingTxContext tracks broadcasted transactions by id and signature until
// they finalize, error, or expire.
type PendingTxContext struct {
	lock     sync.RWMutex
	byID     map[string]*pendingTx
	sigToID  map[solana.Signature]string
	finished map[string]finishedTx // retained until reaped
}

type finishedTx struct {
	state      TxState
	reason     TxFailReason
	retainedAt time.Time
	retention  time.Duration
}

func newPendingTxContext() *PendingTxContext {
	return &PendingTxContext{
		byID:     map[string]*pendingTx{},
		sigToID:  map[solana.Signature]string{},
		finished: map[string]finishedTx{},
	}
}

// New stores a broadcasted tx with its first signature. The cancel func
// stops the rebroadcast loop once the tx reaches a terminal state.
func (c *PendingTxContext) New(msg pendingTx, sig solana.Signature, cancel context.CancelFunc) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, exists := c.sigToID[sig]; exists {
		return ErrSigAlreadyExists
	}
	msg.signatures = []solana.Signature{sig}
	msg.createdAt = time.Now()
	msg.state = Broadcasted
	msg.cancel = cancel
	c.byID[msg.id] = &msg
	c.sigToID[sig] = msg.id
	return nil
}

// AddSignature registers a rebroadcast signature for an inflight tx.
func (c *PendingTxContext) AddSignature(id string, sig solana.Signature) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, exists := c.sigToID[sig]; exists {
		return ErrSigAlreadyExists
	}
	tx, exists := c.byID[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	tx.signatures = append(tx.signatures, sig)
	c.sigToID[sig] = id
	return nil
}

// ListAll returns every signature still being confirmed.
func (c *PendingTxContext) ListAll() []solana.Signature {
	c.lock.RLock()
	defer c.lock.RUnlock()

	sigs := make([]solana.Signature, 0, len(c.sigToID))
	for sig := range c.sigToID {
		sigs = append(sigs, sig)
	}
	return sigs
}

// Expired reports whether the tx behind the signature has been pending
// longer than the lifetime. Unknown signatures are considered expired.
func (c *PendingTxContext) Expired(sig solana.Signature, lifetime time.Duration) bool {
	if lifetime == 0 {
		return false // disabled
	}

	c.lock.RLock()
	defer c.lock.RUnlock()

	id, exists := c.sigToID[sig]
	if !exists {
		return true
	}
	tx, exists := c.byID[id]
	if !exists {
		return true
	}
	return time.Since(tx.createdAt) > lifetime
}

// OnProcessed marks the tx behind the signature as processed.
func (c *PendingTxContext) OnProcessed(sig solana.Signature) (string, error) {
	return c.advance(sig, Processed, false)
}

// OnConfirmed marks the tx as confirmed and stops its rebroadcast loop.
func (c *PendingTxContext) OnConfirmed(sig solana.Signature) (string, error) {
	return c.advance(sig, Confirmed, true)
}

// OnFinalized marks the tx as finalized, stops rebroadcasting and removes it
// from the inflight set, retaining it for retentionTimeout.
func (c *PendingTxContext) OnFinalized(sig solana.Signature, retentionTimeout time.Duration) (string, error) {
	id, err := c.advance(sig, Finalized, true)
	if err != nil {
		return id, err
	}
	c.finish(id, Finalized, "", retentionTimeout)
	return id, nil
}

// OnError marks the tx as errored, stops rebroadcasting and removes it from
// the inflight set, retaining it for retentionTimeout.
func (c *PendingTxContext) OnError(sig solana.Signature, retentionTimeout time.Duration, reason TxFailReason) (string, error) {
	c.lock.Lock()
	id, exists := c.sigToID[sig]
	c.lock.Unlock()
	if !exists {
		return "", fmt.Errorf("%w: sig %s", ErrTransactionNotFound, sig)
	}
	if _, err := c.advance(sig, Errored, true); err != nil {
		return id, err
	}
	c.finish(id, Errored, reason, retentionTimeout)
	return id, nil
}

// State returns the current lifecycle state for a tx id, checking both the
// inflight set and the retained finished set.
func (c *PendingTxContext) State(id string) TxState {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if tx, exists := c.byID[id]; exists {
		return tx.state
	}
	if f, exists := c.finished[id]; exists {
		return f.state
	}
	return NotFound
}

// InflightCount returns the number of txs still being confirmed.
func (c *PendingTxContext) InflightCount() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.byID)
}

// TrimFinished drops retained finished txs that are past their retention
// window, returning the number removed.
func (c *PendingTxContext) TrimFinished() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	var removed int
	for id, f := range c.finished {
		if time.Since(f.retainedAt) > f.retention {
			delete(c.finished, id)
			removed++
		}
	}
	return removed
}

func (c *PendingTxContext) advance(sig solana.Signature, to TxState, terminalForRetry bool) (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	id, exists := c.sigToID[sig]
	if !exists {
		return "", fmt.Errorf("%w: sig %s", ErrTransactionNotFound, sig)
	}
	tx, exists := c.byID[id]
	if !exists {
		return id, fmt.Errorf("%w: id %s", ErrTransactionNotFound, id)
	}
	if tx.state >= to {
		return id, ErrAlreadyInExpectedState
	}
	tx.state = to
	if terminalForRetry && tx.cancel != nil {
		tx.cancel() // stop rebroadcasting
		tx.cancel = nil
	}
	return id, nil
}

func (c *PendingTxContext) finish(id string, state TxState, reason TxFailReason, retention time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	tx, exists := c.byID[id]
	if !exists {
		return
	}
	for _, sig := range tx.signatures {
		delete(c.sigToID, sig)
	}
	delete(c.byID, id)
	if retention > 0 {
		c.finished[id] = finishedTx{state: state, reason: reason, retainedAt: time.Now(), retention: retention}
	}
}
