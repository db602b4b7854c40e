package txm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	solanaGo "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/client"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/config"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/fees"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/internal"
)

const (
	MaxQueueLen      = 1000
	MaxRetryTimeMs   = 250 // max tx retry time (exponential retry will taper to retry every 0.25s)
	MaxSigsToConfirm = 256 // max number of signatures in GetSignatureStatus call
	TxReapInterval   = 10 * time.Second
)

// SimpleKeystore signs arbitrary payloads for an account held elsewhere.
type SimpleKeystore interface {
	Sign(ctx context.Context, account string, data []byte) (signature []byte, err error)
	Accounts(ctx context.Context) (accounts []string, err error)
}

// Txm broadcasts and confirms transactions against the Switchboard program.
// Simple implementation with no persistently stored txs.
type Txm struct {
	startOnce sync.Once
	closeOnce sync.Once
	lggr      *zap.SugaredLogger
	chSend    chan pendingTx
	chStop    chan struct{}
	done      sync.WaitGroup
	cfg       config.Config
	txs       *PendingTxContext
	ks        SimpleKeystore
	client    internal.Loader[client.ReaderWriter]
	fee       fees.Estimator
	// sendTx is an override for sending transactions rather than using a single client
	sendTx func(ctx context.Context, tx *solanaGo.Transaction) (solanaGo.Signature, error)
}

// TxConfig is the per-transaction override of the txm defaults.
type TxConfig struct {
	Timeout time.Duration // transaction broadcast timeout

	// compute unit price config
	FeeBumpPeriod        time.Duration // how often to bump fee
	BaseComputeUnitPrice uint64        // starting price
	ComputeUnitPriceMin  uint64        // min price
	ComputeUnitPriceMax  uint64        // max price

	ComputeUnitLimit uint32 // compute unit limit
}

type SetTxConfig func(*TxConfig)

func SetTimeout(t time.Duration) SetTxConfig {
	return func(cfg *TxConfig) { cfg.Timeout = t }
}
func SetFeeBumpPeriod(t time.Duration) SetTxConfig {
	return func(cfg *TxConfig) { cfg.FeeBumpPeriod = t }
}
func SetBaseComputeUnitPrice(v uint64) SetTxConfig {
	return func(cfg *TxConfig) { cfg.BaseComputeUnitPrice = v }
}
func SetComputeUnitLimit(v uint32) SetTxConfig {
	return func(cfg *TxConfig) { cfg.ComputeUnitLimit = v }
}

func NewTxm(loader internal.Loader[client.ReaderWriter],
	sendTx func(ctx context.Context, tx *solanaGo.Transaction) (solanaGo.Signature, error),
	cfg config.Config, ks SimpleKeystore, lggr *zap.SugaredLogger) *Txm {
	if sendTx == nil {
		// default sendTx using a single RPC
		sendTx = func(ctx context.Context, tx *solanaGo.Transaction) (solanaGo.Signature, error) {
			c, err := loader.Get()
			if err != nil {
				return solanaGo.Signature{}, err
			}
			return c.SendTx(ctx, tx)
		}
	}

	return &Txm{
		lggr:   lggr.Named("Txm"),
		chSend: make(chan pendingTx, MaxQueueLen),
		chStop: make(chan struct{}),
		cfg:    cfg,
		txs:    newPendingTxContext(),
		ks:     ks,
		client: loader,
		sendTx: sendTx,
	}
}

// Start spins up the send, confirm and reap loops.
func (txm *Txm) Start(ctx context.Context) error {
	var startErr error
	txm.startOnce.Do(func() {
		// determine estimator type
		var estimator fees.Estimator
		var err error
		switch strings.ToLower(txm.cfg.FeeEstimatorMode()) {
		case "fixed":
			estimator, err = fees.NewFixedPriceEstimator(txm.cfg)
		case "blockhistory":
			blockReader := internal.NewLoader[fees.BlockReader](func() (fees.BlockReader, error) {
				return txm.client.Get()
			})
			estimator, err = fees.NewBlockHistoryEstimator(blockReader, txm.cfg, txm.lggr)
		default:
			err = fmt.Errorf("unknown fee estimator type: %s", txm.cfg.FeeEstimatorMode())
		}
		if err != nil {
			startErr = err
			return
		}
		txm.fee = estimator
		if err := txm.fee.Start(ctx); err != nil {
			startErr = err
			return
		}

		txm.done.Add(3) // waitgroup: send, confirm, reap
		go txm.run()
		go txm.confirm()
		go txm.reap()
	})
	return startErr
}

func (txm *Txm) Close() error {
	txm.closeOnce.Do(func() {
		close(txm.chStop)
		txm.done.Wait()
		if txm.fee != nil {
			_ = txm.fee.Close()
		}
	})
	return nil
}

// Enqueue submits an unsigned transaction for broadcast. The fee payer must
// be the first account key and resolvable by the keystore.
func (txm *Txm) Enqueue(tx *solanaGo.Transaction, opts ...SetTxConfig) (string, error) {
	if tx == nil || len(tx.Message.AccountKeys) == 0 {
		return "", errors.New("invalid transaction: no account keys")
	}
	if txm.fee == nil {
		return "", errors.New("txm not started")
	}

	// fee payer account is index 0 account
	payer := tx.Message.AccountKeys[0].String()
	accounts, err := txm.ks.Accounts(context.Background())
	if err != nil {
		return "", fmt.Errorf("failed to list keystore accounts: %w", err)
	}
	found := false
	for _, a := range accounts {
		if a == payer {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("keystore does not contain fee payer %s", payer)
	}

	cfg := TxConfig{
		Timeout:              txm.cfg.TxRetryTimeout(),
		FeeBumpPeriod:        txm.cfg.FeeBumpPeriod(),
		BaseComputeUnitPrice: txm.fee.BaseComputeUnitPrice(),
		ComputeUnitPriceMin:  txm.cfg.ComputeUnitPriceMin(),
		ComputeUnitPriceMax:  txm.cfg.ComputeUnitPriceMax(),
		ComputeUnitLimit:     txm.cfg.ComputeUnitLimitDefault(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	msg := pendingTx{
		id:  uuid.NewString(),
		tx:  *tx,
		cfg: cfg,
	}

	select {
	case txm.chSend <- msg:
	default:
		return "", fmt.Errorf("failed to enqueue tx %s: queue full", msg.id)
	}
	return msg.id, nil
}

// State returns the lifecycle state of a previously enqueued transaction.
func (txm *Txm) State(id string) TxState {
	return txm.txs.State(id)
}

// InflightTxs returns the number of transactions being confirmed.
func (txm *Txm) InflightTxs() int {
	return txm.txs.InflightCount()
}

func (txm *Txm) run() {
	defer txm.done.Done()
	ctx, cancel := txm.stopCtx()
	defer cancel()

	for {
		select {
		case msg := <-txm.chSend:
			sig, id, err := txm.sendWithRetry(ctx, msg)
			if err != nil {
				txm.lggr.Errorw("failed to send transaction", "error", err)
				txm.client.Reset() // clear client if tx fails immediately (potentially bad RPC)
				continue
			}
			txm.lggr.Debugw("transaction sent", "signature", sig.String(), "id", id)
		case <-txm.chStop:
			return
		}
	}
}

func (txm *Txm) sendWithRetry(ctx context.Context, msg pendingTx) (solanaGo.Signature, string, error) {
	// fee payer account is index 0 account
	key := msg.tx.Message.AccountKeys[0].String()

	// base compute unit price should only be calculated once so the
	// underlying base cannot change between bumps
	getFee := func(count uint) fees.ComputeUnitPrice {
		return fees.ComputeUnitPrice(fees.CalculateFee(
			msg.cfg.BaseComputeUnitPrice,
			msg.cfg.ComputeUnitPriceMax,
			msg.cfg.ComputeUnitPriceMin,
			count,
		))
	}

	baseTx := msg.tx

	// add compute unit limit instruction - static for the transaction
	// skip if compute unit limit = 0 (otherwise would always fail)
	if msg.cfg.ComputeUnitLimit != 0 {
		if err := fees.SetComputeUnitLimit(&baseTx, fees.ComputeUnitLimit(msg.cfg.ComputeUnitLimit)); err != nil {
			return solanaGo.Signature{}, "", fmt.Errorf("failed to add compute unit limit instruction: %w", err)
		}
	}

	buildTx := func(ctx context.Context, base solanaGo.Transaction, retryCount uint) (solanaGo.Transaction, error) {
		newTx := base // make copy

		if err := fees.SetComputeUnitPrice(&newTx, getFee(retryCount)); err != nil {
			return solanaGo.Transaction{}, err
		}

		txMsg, err := newTx.Message.MarshalBinary()
		if err != nil {
			return solanaGo.Transaction{}, fmt.Errorf("error in sendWithRetry.MarshalBinary: %w", err)
		}
		sigBytes, err := txm.ks.Sign(ctx, key, txMsg)
		if err != nil {
			return solanaGo.Transaction{}, fmt.Errorf("error in sendWithRetry.Sign: %w", err)
		}
		var finalSig [64]byte
		copy(finalSig[:], sigBytes)
		newTx.Signatures = append(newTx.Signatures, finalSig)

		return newTx, nil
	}

	initTx, err := buildTx(ctx, baseTx, 0)
	if err != nil {
		return solanaGo.Signature{}, "", err
	}

	// create timeout context for the rebroadcast loop
	ctx, cancel := context.WithTimeout(ctx, msg.cfg.Timeout)

	// send initial tx (do not retry and exit early if fails)
	sig, err := txm.sendTx(ctx, &initTx)
	if err != nil {
		cancel()
		return solanaGo.Signature{}, "", fmt.Errorf("tx failed initial transmit: %w", err)
	}

	if err := txm.txs.New(msg, sig, cancel); err != nil {
		cancel()
		return solanaGo.Signature{}, "", fmt.Errorf("failed to save tx signature (%s) to inflight txs: %w", sig, err)
	}

	txm.lggr.Debugw("tx initial broadcast", "id", msg.id, "fee", getFee(0), "signature", sig)

	// retry with exponential backoff until the context is cancelled by the
	// timeout or by the confirm loop reaching a terminal state
	txm.done.Add(1)
	go func(ctx context.Context, currentTx solanaGo.Transaction) {
		defer txm.done.Done()
		deltaT := 1 // ms
		tick := time.After(0)
		var bumpCount uint
		bumpTime := time.Now()

		for {
			select {
			case <-ctx.Done():
				txm.lggr.Debugw("stopped tx retry", "id", msg.id, "err", context.Cause(ctx))
				return
			case <-tick:
				// bump if period > 0 and past time
				if msg.cfg.FeeBumpPeriod != 0 && time.Since(bumpTime) > msg.cfg.FeeBumpPeriod {
					bumpCount++
					bumpTime = time.Now()

					bumpedTx, buildErr := buildTx(ctx, baseTx, bumpCount)
					if buildErr != nil {
						txm.lggr.Errorw("failed to build bumped retry tx", "error", buildErr, "id", msg.id)
						return
					}
					currentTx = bumpedTx
				}

				retrySig, sendErr := txm.sendTx(ctx, &currentTx)
				if sendErr != nil {
					// this could occur if endpoint goes down or if ctx cancelled
					if errors.Is(sendErr, context.Canceled) || errors.Is(sendErr, context.DeadlineExceeded) {
						txm.lggr.Debugw("ctx error on send retry transaction", "error", sendErr, "id", msg.id)
					} else {
						txm.lggr.Warnw("failed to send retry transaction", "error", sendErr, "id", msg.id)
					}
				} else if retrySig != sig {
					// bumped fee produces a new signature that also needs confirming
					if storeErr := txm.txs.AddSignature(msg.id, retrySig); storeErr != nil && !errors.Is(storeErr, ErrSigAlreadyExists) {
						txm.lggr.Warnw("error adding retry transaction signature", "error", storeErr, "id", msg.id)
					} else if storeErr == nil {
						txm.lggr.Debugw("tx rebroadcast with bumped fee", "id", msg.id, "fee", getFee(bumpCount), "signature", retrySig)
					}
				}
			}

			// exponential increase in wait time, capped at MaxRetryTimeMs
			deltaT *= 2
			if deltaT > MaxRetryTimeMs {
				deltaT = MaxRetryTimeMs
			}
			tick = time.After(internal.WithJitter(time.Duration(deltaT) * time.Millisecond))
		}
	}(ctx, initTx)

	return sig, msg.id, nil
}

// confirm polls signature statuses and advances tx lifecycle states,
// cancelling the rebroadcast loop once a tx is confirmed.
func (txm *Txm) confirm() {
	defer txm.done.Done()
	ctx, cancel := txm.stopCtx()
	defer cancel()

	tick := time.After(0)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			txm.confirmPending(ctx)
		}
		tick = time.After(internal.WithJitter(txm.cfg.ConfirmPollPeriod()))
	}
}

func (txm *Txm) confirmPending(ctx context.Context) {
	sigs := txm.txs.ListAll()
	if len(sigs) == 0 {
		return
	}

	c, err := txm.client.Get()
	if err != nil {
		txm.lggr.Errorw("failed to get client in confirm", "error", err)
		return
	}

	sigsBatch, err := BatchSplit(sigs, MaxSigsToConfirm)
	if err != nil { // this should never happen
		txm.lggr.Errorw("failed to batch signatures", "error", err)
		return
	}

	for _, batch := range sigsBatch {
		res, statusErr := c.SignatureStatuses(ctx, batch)
		if statusErr != nil {
			txm.lggr.Errorw("failed to get signature statuses", "error", statusErr)
			break
		}
		txm.processStatuses(batch, res)
	}
}

func (txm *Txm) processStatuses(sigs []solanaGo.Signature, res []*rpc.SignatureStatusesResult) {
	// sort signatures and results to process successful first
	sigs, res, err := SortSignaturesAndResults(sigs, res)
	if err != nil {
		txm.lggr.Errorw("sorting error", "error", err)
		return
	}

	for i := 0; i < len(res); i++ {
		// sig not found could mean invalid tx or not picked up yet, keep polling
		if res[i] == nil {
			if txm.txs.Expired(sigs[i], txm.cfg.TxConfirmTimeout()) {
				id, onErr := txm.txs.OnError(sigs[i], txm.cfg.TxRetryTimeout(), TxFailDrop)
				if onErr == nil {
					txm.lggr.Infow("failed to find transaction within confirm timeout", "id", id, "signature", sigs[i])
				}
			}
			continue
		}

		// if signature has an error, end polling
		if res[i].Err != nil {
			id, onErr := txm.txs.OnError(sigs[i], txm.cfg.TxRetryTimeout(), TxFailRevert)
			if onErr == nil {
				txm.lggr.Debugw("tx state: failed", "id", id, "signature", sigs[i], "error", res[i].Err, "status", res[i].ConfirmationStatus)
			}
			continue
		}

		switch convertStatus(res[i]) {
		case Processed:
			id, procErr := txm.txs.OnProcessed(sigs[i])
			if procErr == nil {
				txm.lggr.Debugw("marking transaction as processed", "id", id, "signature", sigs[i])
			}
			if txm.txs.Expired(sigs[i], txm.cfg.TxConfirmTimeout()) {
				if id, onErr := txm.txs.OnError(sigs[i], txm.cfg.TxRetryTimeout(), TxFailDrop); onErr == nil {
					txm.lggr.Debugw("tx failed to move beyond 'processed' within confirm timeout", "id", id, "signature", sigs[i])
				}
			}
		case Confirmed:
			id, confErr := txm.txs.OnConfirmed(sigs[i])
			if confErr == nil {
				txm.lggr.Debugw("marking transaction as confirmed", "id", id, "signature", sigs[i])
			}
		case Finalized:
			id, finErr := txm.txs.OnFinalized(sigs[i], txm.cfg.TxRetryTimeout())
			if finErr == nil {
				txm.lggr.Debugw("marking transaction as finalized", "id", id, "signature", sigs[i])
			}
		}
	}
}

// reap drops retained finished txs past their retention window.
func (txm *Txm) reap() {
	defer txm.done.Done()

	tick := time.After(TxReapInterval)
	for {
		select {
		case <-txm.chStop:
			return
		case <-tick:
			if removed := txm.txs.TrimFinished(); removed > 0 {
				txm.lggr.Debugw("reaped finished transactions", "count", removed)
			}
		}
		tick = time.After(internal.WithJitter(TxReapInterval))
	}
}

func (txm *Txm) stopCtx() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-txm.chStop:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
