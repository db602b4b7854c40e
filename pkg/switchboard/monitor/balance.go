package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/internal"
)

// Config is the subset of chain configuration the balance monitor consumes.
type Config interface {
	BalancePollPeriod() time.Duration
}

// Keystore lists the accounts whose balances are monitored.
type Keystore interface {
	Accounts(ctx context.Context) ([]string, error)
}

// BalanceClient queries account balances in lamports.
type BalanceClient interface {
	Balance(ctx context.Context, addr solana.PublicKey) (uint64, error)
}

// BalanceMonitor polls the SOL balance of every keystore account and reports
// it to the balance gauge.
type BalanceMonitor struct {
	startOnce sync.Once
	closeOnce sync.Once
	url       string
	cfg       Config
	ks        Keystore
	newReader func() (BalanceClient, error)
	lggr      *zap.SugaredLogger

	chStop chan struct{}
	done   sync.WaitGroup

	reader BalanceClient
	// overridable for tests
	updateFn func(lamports uint64, account string)
}

func NewBalanceMonitor(url string, cfg Config, ks Keystore, newReader func() (BalanceClient, error), lggr *zap.SugaredLogger) *BalanceMonitor {
	b := &BalanceMonitor{
		url:       url,
		cfg:       cfg,
		ks:        ks,
		newReader: newReader,
		lggr:      lggr.Named("BalanceMonitor"),
		chStop:    make(chan struct{}),
	}
	b.updateFn = b.updateBalance
	return b
}

func (b *BalanceMonitor) Start(context.Context) error {
	b.startOnce.Do(func() {
		b.done.Add(1)
		go b.monitor()
	})
	return nil
}

func (b *BalanceMonitor) Close() error {
	b.closeOnce.Do(func() {
		close(b.chStop)
		b.done.Wait()
	})
	return nil
}

func (b *BalanceMonitor) monitor() {
	defer b.done.Done()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-b.chStop:
			cancel()
		case <-ctx.Done():
		}
	}()

	tick := time.After(0)
	for {
		select {
		case <-b.chStop:
			return
		case <-tick:
			b.updateBalances(ctx)
			tick = time.After(internal.WithJitter(b.cfg.BalancePollPeriod()))
		}
	}
}

func (b *BalanceMonitor) getReader() (BalanceClient, error) {
	if b.reader == nil {
		reader, err := b.newReader()
		if err != nil {
			return nil, err
		}
		b.reader = reader
	}
	return b.reader, nil
}

func (b *BalanceMonitor) updateBalances(ctx context.Context) {
	accounts, err := b.ks.Accounts(ctx)
	if err != nil {
		b.lggr.Errorw("failed to list keystore accounts", "error", err)
		return
	}

	reader, err := b.getReader()
	if err != nil {
		b.lggr.Errorw("failed to get client", "error", err)
		return
	}

	for _, account := range accounts {
		addr, err := solana.PublicKeyFromBase58(account)
		if err != nil {
			b.lggr.Warnw("keystore account is not a valid pubkey", "account", account, "error", err)
			continue
		}
		lamports, err := reader.Balance(ctx, addr)
		if err != nil {
			b.lggr.Errorw("failed to get balance", "account", account, "error", err)
			continue
		}
		b.updateFn(lamports, account)
	}
}

func (b *BalanceMonitor) updateBalance(lamports uint64, account string) {
	SetBalance(internal.LamportsToSol(lamports), account, b.url)
}
