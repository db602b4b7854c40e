package fees

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/config"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/internal"
)

var _ Estimator = &blockHistoryEstimator{}

var errNoComputeUnitPriceCollected = fmt.Errorf("no compute unit prices collected")

// BlockFeeData is the per-block aggregation of observed compute unit prices.
type BlockFeeData struct {
	Prices []ComputeUnitPrice
}

// BlockReader is the client surface the estimator polls.
type BlockReader interface {
	GetLatestBlock(ctx context.Context) (*rpc.GetBlockResult, error)
}

type blockHistoryEstimator struct {
	startOnce sync.Once
	chStop    chan struct{}
	done      sync.WaitGroup

	client internal.Loader[BlockReader]
	cfg    config.Config
	lgr    *zap.SugaredLogger

	price uint64
	lock  sync.RWMutex
}

// NewBlockHistoryEstimator creates a fee estimator that parses historical
// fees from fetched blocks.
// Note: getRecentPrioritizationFees is not used because it provides the lowest prioritization fee for an included tx in the block
// which is not effective enough for increasing the chances of block inclusion
func NewBlockHistoryEstimator(c internal.Loader[BlockReader], cfg config.Config, lgr *zap.SugaredLogger) (*blockHistoryEstimator, error) {
	if cfg.BlockHistorySize() < 1 {
		return nil, fmt.Errorf("invalid block history depth: %d", cfg.BlockHistorySize())
	}

	return &blockHistoryEstimator{
		chStop: make(chan struct{}),
		client: c,
		cfg:    cfg,
		lgr:    lgr,
		price:  cfg.ComputeUnitPriceDefault(), // use default value
	}, nil
}

func (bhe *blockHistoryEstimator) Start(_ context.Context) error {
	bhe.startOnce.Do(func() {
		bhe.done.Add(1)
		go bhe.run()
		bhe.lgr.Debugw("BlockHistoryEstimator: started")
	})
	return nil
}

func (bhe *blockHistoryEstimator) run() {
	defer bhe.done.Done()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-bhe.chStop
		cancel()
	}()

	ticker := time.NewTicker(bhe.cfg.BlockHistoryPollPeriod())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bhe.calculatePrice(ctx); err != nil {
				bhe.lgr.Errorw("BlockHistoryEstimator: failed to fetch price", "error", err)
			}
		}
	}
}

func (bhe *blockHistoryEstimator) Close() error {
	close(bhe.chStop)
	bhe.done.Wait()
	bhe.lgr.Debugw("BlockHistoryEstimator: stopped")
	return nil
}

func (bhe *blockHistoryEstimator) BaseComputeUnitPrice() uint64 {
	price := bhe.readRawPrice()
	if price >= bhe.cfg.ComputeUnitPriceMin() && price <= bhe.cfg.ComputeUnitPriceMax() {
		return price
	}

	if price < bhe.cfg.ComputeUnitPriceMin() {
		bhe.lgr.Warnw("BlockHistoryEstimator: estimation below minimum consider lowering ComputeUnitPriceMin", "min", bhe.cfg.ComputeUnitPriceMin(), "calculated", price)
		return bhe.cfg.ComputeUnitPriceMin()
	}

	bhe.lgr.Warnw("BlockHistoryEstimator: estimation above maximum consider increasing ComputeUnitPriceMax", "max", bhe.cfg.ComputeUnitPriceMax(), "calculated", price)
	return bhe.cfg.ComputeUnitPriceMax()
}

func (bhe *blockHistoryEstimator) readRawPrice() uint64 {
	bhe.lock.RLock()
	defer bhe.lock.RUnlock()
	return bhe.price
}

func (bhe *blockHistoryEstimator) calculatePrice(ctx context.Context) error {
	// fetch client
	c, err := bhe.client.Get()
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	// get latest block based on configured confirmation
	block, err := c.GetLatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to get block: %w", err)
	}

	// parse block for fee data
	feeData, err := ParseBlock(block)
	if err != nil {
		return fmt.Errorf("failed to parse block: %w", err)
	}

	if len(feeData.Prices) == 0 {
		return errNoComputeUnitPriceCollected
	}

	// take median of returned fee values
	v := median(feeData.Prices)

	// set data
	bhe.lock.Lock()
	bhe.price = uint64(v) // ComputeUnitPrice is uint64 underneath
	bhe.lock.Unlock()
	bhe.lgr.Debugw("BlockHistoryEstimator: updated",
		"computeUnitPrice", v,
		"blockhash", block.Blockhash,
		"slot", block.ParentSlot+1,
		"count", len(feeData.Prices),
	)

	return nil
}

// ParseBlock extracts the compute unit prices paid by the block's
// transactions.
func ParseBlock(block *rpc.GetBlockResult) (BlockFeeData, error) {
	var out BlockFeeData
	if block == nil {
		return out, fmt.Errorf("nil block")
	}

	for _, txWithMeta := range block.Transactions {
		tx, err := txWithMeta.GetTransaction()
		if err != nil || tx == nil {
			continue // not all transactions decode (or are relevant), skip
		}

		// find ComputeBudget program index in the account keys
		budgetIdx := -1
		for i, key := range tx.Message.AccountKeys {
			if key.Equals(ComputeBudgetProgram) {
				budgetIdx = i
				break
			}
		}
		if budgetIdx == -1 {
			continue
		}

		for _, ix := range tx.Message.Instructions {
			if int(ix.ProgramIDIndex) != budgetIdx {
				continue
			}
			price, parseErr := ParsePrice(ix.Data)
			if parseErr != nil {
				continue // unit limit / heap frame instructions
			}
			out.Prices = append(out.Prices, price)
		}
	}
	return out, nil
}

func median(prices []ComputeUnitPrice) ComputeUnitPrice {
	sorted := make([]ComputeUnitPrice, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}
