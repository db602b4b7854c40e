package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

// SubscribeAccount streams raw data updates for a single account over the
// websocket connection and invokes handler for every notification. The
// returned function cancels the subscription; the stream also ends when ctx
// is done.
func SubscribeAccount(
	ctx context.Context,
	wsClient *ws.Client,
	account solana.PublicKey,
	commitment rpc.CommitmentType,
	lggr *zap.SugaredLogger,
	handler func(data []byte, slot uint64),
) (func(), error) {
	sub, err := wsClient.AccountSubscribeWithOpts(account, commitment, solana.EncodingBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to account %s: %w", account, err)
	}

	go func() {
		defer sub.Unsubscribe()
		for {
			res, recvErr := sub.Recv(ctx)
			if recvErr != nil {
				if ctx.Err() != nil || errors.Is(recvErr, context.Canceled) {
					return
				}
				lggr.Warnw("account subscription closed", "account", account.String(), "error", recvErr)
				return
			}
			if res == nil || res.Value.Data == nil {
				continue
			}
			handler(res.Value.Data.GetBinary(), res.Context.Slot)
		}
	}()

	return sub.Unsubscribe, nil
}
