package calls

import (
	"context"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/value"
)

// TimeCall reads the latest block's timestamp for Chain, applying the same
// endpoint-failover policy as RPCCall.
type TimeCall struct {
	Chain int64
}

// Execute returns the latest block timestamp as an integer Value.
func (c TimeCall) Execute(ctx context.Context, mgr *providers.Manager) (value.Value, error) {
	var result value.Value
	err := mgr.ForEachEndpoint(c.Chain, func(rpcURL string) error {
		client, dialErr := mgr.ClientFor(ctx, rpcURL)
		if dialErr != nil {
			return dialErr
		}
		header, headerErr := client.HeaderByNumber(ctx, nil)
		if headerErr != nil {
			return headerErr
		}
		result = value.Int(int64(header.Time))
		return nil
	})
	if err != nil {
		return value.Value{}, err
	}
	return result, nil
}
