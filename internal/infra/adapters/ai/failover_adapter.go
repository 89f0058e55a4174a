package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"talkbill/internal/domain"
	"talkbill/internal/domain/ports/adapter"
)

var _ adapter.InferenceClient = (*FailoverAdapter)(nil)

// FailoverAdapter tries each configured provider in order and returns the
// first success. Provider-level failover is orthogonal to the retry policy
// the invoker applies on top of it.
type FailoverAdapter struct {
	chain []adapter.InferenceClient
}

func NewFailoverAdapter(chain ...adapter.InferenceClient) *FailoverAdapter {
	out := make([]adapter.InferenceClient, 0, len(chain))
	for _, c := range chain {
		if c != nil {
			out = append(out, c)
		}
	}
	return &FailoverAdapter{chain: out}
}

func (f *FailoverAdapter) Infer(ctx context.Context, req adapter.InferenceRequest) (json.RawMessage, error) {
	if len(f.chain) == 0 {
		return nil, fmt.Errorf("%w: no inference providers configured", domain.ErrInference)
	}
	var lastErr error
	for _, c := range f.chain {
		raw, err := c.Infer(ctx, req)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}
