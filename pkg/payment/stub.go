package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a no-op provider for development; every request succeeds.
type StubProvider struct{}

func (s *StubProvider) Collect(ctx context.Context, req CollectRequest) (*Response, error) {
	return &Response{
		Reference: fmt.Sprintf("stub_%d_%s", time.Now().UnixNano(), req.OrderID),
		Status:    "PENDING",
	}, nil
}

func (s *StubProvider) Disburse(ctx context.Context, req DisburseRequest) (*Response, error) {
	return &Response{
		Reference: fmt.Sprintf("stub_%d_%s", time.Now().UnixNano(), req.OrderID),
		Status:    "PENDING",
	}, nil
}

// IsStubReference reports whether a provider reference came from the stub.
func IsStubReference(ref string) bool {
	return strings.HasPrefix(ref, "stub_")
}
