package payment

import "context"

// CollectRequest asks the aggregator to pull money from a member's mobile
// money account (TNM Mpamba / Airtel Money push prompt).
type CollectRequest struct {
	OrderID     string  // unique order id; echoed back in the webhook
	Amount      float64 // MWK
	Currency    string
	PhoneNumber string // e.g. 265991234567
	Description string
	CallbackURL string
}

// DisburseRequest sends money out to a recipient's mobile money account.
type DisburseRequest struct {
	OrderID     string
	Amount      float64 // MWK
	Currency    string
	PhoneNumber string
	Description string
	CallbackURL string
}

type Response struct {
	Reference string // provider transaction reference
	Status    string
}

type Provider interface {
	Collect(ctx context.Context, req CollectRequest) (*Response, error)
	Disburse(ctx context.Context, req DisburseRequest) (*Response, error)
}
