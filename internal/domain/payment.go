package domain

// Payment tracks an order's total and its two half-payments.
type Payment struct {
	Total      float64     `json:"total" validate:"min=0"`
	FirstHalf  HalfPayment `json:"firstHalf"`
	SecondHalf HalfPayment `json:"secondHalf"`
}

type HalfPayment struct {
	Paid   bool     `json:"paid"`
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,min=0"`
}

// PaidAmount sums the paid halves. A paid half without an explicit amount
// counts as half of the total.
func (p Payment) PaidAmount() float64 {
	return p.FirstHalf.paid(p.Total) + p.SecondHalf.paid(p.Total)
}

func (h HalfPayment) paid(total float64) float64 {
	if !h.Paid {
		return 0
	}
	if h.Amount != nil {
		return *h.Amount
	}
	return total / 2
}

// PaymentSummary is the read-side rollup of one or more payments.
type PaymentSummary struct {
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	Remaining float64 `json:"remaining"`
}

// Add folds p into the summary; nil payments are skipped.
func (s *PaymentSummary) Add(p *Payment) {
	if p == nil {
		return
	}
	s.Total += p.Total
	s.Paid += p.PaidAmount()
	s.Remaining = s.Total - s.Paid
	if s.Remaining < 0 {
		s.Remaining = 0
	}
}
