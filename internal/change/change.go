package change

import (
	"fmt"

	"github.com/kirinyoku/cinebook/internal/domain"
)

// Denominations in cents, largest first. The 1-cent coin guarantees every
// amount decomposes exactly.
var Denominations = []int64{
	20000, 10000, 5000, 2000, 1000, 500, 200, 100,
	50, 25, 10, 5, 1,
}

type Result struct {
	PaidCents   int64
	ChangeCents int64
	Counts      map[int64]int
}

// Compute breaks paid-total down greedily into Denominations.
func Compute(totalCents, paidCents int64) (Result, error) {
	const op = "change.Compute"

	if totalCents < 0 || paidCents < 0 {
		return Result{}, fmt.Errorf("%s: %w: negative amount", op, domain.ErrInvalidInput)
	}

	if paidCents < totalCents {
		return Result{}, fmt.Errorf(
			"%s: %w: paid %d is less than total %d",
			op, domain.ErrInvalidInput, paidCents, totalCents,
		)
	}

	res := Result{
		PaidCents:   paidCents,
		ChangeCents: paidCents - totalCents,
		Counts:      map[int64]int{},
	}

	remaining := res.ChangeCents
	for _, d := range Denominations {
		if remaining < d {
			continue
		}
		res.Counts[d] = int(remaining / d)
		remaining %= d
	}

	return res, nil
}

// ForMethod treats every non-cash method as exact payment.
func ForMethod(method domain.PaymentMethod, totalCents, paidCents int64) (Result, error) {
	if method != domain.PayCash {
		return Result{PaidCents: totalCents, Counts: map[int64]int{}}, nil
	}
	return Compute(totalCents, paidCents)
}

// Sum reconstructs the amount a breakdown represents.
func Sum(counts map[int64]int) int64 {
	var total int64
	for d, n := range counts {
		total += d * int64(n)
	}
	return total
}
