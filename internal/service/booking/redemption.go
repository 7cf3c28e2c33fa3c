package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirinyoku/cinebook/internal/loyalty"
	"github.com/kirinyoku/cinebook/internal/metrics"
	"github.com/kirinyoku/cinebook/internal/pricing"
	"github.com/kirinyoku/cinebook/internal/repository"
)

// Redemption is the outcome of spending points on a concession product.
type Redemption struct {
	CustomerID    int64
	ProductID     int64
	Quantity      int
	PointsSpent   int64
	PointsBalance int64
}

// RedeemPointsForProduct spends a customer's points on qty units of a
// product. Stock is checked and deducted in the same unit of work as the
// points debit.
//
// Returns:
//   - error: ErrCustomerNotFound or ErrProductNotFound for unknown references.
//   - error: ErrOutOfStock, ErrProductNotRedeemable or pricing.ErrInsufficientPoints.
func (s *Service) RedeemPointsForProduct(
	ctx context.Context,
	customerID, productID int64,
	qty int,
) (*Redemption, error) {
	const op = "service.booking.RedeemPointsForProduct"

	if qty <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidQuantity)
	}

	var out *Redemption

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		customer, err := r.Catalog().LockCustomer(ctx, customerID)
		if err != nil {
			return notFound(err, ErrCustomerNotFound)
		}

		product, err := r.Inventory().Product(ctx, productID)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}

		if product.PointsPrice <= 0 {
			return ErrProductNotRedeemable
		}

		ok, err := r.Inventory().CheckAvailability(ctx, productID, qty)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if !ok {
			return ErrOutOfStock
		}

		cost := product.PointsPrice * int64(qty)
		if !loyalty.TryRedeemPoints(customer, cost) {
			return pricing.ErrInsufficientPoints
		}

		if err := r.Inventory().Deduct(ctx, productID, qty); err != nil {
			if errors.Is(err, repository.ErrOutOfStock) {
				return ErrOutOfStock
			}
			return err
		}

		if err := r.Catalog().SaveCustomerPoints(ctx, customer); err != nil {
			return err
		}

		out = &Redemption{
			CustomerID:    customer.ID,
			ProductID:     product.ID,
			Quantity:      qty,
			PointsSpent:   cost,
			PointsBalance: customer.Points,
		}

		after(func(context.Context) {
			metrics.PointsRedeemed.WithLabelValues("product").Add(float64(cost))
		})

		return nil
	})
	if err != nil {
		return nil, translateCommitErr(op, err)
	}

	s.log.Debug("points redeemed",
		slog.Int64("customer_id", customerID),
		slog.Int64("product_id", productID),
		slog.Int64("points", out.PointsSpent),
	)

	return out, nil
}

