package profit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/internal/domain/service/profit"
)

type fetcherFunc func(ctx context.Context) ([]entity.Barter, error)

func (f fetcherFunc) FetchBarters(ctx context.Context) ([]entity.Barter, error) {
	return f(ctx)
}

func TestServiceProfit(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	calls := 0
	fetcher := fetcherFunc(func(context.Context) ([]entity.Barter, error) {
		calls++
		return []entity.Barter{
			barter("b",
				[]entity.BarterItem{buyItem("A", 2, offer("Prapor", 100))},
				sellItem("B", 1, offer("VendorX", 500), fleaOffer(900)),
			),
		}, nil
	})

	svc := profit.NewService(fetcher, profit.NewCalculator())

	items, err := svc.Profit(ctx)
	rq.NoError(err)
	rq.Len(items, 1)
	rq.Equal("300", items[0].Profit.String())

	_, err = svc.Profit(ctx)
	rq.NoError(err)
	rq.Equal(2, calls, "profit must not be cached")

	barters, err := svc.Barters(ctx)
	rq.NoError(err)
	rq.Len(barters, 1)
	rq.Equal(3, calls)
}

func TestServiceProfitFetchError(t *testing.T) {
	rq := require.New(t)

	upstreamErr := domain.NewExternalSourceError("graphql errors", errors.New("boom"))
	fetcher := fetcherFunc(func(context.Context) ([]entity.Barter, error) {
		return nil, upstreamErr
	})

	svc := profit.NewService(fetcher, profit.NewCalculator())

	items, err := svc.Profit(context.Background())
	rq.Nil(items)
	rq.ErrorIs(err, upstreamErr)
	rq.True(domain.IsExternalSourceError(err))

	barters, err := svc.Barters(context.Background())
	rq.Nil(barters)
	rq.True(domain.IsExternalSourceError(err))
}
