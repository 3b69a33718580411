package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/internal/server"
	"barter_market/pkg/errcodes"
	"barter_market/pkg/middlewarex"
	"barter_market/pkg/rest"
	"barter_market/pkg/tests"
)

type fakeProfitService struct {
	barters []entity.Barter
	profit  []entity.ProfitItem
	err     error
}

func (f fakeProfitService) Barters(context.Context) ([]entity.Barter, error) {
	return f.barters, f.err
}

func (f fakeProfitService) Profit(context.Context) ([]entity.ProfitItem, error) {
	return f.profit, f.err
}

type fakeItemRepository map[string]entity.Item

func (f fakeItemRepository) GetByID(_ context.Context, id string) (*entity.Item, error) {
	item, ok := f[id]
	if !ok {
		return nil, domain.NewError(errcodes.ItemNotFound, "item not found")
	}
	return &item, nil
}

type fakeTrigger struct {
	accept bool
	calls  int
}

func (f *fakeTrigger) TriggerNow(context.Context) bool {
	f.calls++
	return f.accept
}

type fakeEnqueuer struct {
	accept bool
	err    error
}

func (f fakeEnqueuer) Enqueue(context.Context) (bool, error) {
	return f.accept, f.err
}

func newTestServer(t *testing.T, s server.Server) tests.APIClient {
	t.Helper()

	r := chi.NewRouter()
	r.Use(middlewarex.TraceID)
	s.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func newServer(profit fakeProfitService, items fakeItemRepository, trigger *fakeTrigger) server.Server {
	if trigger == nil {
		trigger = &fakeTrigger{}
	}
	return server.NewServer(
		server.NewBarterServer(profit),
		server.NewItemServer(items),
		server.NewSyncServer(trigger),
	)
}

func TestGetV1Profit(t *testing.T) {
	rq := require.New(t)

	sell := entity.ProfitLine{Item: entity.Item{ID: "y", Name: "Y"}, Count: 1, Price: decimal.NewFromInt(300), Vendor: "Therapist"}
	api := newTestServer(t, newServer(fakeProfitService{
		profit: []entity.ProfitItem{{
			BarterID: "b1",
			Trader:   "Therapist",
			Level:    2,
			BuyItems: []entity.ProfitLine{
				{Item: entity.Item{ID: "x", Name: "X"}, Count: 1.5, Price: decimal.NewFromInt(150), Vendor: "Prapor"},
			},
			SellItem:  &sell,
			BuyPrice:  decimal.NewFromInt(150),
			SellPrice: decimal.NewFromInt(300),
			Profit:    decimal.NewFromInt(150),
		}},
	}, nil, nil))

	var resp []rest.ProfitItem
	httpResp, err := api.Get(context.Background(), "/v1/profit", nil, &resp, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, httpResp.StatusCode)
	rq.Len(resp, 1)
	rq.Equal("b1", resp[0].BarterID)
	rq.Equal("150.00", resp[0].Profit)
	rq.Equal("300.00", resp[0].SellPrice)
	rq.Len(resp[0].BuyItems, 1)
	rq.Equal("x", resp[0].BuyItems[0].ItemID)
	rq.InDelta(1.5, resp[0].BuyItems[0].Count, 1e-9)
	rq.NotNil(resp[0].SellItem)
	rq.Equal("Therapist", resp[0].SellItem.Vendor)
}

func TestGetV1Barters(t *testing.T) {
	rq := require.New(t)

	api := newTestServer(t, newServer(fakeProfitService{
		barters: []entity.Barter{{
			ID:     "b1",
			Trader: "Prapor",
			Level:  1,
			RequiredItems: []entity.BarterItem{{
				Item: entity.Item{ID: "x", BuyFor: []entity.ItemPrice{
					{Vendor: entity.Vendor{Name: "Prapor"}, PriceRUB: 100, Currency: "RUB", Price: 100},
				}},
				Count: 2,
			}},
		}},
	}, nil, nil))

	var resp []rest.Barter
	_, err := api.Get(context.Background(), "/v1/barters", nil, &resp, nil)
	rq.NoError(err)
	rq.Len(resp, 1)
	rq.Equal("Prapor", resp[0].Trader)
	rq.Equal(int64(100), resp[0].RequiredItems[0].Item.BuyFor[0].PriceRUB)
	rq.Empty(resp[0].RewardItems)
}

func TestErrorMapping(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		profit   fakeProfitService
		endpoint string
		status   int
		code     string
	}{
		{
			name:     "Upstream failure is 502",
			profit:   fakeProfitService{err: domain.NewExternalSourceError("barters query returned errors", errors.New("boom"))},
			endpoint: "/v1/profit",
			status:   http.StatusBadGateway,
			code:     string(errcodes.ExternalSourceError),
		},
		{
			name:     "Unknown error is 500",
			profit:   fakeProfitService{err: errors.New("boom")},
			endpoint: "/v1/barters",
			status:   http.StatusInternalServerError,
		},
		{
			name:     "Missing item is 404",
			endpoint: "/v1/items/unknown",
			status:   http.StatusNotFound,
			code:     string(errcodes.ItemNotFound),
		},
		{
			name:     "Invalid item id is 400",
			endpoint: "/v1/items/bad%20id",
			status:   http.StatusBadRequest,
			code:     string(errcodes.InvalidItemID),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			api := newTestServer(t, newServer(tc.profit, fakeItemRepository{}, nil))

			var errResp rest.Error
			httpResp, err := api.Get(context.Background(), tc.endpoint, nil, nil, &errResp)
			rq.NoError(err)
			rq.Equal(tc.status, httpResp.StatusCode)
			if tc.code != "" {
				rq.Equal(tc.code, string(errResp.Code))
			}
			rq.NotEmpty(errResp.SupportID)
			rq.Equal(httpResp.Header.Get("X-Trace-Id"), errResp.SupportID)
		})
	}
}

func TestGetV1Item(t *testing.T) {
	rq := require.New(t)

	currency := "5449016a4bdc2d6f028b456f"
	api := newTestServer(t, newServer(fakeProfitService{}, fakeItemRepository{
		"a": {
			ID:   "a",
			Name: "A",
			SellFor: []entity.ItemPrice{
				{Vendor: entity.Vendor{Name: "Flea Market", NormalizedName: "flea-market"}, PriceRUB: 10, CurrencyItemID: &currency},
			},
		},
	}, nil))

	var resp rest.Item
	httpResp, err := api.Get(context.Background(), "/v1/items/a", nil, &resp, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, httpResp.StatusCode)
	rq.Equal("A", resp.Name)
	rq.Empty(resp.BuyFor)
	rq.Len(resp.SellFor, 1)
	rq.Equal("flea-market", resp.SellFor[0].VendorNormalizedName)
	rq.Equal(currency, *resp.SellFor[0].CurrencyItemID)
}

func TestPostV1Sync(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		trigger  *fakeTrigger
		enqueuer *fakeEnqueuer
		status   int
		accepted bool
	}{
		{name: "Started in process", trigger: &fakeTrigger{accept: true}, status: http.StatusAccepted, accepted: true},
		{name: "Already running", trigger: &fakeTrigger{accept: false}, status: http.StatusAccepted, accepted: false},
		{name: "Enqueued", trigger: &fakeTrigger{}, enqueuer: &fakeEnqueuer{accept: true}, status: http.StatusAccepted, accepted: true},
		{name: "Duplicate task", trigger: &fakeTrigger{}, enqueuer: &fakeEnqueuer{accept: false}, status: http.StatusAccepted, accepted: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			syncServer := server.NewSyncServer(tc.trigger)
			if tc.enqueuer != nil {
				syncServer = syncServer.WithEnqueuer(*tc.enqueuer)
			}

			api := newTestServer(t, server.NewServer(
				server.NewBarterServer(fakeProfitService{}),
				server.NewItemServer(fakeItemRepository{}),
				syncServer,
			))

			var resp rest.SyncResponse
			httpResp, err := api.Post(context.Background(), "/v1/sync", nil, struct{}{}, &resp, nil)
			rq.NoError(err)
			rq.Equal(tc.status, httpResp.StatusCode)
			rq.Equal(tc.accepted, resp.Accepted)

			if tc.enqueuer != nil {
				rq.Zero(tc.trigger.calls)
			} else {
				rq.Equal(1, tc.trigger.calls)
			}
		})
	}
}

func TestPostV1SyncValidation(t *testing.T) {
	rq := require.New(t)

	trigger := &fakeTrigger{accept: true}
	api := newTestServer(t, newServer(fakeProfitService{}, fakeItemRepository{}, trigger))

	var resp rest.SyncResponse
	httpResp, err := api.Post(context.Background(), "/v1/sync", nil, rest.SyncRequest{Reason: "prices changed"}, &resp, nil)
	rq.NoError(err)
	rq.Equal(http.StatusAccepted, httpResp.StatusCode)
	rq.True(resp.Accepted)

	var errResp rest.Error
	httpResp, err = api.PostJSON(context.Background(), "/v1/sync", nil, `{"reason":`, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, httpResp.StatusCode)
	rq.Equal(string(errcodes.ValidationError), string(errResp.Code))
	rq.Equal(1, trigger.calls)
}

func TestSyncEnqueueErrorIs500(t *testing.T) {
	rq := require.New(t)

	syncServer := server.NewSyncServer(&fakeTrigger{}).WithEnqueuer(fakeEnqueuer{err: errors.New("redis down")})
	api := newTestServer(t, server.NewServer(
		server.NewBarterServer(fakeProfitService{}),
		server.NewItemServer(fakeItemRepository{}),
		syncServer,
	))

	httpResp, err := api.Post(context.Background(), "/v1/sync", nil, struct{}{}, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusInternalServerError, httpResp.StatusCode)

}

func TestEmptyListsAreJSONArrays(t *testing.T) {
	rq := require.New(t)

	api := newTestServer(t, newServer(fakeProfitService{
		barters: []entity.Barter{{ID: "b1", RequiredItems: []entity.BarterItem{{Item: entity.Item{ID: "x"}}}}},
	}, nil, nil))

	var resp []map[string]any
	_, err := api.Get(context.Background(), "/v1/barters", nil, &resp, nil)
	rq.NoError(err)
	rq.Len(resp, 1)

	rq.NotNil(resp[0]["rewardItems"])
	rq.Empty(resp[0]["rewardItems"])

	required, ok := resp[0]["requiredItems"].([]any)
	rq.True(ok)
	item := required[0].(map[string]any)["item"].(map[string]any)
	rq.NotNil(item["buyFor"])
	rq.Empty(item["sellFor"])
	rq.NotNil(item["sellFor"])
}
