package tarkovdev

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/pkg/contextx"
	"barter_market/pkg/httpx"
	"barter_market/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
	logger = contextx.LoggerFromContextOrDefault           //nolint:gochecknoglobals
)

const (
	DefaultURL           = "https://api.tarkov.dev/graphql"
	DefaultRatePerSecond = 5
)

// Client ходит в GraphQL API tarkov.dev. Каждый вызов делает ровно один POST
// без повторов.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

type Option func(*Client)

// WithTimeout задаёт таймаут запроса, 0 отключает его.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit ограничивает исходящие запросы; rps <= 0 снимает ограничение.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := max(int(rps), 1)
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// NewClient создаёт клиента. По умолчанию запросы и ответы логируются через
// httpx.LoggingRoundTripper с маскированием чувствительных полей.
func NewClient(url string, logFieldMaxLen int, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}

	c := &Client{
		url: url,
		httpClient: &http.Client{
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
				httpx.WithLogFieldMaxLen(logFieldMaxLen),
			),
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRatePerSecond), DefaultRatePerSecond),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchItemCatalogue загружает все предметы с предложениями покупки и продажи.
func (c *Client) FetchItemCatalogue(ctx context.Context) (entity.ItemSnapshot, error) {
	var resp graphQLResponse[itemsData]
	if err := c.query(ctx, itemsQuery, &resp); err != nil {
		return entity.ItemSnapshot{}, err
	}

	if len(resp.Errors) > 0 {
		return entity.ItemSnapshot{}, domain.NewExternalSourceError(
			"items query returned errors", errors.New(resp.errorMessages()))
	}
	if resp.Data == nil || resp.Data.Items == nil {
		return entity.ItemSnapshot{}, domain.NewExternalSourceError(
			"items query returned no data", errors.New("data.items is missing"))
	}

	dtos := *resp.Data.Items
	snapshot := entity.ItemSnapshot{
		Items:     make([]entity.CatalogueItem, 0, len(dtos)),
		FetchedAt: c.now(),
	}
	for _, d := range dtos {
		snapshot.Items = append(snapshot.Items, d.toCatalogue())
	}

	return snapshot, nil
}

// FetchBarters загружает рецепты бартеров.
func (c *Client) FetchBarters(ctx context.Context) ([]entity.Barter, error) {
	var resp graphQLResponse[bartersData]
	if err := c.query(ctx, bartersQuery, &resp); err != nil {
		return nil, err
	}

	if len(resp.Errors) > 0 {
		return nil, domain.NewExternalSourceError(
			"barters query returned errors", errors.New(resp.errorMessages()))
	}
	if resp.Data == nil || resp.Data.Barters == nil {
		return nil, domain.NewExternalSourceError(
			"barters query returned no data", errors.New("data.barters is missing"))
	}

	dtos := *resp.Data.Barters
	barters := make([]entity.Barter, 0, len(dtos))
	for _, d := range dtos {
		barters = append(barters, d.toDomain())
	}

	return barters, nil
}

func (c *Client) query(ctx context.Context, query string, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limiter.Wait: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewExternalSourceError("graphql request failed", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger(ctx).Error("resp.Body.Close", logx.Error(err))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewExternalSourceError("read graphql response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.NewExternalSourceError(
			"graphql request failed",
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return domain.NewExternalSourceError("malformed graphql response", err)
	}

	return nil
}
