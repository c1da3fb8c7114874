package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/config"
	"github.com/datacentral/retail-etl/internal/errs"
)

// storeNumberPlaceholder is substituted into the store-details
// endpoint template for each request.
const storeNumberPlaceholder = "{store_number}"

// StoresClient talks to the stores REST API.
//
// Requests carry the API key header and are retried with backoff on
// transport errors and 5xx responses (resty's default retry policy).
// Responses are decoded as JSON regardless of the Content-Type the
// server reports, since the API does not set one reliably.
type StoresClient struct {
	http           *resty.Client
	numberEndpoint string
	detailEndpoint string
	log            *zerolog.Logger
}

// StoreFetchError records a single store number that could not be
// fetched. Per-store failures do not abort the batch.
type StoreFetchError struct {
	StoreNumber int
	Err         error
}

// StoreCache is implemented by the optional Redis cache so that
// interrupted extractions resume instead of refetching every store.
type StoreCache interface {
	Get(ctx context.Context, storeNumber int) (*StoreRecord, bool)
	Put(ctx context.Context, storeNumber int, record *StoreRecord)
}

// NewStoresClient builds a client from API config.
func NewStoresClient(cfg config.APIConfig, logger *zerolog.Logger) *StoresClient {
	client := resty.New().
		SetHeader("x-api-key", cfg.Key).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	return &StoresClient{
		http:           client,
		numberEndpoint: cfg.NumberStoresEndpoint,
		detailEndpoint: cfg.StoreDetailsEndpoint,
		log:            logger,
	}
}

// CountStores retrieves the total number of stores from the API.
func (c *StoresClient) CountStores(ctx context.Context) (int, error) {
	var payload struct {
		NumberStores int `json:"number_stores"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		ForceContentType("application/json").
		Get(c.numberEndpoint)
	if err != nil {
		return 0, errs.NewExtractError("stores", "", "requesting store count", err)
	}
	if resp.IsError() {
		return 0, errs.NewExtractError("stores", "STORE_COUNT_FAILED",
			fmt.Sprintf("store count endpoint returned %s", resp.Status()), nil)
	}
	if payload.NumberStores <= 0 {
		return 0, errs.NewExtractError("stores", "STORE_COUNT_FAILED",
			"store count endpoint returned no stores", nil)
	}

	c.log.Info().Int("number_stores", payload.NumberStores).Msg("retrieved store count")
	return payload.NumberStores, nil
}

// FetchStore retrieves a single store record by number.
func (c *StoresClient) FetchStore(ctx context.Context, storeNumber int) (*StoreRecord, error) {
	url := strings.Replace(c.detailEndpoint, storeNumberPlaceholder, strconv.Itoa(storeNumber), 1)

	record := &StoreRecord{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(record).
		ForceContentType("application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("requesting store %d: %w", storeNumber, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("store %d endpoint returned %s", storeNumber, resp.Status())
	}

	return record, nil
}

// FetchAll retrieves every store record, store numbers 1..count.
//
// Per-store failures are collected and returned alongside the
// successful records; only context cancellation aborts the loop.
// When a cache is supplied, cached records are reused and fresh
// fetches are written back.
func (c *StoresClient) FetchAll(ctx context.Context, count int, cache StoreCache) ([]StoreRecord, []StoreFetchError, error) {
	records := make([]StoreRecord, 0, count)
	var fetchErrors []StoreFetchError

	for storeNumber := 1; storeNumber <= count; storeNumber++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, errs.NewExtractError("stores", "", "store extraction interrupted", err)
		}

		if cache != nil {
			if record, ok := cache.Get(ctx, storeNumber); ok {
				records = append(records, *record)
				continue
			}
		}

		record, err := c.FetchStore(ctx, storeNumber)
		if err != nil {
			c.log.Warn().Err(err).Int("store_number", storeNumber).Msg("failed to fetch store")
			fetchErrors = append(fetchErrors, StoreFetchError{StoreNumber: storeNumber, Err: err})
			continue
		}

		if cache != nil {
			cache.Put(ctx, storeNumber, record)
		}
		records = append(records, *record)
	}

	c.log.Info().
		Int("fetched", len(records)).
		Int("failed", len(fetchErrors)).
		Msg("retrieved store records")

	return records, fetchErrors, nil
}
