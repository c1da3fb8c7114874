package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacentral/retail-etl/internal/config"
)

// fakeStoreCache is an in-memory StoreCache for tests.
type fakeStoreCache struct {
	records map[int]*StoreRecord
	puts    int
}

func newFakeStoreCache() *fakeStoreCache {
	return &fakeStoreCache{records: make(map[int]*StoreRecord)}
}

func (c *fakeStoreCache) Get(_ context.Context, storeNumber int) (*StoreRecord, bool) {
	record, ok := c.records[storeNumber]
	return record, ok
}

func (c *fakeStoreCache) Put(_ context.Context, storeNumber int, record *StoreRecord) {
	c.records[storeNumber] = record
	c.puts++
}

// The test server never sets a Content-Type, like the real API; the
// client must still decode the JSON bodies.
func newStoresTestServer(t *testing.T, count int, failing map[int]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		if r.URL.Path == "/number_stores" {
			fmt.Fprintf(w, `{"statuscode": 200, "number_stores": %d}`, count)
			return
		}

		number := strings.TrimPrefix(r.URL.Path, "/store_details/")
		if failing[atoi(number)] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"store_code": "ST-%s", "staff_numbers": "12", "opening_date": "2010-01-01",
			"store_type": "Local", "country_code": "GB", "continent": "Europe"}`, number)
	}))
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func testStoresClient(serverURL string) *StoresClient {
	log := zerolog.Nop()
	return NewStoresClient(config.APIConfig{
		Key:                  "test-key",
		NumberStoresEndpoint: serverURL + "/number_stores",
		StoreDetailsEndpoint: serverURL + "/store_details/{store_number}",
		RetryCount:           1,
		TimeoutSeconds:       5,
	}, &log)
}

func TestCountStores(t *testing.T) {
	server := newStoresTestServer(t, 4, nil)
	defer server.Close()

	count, err := testStoresClient(server.URL).CountStores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestFetchAllCollectsPerStoreErrors(t *testing.T) {
	server := newStoresTestServer(t, 4, map[int]bool{3: true})
	defer server.Close()

	records, fetchErrors, err := testStoresClient(server.URL).FetchAll(context.Background(), 4, nil)
	require.NoError(t, err)

	assert.Len(t, records, 3, "failed store should be skipped, not abort the batch")
	require.Len(t, fetchErrors, 1)
	assert.Equal(t, 3, fetchErrors[0].StoreNumber)
	assert.Equal(t, "ST-1", records[0].StoreCode)
}

func TestFetchAllUsesCache(t *testing.T) {
	server := newStoresTestServer(t, 3, nil)
	defer server.Close()

	cache := newFakeStoreCache()
	cache.records[2] = &StoreRecord{StoreCode: "CACHED-2"}

	records, fetchErrors, err := testStoresClient(server.URL).FetchAll(context.Background(), 3, cache)
	require.NoError(t, err)
	require.Empty(t, fetchErrors)
	require.Len(t, records, 3)

	assert.Equal(t, "CACHED-2", records[1].StoreCode, "cached record should be reused")
	assert.Equal(t, 2, cache.puts, "fresh fetches should be written back")
}

func TestFetchAllStopsOnCancelledContext(t *testing.T) {
	server := newStoresTestServer(t, 3, nil)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := testStoresClient(server.URL).FetchAll(ctx, 3, nil)
	assert.Error(t, err)
}
