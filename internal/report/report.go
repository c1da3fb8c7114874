// Package report runs the fixed analytical query suite against the
// loaded star schema and renders the results as terminal tables.
package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/datacentral/retail-etl/internal/errs"
)

// Table is a rendered-ready query result.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Report is one named analytical query.
type Report struct {
	Name  string
	Title string
	run   func(ctx context.Context, pool *pgxpool.Pool) (*Table, error)
}

// Run executes the report against the target database.
func (r Report) Run(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	table, err := r.run(ctx, pool)
	if err != nil {
		return nil, errs.NewReportError(r.Name, "running analytical query", err)
	}
	return table, nil
}

// All returns the report suite in its fixed order.
func All() []Report {
	return []Report{
		{Name: "stores-per-country", Title: "Operational stores per country", run: runStoresPerCountry},
		{Name: "top-localities", Title: "Localities with the most stores", run: runTopLocalities},
		{Name: "monthly-sales", Title: "Months with the largest sales", run: runMonthlySales},
		{Name: "online-offline", Title: "Online vs offline sales", run: runOnlineOffline},
		{Name: "store-type-share", Title: "Percentage of sales by store type", run: runStoreTypePercentage},
		{Name: "best-months", Title: "Highest cost of sales by month and year", run: runBestMonths},
		{Name: "staff-headcount", Title: "Staff headcount per country", run: runStaffHeadcount},
		{Name: "german-sales", Title: "Sales by German store type", run: runGermanSales},
		{Name: "sale-intervals", Title: "Average time between sales per year", run: runSaleIntervals},
	}
}

// ByName looks a report up by its CLI name.
func ByName(name string) (Report, bool) {
	for _, r := range All() {
		if r.Name == name {
			return r, true
		}
	}
	return Report{}, false
}

// collect executes a query and maps the rows onto R by column name.
func collect[R any](ctx context.Context, pool *pgxpool.Pool, query string) ([]R, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[R])
}

func runStoresPerCountry(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		Country       string `db:"country"`
		TotalNoStores int64  `db:"total_no_stores"`
	}
	results, err := collect[row](ctx, pool, storesPerCountryQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{Title: "Operational stores per country", Headers: []string{"country", "total_no_stores"}}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{r.Country, strconv.FormatInt(r.TotalNoStores, 10)})
	}
	return table, nil
}

func runTopLocalities(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		Locality      string `db:"locality"`
		TotalNoStores int64  `db:"total_no_stores"`
	}
	results, err := collect[row](ctx, pool, topLocalitiesQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{Title: "Localities with the most stores", Headers: []string{"locality", "total_no_stores"}}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{r.Locality, strconv.FormatInt(r.TotalNoStores, 10)})
	}
	return table, nil
}

func runMonthlySales(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		TotalSales decimal.Decimal `db:"total_sales"`
		Month      int16           `db:"month"`
	}
	results, err := collect[row](ctx, pool, monthlySalesQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{Title: "Months with the largest sales", Headers: []string{"total_sales", "month"}}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{r.TotalSales.StringFixed(2), strconv.Itoa(int(r.Month))})
	}
	return table, nil
}

func runOnlineOffline(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		Location             string `db:"location"`
		NumbersOfSales       int64  `db:"numbers_of_sales"`
		ProductQuantityCount int64  `db:"product_quantity_count"`
	}
	results, err := collect[row](ctx, pool, onlineOfflineQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Title:   "Online vs offline sales",
		Headers: []string{"location", "numbers_of_sales", "product_quantity_count"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			r.Location,
			strconv.FormatInt(r.NumbersOfSales, 10),
			strconv.FormatInt(r.ProductQuantityCount, 10),
		})
	}
	return table, nil
}

func runStoreTypePercentage(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		StoreType       string          `db:"store_type"`
		TotalSales      decimal.Decimal `db:"total_sales"`
		PercentageTotal decimal.Decimal `db:"percentage_total"`
	}
	results, err := collect[row](ctx, pool, storeTypePercentageQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Title:   "Percentage of sales by store type",
		Headers: []string{"store_type", "total_sales", "percentage_total"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			r.StoreType,
			r.TotalSales.StringFixed(2),
			r.PercentageTotal.StringFixed(2),
		})
	}
	return table, nil
}

func runBestMonths(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		TotalSales decimal.Decimal `db:"total_sales"`
		Year       int16           `db:"year"`
		Month      int16           `db:"month"`
	}
	results, err := collect[row](ctx, pool, bestMonthsQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Title:   "Highest cost of sales by month and year",
		Headers: []string{"total_sales", "year", "month"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			r.TotalSales.StringFixed(2),
			strconv.Itoa(int(r.Year)),
			strconv.Itoa(int(r.Month)),
		})
	}
	return table, nil
}

func runStaffHeadcount(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		TotalStaffNumbers int64  `db:"total_staff_numbers"`
		CountryCode       string `db:"country_code"`
	}
	results, err := collect[row](ctx, pool, staffHeadcountQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Title:   "Staff headcount per country",
		Headers: []string{"total_staff_numbers", "country_code"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(r.TotalStaffNumbers, 10),
			r.CountryCode,
		})
	}
	return table, nil
}

func runGermanSales(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		TotalSales  decimal.Decimal `db:"total_sales"`
		StoreType   string          `db:"store_type"`
		CountryCode string          `db:"country_code"`
	}
	results, err := collect[row](ctx, pool, germanSalesQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Title:   "Sales by German store type",
		Headers: []string{"total_sales", "store_type", "country_code"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{r.TotalSales.StringFixed(2), r.StoreType, r.CountryCode})
	}
	return table, nil
}

func runSaleIntervals(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	type row struct {
		Year          int16   `db:"year"`
		AvgGapSeconds float64 `db:"avg_gap_seconds"`
	}
	results, err := collect[row](ctx, pool, saleIntervalsQuery)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Title:   "Average time between sales per year",
		Headers: []string{"year", "actual_time_taken"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(int(r.Year)),
			FormatInterval(r.AvgGapSeconds),
		})
	}
	return table, nil
}

// FormatInterval renders an average gap in seconds as an
// hours/minutes/seconds breakdown.
func FormatInterval(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("hours: %d, minutes: %d, seconds: %d, milliseconds: %d",
		hours, minutes, secs, millis)
}
