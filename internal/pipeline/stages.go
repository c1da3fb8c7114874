package pipeline

import (
	"context"

	"github.com/datacentral/retail-etl/internal/clean"
	"github.com/datacentral/retail-etl/internal/extract"
	"github.com/datacentral/retail-etl/internal/load"
	"github.com/datacentral/retail-etl/internal/validation"
)

// Re-running a dataset replaces the target table contents, matching
// the legacy uploader's default. Orders append-vs-replace is handled
// the same way: a replace re-run converges to the cleaned source.
const loadMode = load.Replace

// RunUsers runs the legacy_users -> dim_users stage.
func (r *Runner) RunUsers(ctx context.Context) error {
	raw, err := r.rds.ReadUsers(ctx)
	if err != nil {
		return err
	}

	users, dropped := clean.Users(raw)
	r.logAttrition("users", len(raw), dropped)

	if err := validation.Records(r.gate, "users", users); err != nil {
		return err
	}

	_, err = load.Run(ctx, r.Target.Pool, load.UsersSpec, users, loadMode, r.Logger)
	return err
}

// RunCards runs the card-details PDF -> dim_card_details stage.
func (r *Runner) RunCards(ctx context.Context) error {
	raw, err := r.pdf.RetrieveCardDetails(ctx, r.Config.PDF.CardDetailsURL)
	if err != nil {
		return err
	}

	cards, dropped := clean.Cards(raw)
	r.logAttrition("cards", len(raw), dropped)

	if err := validation.Records(r.gate, "cards", cards); err != nil {
		return err
	}

	_, err = load.Run(ctx, r.Target.Pool, load.CardsSpec, cards, loadMode, r.Logger)
	return err
}

// RunStores runs the stores API -> dim_store_details stage.
//
// Per-store fetch failures are logged and tolerated; the dataset
// only fails when the API is entirely unreachable.
func (r *Runner) RunStores(ctx context.Context) error {
	count, err := r.stores.CountStores(ctx)
	if err != nil {
		return err
	}

	var storeCache extract.StoreCache
	if r.cache != nil {
		storeCache = r.cache
	}

	raw, fetchErrors, err := r.stores.FetchAll(ctx, count, storeCache)
	if err != nil {
		return err
	}
	if len(fetchErrors) > 0 {
		r.Logger.Warn().Int("failed_stores", len(fetchErrors)).Msg("some stores could not be fetched")
	}

	stores, dropped := clean.Stores(raw)
	r.logAttrition("stores", len(raw), dropped)

	if err := validation.Records(r.gate, "stores", stores); err != nil {
		return err
	}

	_, err = load.Run(ctx, r.Target.Pool, load.StoresSpec, stores, loadMode, r.Logger)
	return err
}

// RunProducts runs the products CSV -> dim_products stage.
func (r *Runner) RunProducts(ctx context.Context) error {
	raw, err := r.s3.RetrieveProducts(ctx, r.Config.S3.ProductsAddress)
	if err != nil {
		return err
	}

	products, dropped := clean.Products(raw)
	r.logAttrition("products", len(raw), dropped)

	if err := validation.Records(r.gate, "products", products); err != nil {
		return err
	}

	_, err = load.Run(ctx, r.Target.Pool, load.ProductsSpec, products, loadMode, r.Logger)
	return err
}

// RunDateEvents runs the date-details JSON -> dim_date_times stage.
func (r *Runner) RunDateEvents(ctx context.Context) error {
	raw, err := r.s3.RetrieveDateEvents(ctx, r.Config.S3.DateEventsAddress)
	if err != nil {
		return err
	}

	events, dropped := clean.DateEvents(raw)
	r.logAttrition("date_events", len(raw), dropped)

	if err := validation.Records(r.gate, "date_events", events); err != nil {
		return err
	}

	_, err = load.Run(ctx, r.Target.Pool, load.DateEventsSpec, events, loadMode, r.Logger)
	return err
}

// RunOrders runs the orders_table -> orders_table stage. Must run
// after the dimension stages so its foreign keys resolve.
//
// The dimension cleaners drop rows, so orders referencing those rows
// carry well-formed keys that no longer exist; they are filtered
// against the loaded key sets rather than left to violate the
// foreign keys mid-copy.
func (r *Runner) RunOrders(ctx context.Context) error {
	raw, err := r.rds.ReadOrders(ctx)
	if err != nil {
		return err
	}

	orders, dropped := clean.Orders(raw)
	r.logAttrition("orders", len(raw), dropped)

	if err := validation.Records(r.gate, "orders", orders); err != nil {
		return err
	}

	refs, err := r.dimensionKeys(ctx)
	if err != nil {
		return err
	}
	orders, droppedRefs := clean.FilterOrderRefs(orders, refs)
	if droppedRefs > 0 {
		r.Logger.Warn().
			Int("dropped", droppedRefs).
			Msg("dropped orders referencing dimension rows that were cleaned away")
	}

	_, err = load.Run(ctx, r.Target.Pool, load.OrdersSpec, orders, loadMode, r.Logger)
	return err
}

// dimensionKeys reads the loaded key set of every dimension table.
func (r *Runner) dimensionKeys(ctx context.Context) (clean.OrderRefs, error) {
	refs := clean.OrderRefs{}
	for _, d := range []struct {
		table, column string
		dst           *map[string]struct{}
	}{
		{"dim_users", "user_uuid", &refs.Users},
		{"dim_card_details", "card_number", &refs.Cards},
		{"dim_store_details", "store_code", &refs.Stores},
		{"dim_products", "product_code", &refs.Products},
		{"dim_date_times", "date_uuid", &refs.Dates},
	} {
		set, err := load.KeySet(ctx, r.Target.Pool, d.table, d.column)
		if err != nil {
			return clean.OrderRefs{}, err
		}
		*d.dst = set
	}
	return refs, nil
}

func (r *Runner) logAttrition(dataset string, extracted, dropped int) {
	r.Logger.Info().
		Str("dataset", dataset).
		Int("extracted", extracted).
		Int("dropped", dropped).
		Int("kept", extracted-dropped).
		Msg("cleaned records")
}
