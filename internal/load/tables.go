package load

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/datacentral/retail-etl/internal/clean"
)

// Table specs for the target star schema. Column order here is the
// row order produced by each Row function; they must stay in sync.

// UsersSpec loads cleaned users into dim_users.
var UsersSpec = TableSpec[clean.User]{
	Dataset: "users",
	Table:   "dim_users",
	Columns: []string{
		"user_uuid", "first_name", "last_name", "date_of_birth", "company",
		"email_address", "address", "country", "country_code", "phone_number",
		"join_date",
	},
	Row: func(u clean.User) []any {
		return []any{
			u.UserUUID, u.FirstName, u.LastName, u.DateOfBirth, u.Company,
			u.EmailAddress, u.Address, u.Country, u.CountryCode, u.PhoneNumber,
			u.JoinDate,
		}
	},
}

// CardsSpec loads cleaned cards into dim_card_details.
var CardsSpec = TableSpec[clean.Card]{
	Dataset: "cards",
	Table:   "dim_card_details",
	Columns: []string{
		"card_number", "expiry_date", "card_provider", "date_payment_confirmed",
	},
	Row: func(c clean.Card) []any {
		return []any{c.CardNumber, c.ExpiryDate, c.CardProvider, c.DatePaymentConfirmed}
	},
}

// StoresSpec loads cleaned stores into dim_store_details.
var StoresSpec = TableSpec[clean.Store]{
	Dataset: "stores",
	Table:   "dim_store_details",
	Columns: []string{
		"store_code", "address", "longitude", "latitude", "locality",
		"staff_numbers", "opening_date", "store_type", "country_code", "continent",
	},
	Row: func(s clean.Store) []any {
		return []any{
			s.StoreCode, s.Address, s.Longitude, s.Latitude, s.Locality,
			s.StaffNumbers, s.OpeningDate, s.StoreType, s.CountryCode, s.Continent,
		}
	},
}

// ProductsSpec loads cleaned products into dim_products.
var ProductsSpec = TableSpec[clean.Product]{
	Dataset: "products",
	Table:   "dim_products",
	Columns: []string{
		"product_code", "product_name", "product_price", "weight_kg",
		"weight_class", "category", "ean", "date_added", "product_uuid",
		"still_available",
	},
	Row: func(p clean.Product) []any {
		return []any{
			p.ProductCode, p.ProductName, p.ProductPrice, p.WeightKG,
			p.WeightClass, p.Category, p.EAN, p.DateAdded, p.ProductUUID,
			p.StillAvailable,
		}
	},
}

// DateEventsSpec loads cleaned date events into dim_date_times.
var DateEventsSpec = TableSpec[clean.DateEvent]{
	Dataset: "date_events",
	Table:   "dim_date_times",
	Columns: []string{
		"date_uuid", "event_time", "day", "month", "year", "time_period",
	},
	Row: func(d clean.DateEvent) []any {
		return []any{
			d.DateUUID, clockTime(d.EventTime), d.Day, d.Month, d.Year, d.TimePeriod,
		}
	},
}

// OrdersSpec loads cleaned orders into orders_table. It must run
// after every dimension load so the foreign keys resolve.
var OrdersSpec = TableSpec[clean.Order]{
	Dataset: "orders",
	Table:   "orders_table",
	Columns: []string{
		"date_uuid", "user_uuid", "card_number", "store_code", "product_code",
		"product_quantity",
	},
	Row: func(o clean.Order) []any {
		return []any{
			o.DateUUID, o.UserUUID, o.CardNumber, o.StoreCode, o.ProductCode,
			o.ProductQuantity,
		}
	},
}

// clockTime converts a parsed clock time into a pgtype.Time
// (microseconds since midnight) for the time column.
func clockTime(t time.Time) pgtype.Time {
	micros := int64(t.Hour())*3600_000_000 +
		int64(t.Minute())*60_000_000 +
		int64(t.Second())*1_000_000
	return pgtype.Time{Microseconds: micros, Valid: true}
}
