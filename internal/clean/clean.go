// Package clean applies the row-level cleaning rules of the
// pipeline.
//
// Each dataset has one cleaner that takes the raw extracted records
// and produces typed, normalized records ready for validation and
// load. Shared parsing rules (null literals, date coercion, weight
// normalization) live in parse.go.
//
// Cleaners never fail on bad rows; they drop them and report how
// many were dropped so the pipeline can log the attrition.
package clean

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a cleaned row destined for dim_users.
type User struct {
	UserUUID     uuid.UUID `validate:"required"`
	FirstName    string    `validate:"required"`
	LastName     string    `validate:"required"`
	DateOfBirth  time.Time `validate:"required"`
	Company      *string
	EmailAddress string `validate:"required"`
	Address      *string
	Country      *string
	CountryCode  string `validate:"required,oneof=GB DE US"`
	PhoneNumber  *string
	JoinDate     time.Time `validate:"required"`
}

// Card is a cleaned row destined for dim_card_details.
type Card struct {
	CardNumber           string `validate:"required,numeric"`
	ExpiryDate           string `validate:"required,len=5"`
	CardProvider         string `validate:"required"`
	DatePaymentConfirmed time.Time `validate:"required"`
}

// Store is a cleaned row destined for dim_store_details. The web
// store carries no physical location, so address fields are
// pointers.
type Store struct {
	StoreCode    string `validate:"required"`
	Address      *string
	Longitude    *float64
	Latitude     *float64
	Locality     *string
	StaffNumbers int16     `validate:"gte=0"`
	OpeningDate  time.Time `validate:"required"`
	StoreType    string    `validate:"required"`
	CountryCode  string    `validate:"required,oneof=GB DE US"`
	Continent    string    `validate:"required,oneof=Europe America"`
}

// Product is a cleaned row destined for dim_products. Weight is
// normalized to kilograms and the price to a plain decimal.
type Product struct {
	ProductCode    string `validate:"required"`
	ProductName    string `validate:"required"`
	ProductPrice   decimal.Decimal
	WeightKG       decimal.Decimal
	WeightClass    string `validate:"required,oneof=Light Mid_Sized Heavy Truck_Required"`
	Category       string `validate:"required"`
	EAN            *string
	DateAdded      time.Time `validate:"required"`
	ProductUUID    uuid.UUID `validate:"required"`
	StillAvailable bool
}

// Order is a cleaned row destined for orders_table. The legacy name
// columns and the unnamed "1" column are gone by this point.
type Order struct {
	DateUUID        uuid.UUID `validate:"required"`
	UserUUID        uuid.UUID `validate:"required"`
	CardNumber      string    `validate:"required,numeric"`
	StoreCode       string    `validate:"required"`
	ProductCode     string    `validate:"required"`
	ProductQuantity int16     `validate:"required,gt=0"`
}

// DateEvent is a cleaned row destined for dim_date_times. EventTime
// holds the clock time of the sale on the zero date.
type DateEvent struct {
	DateUUID   uuid.UUID `validate:"required"`
	EventTime  time.Time `validate:"required"`
	Day        int16     `validate:"required,gte=1,lte=31"`
	Month      int16     `validate:"required,gte=1,lte=12"`
	Year       int16     `validate:"required,gte=1900"`
	TimePeriod string    `validate:"required,oneof=Morning Midday Evening Late_Hours"`
}
