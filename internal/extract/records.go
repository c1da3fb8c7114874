package extract

// RawUser is a row of the legacy_users source table.
type RawUser struct {
	FirstName    *string `db:"first_name"`
	LastName     *string `db:"last_name"`
	DateOfBirth  *string `db:"date_of_birth"`
	Company      *string `db:"company"`
	EmailAddress *string `db:"email_address"`
	Address      *string `db:"address"`
	Country      *string `db:"country"`
	CountryCode  *string `db:"country_code"`
	PhoneNumber  *string `db:"phone_number"`
	JoinDate     *string `db:"join_date"`
	UserUUID     *string `db:"user_uuid"`
}

// RawOrder is a row of the orders_table source table. The legacy
// table carries leftover name columns and an unnamed "1" column;
// they are extracted here and dropped during cleaning.
type RawOrder struct {
	DateUUID        *string `db:"date_uuid"`
	UserUUID        *string `db:"user_uuid"`
	CardNumber      *string `db:"card_number"`
	StoreCode       *string `db:"store_code"`
	ProductCode     *string `db:"product_code"`
	ProductQuantity *int32  `db:"product_quantity"`
	FirstName       *string `db:"first_name"`
	LastName        *string `db:"last_name"`
	One             *string `db:"1"`
}

// StoreRecord is one store as returned by the stores REST API.
// The API serializes every field as a string, including numbers.
type StoreRecord struct {
	Address      string `json:"address"`
	Longitude    string `json:"longitude"`
	Lat          string `json:"lat"`
	Locality     string `json:"locality"`
	StoreCode    string `json:"store_code"`
	StaffNumbers string `json:"staff_numbers"`
	OpeningDate  string `json:"opening_date"`
	StoreType    string `json:"store_type"`
	Latitude     string `json:"latitude"`
	CountryCode  string `json:"country_code"`
	Continent    string `json:"continent"`
}

// CardRecord is one row reassembled from the card-details PDF.
type CardRecord struct {
	CardNumber           string
	ExpiryDate           string
	CardProvider         string
	DatePaymentConfirmed string
}

// ProductRecord is a row of the products CSV on object storage.
// The leading unnamed index column of the extract is ignored.
type ProductRecord struct {
	ProductName  string `csv:"product_name"`
	ProductPrice string `csv:"product_price"`
	Weight       string `csv:"weight"`
	Category     string `csv:"category"`
	EAN          string `csv:"EAN"`
	DateAdded    string `csv:"date_added"`
	UUID         string `csv:"uuid"`
	Removed      string `csv:"removed"`
	ProductCode  string `csv:"product_code"`
}

// DateEventRecord is one sale-time event from the date-details JSON
// object.
type DateEventRecord struct {
	Timestamp  string `json:"timestamp"`
	Month      string `json:"month"`
	Year       string `json:"year"`
	Day        string `json:"day"`
	TimePeriod string `json:"time_period"`
	DateUUID   string `json:"date_uuid"`
}
