package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacentral/retail-etl/internal/extract"
)

func str(s string) *string { return &s }

func validRawUser() extract.RawUser {
	return extract.RawUser{
		FirstName:    str("Ada"),
		LastName:     str("Lovelace"),
		DateOfBirth:  str("1990-05-12"),
		Company:      str("Analytical Engines Ltd"),
		EmailAddress: str("ada@example.com"),
		Address:      str("1 Byron Road"),
		Country:      str("United Kingdom"),
		CountryCode:  str("GB"),
		PhoneNumber:  str("+44 20 7946 0958"),
		JoinDate:     str("2018-02-01"),
		UserUUID:     str("93caf182-e4e9-4c58-a977-df722c9837ae"),
	}
}

func TestUsersCleaning(t *testing.T) {
	good := validRawUser()

	typoCode := validRawUser()
	typoCode.CountryCode = str("GGB")
	typoCode.UserUUID = str("8fe96c3a-d62d-4eb5-b313-cf12d9126a49")

	badUUID := validRawUser()
	badUUID.UserUUID = str("not-a-uuid")

	nullRow := validRawUser()
	nullRow.FirstName = str("NULL")

	badDate := validRawUser()
	badDate.UserUUID = str("fc461df4-b919-48b2-909e-55c95a03fe6b")
	badDate.JoinDate = str("GMRBOMI0O1")

	users, dropped := Users([]extract.RawUser{good, typoCode, badUUID, nullRow, badDate})

	require.Len(t, users, 2)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, "Ada", users[0].FirstName)
	assert.Equal(t, "GB", users[1].CountryCode, "GGB typo should be corrected")
}

func TestUsersDeduplicatesByUUID(t *testing.T) {
	a := validRawUser()
	b := validRawUser()

	users, dropped := Users([]extract.RawUser{a, b})
	require.Len(t, users, 1)
	assert.Equal(t, 1, dropped)
}

func TestUsersRejectsBadEmail(t *testing.T) {
	u := validRawUser()
	u.EmailAddress = str("no-at-sign")

	users, dropped := Users([]extract.RawUser{u})
	assert.Empty(t, users)
	assert.Equal(t, 1, dropped)
}
