package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3Address(t *testing.T) {
	bucket, key, err := ParseS3Address("s3://data-handling-public/products.csv")
	require.NoError(t, err)
	assert.Equal(t, "data-handling-public", bucket)
	assert.Equal(t, "products.csv", key)

	bucket, key, err = ParseS3Address("s3://bucket/nested/path/date_details.json")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "nested/path/date_details.json", key)
}

func TestParseS3AddressRejectsMalformed(t *testing.T) {
	for _, address := range []string{
		"https://bucket/key",
		"s3://bucket-only",
		"s3:///key-only",
		"s3://",
	} {
		_, _, err := ParseS3Address(address)
		assert.Error(t, err, "expected %q to be rejected", address)
	}
}
