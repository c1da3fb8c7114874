package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RETAILETL_PRIMARY__ENV", "local")
	t.Setenv("RETAILETL_API__KEY", "test-key")
	t.Setenv("RETAILETL_API__NUMBER_STORES_ENDPOINT", "https://api.example.com/number_stores")
	t.Setenv("RETAILETL_API__STORE_DETAILS_ENDPOINT", "https://api.example.com/store_details/{store_number}")
	t.Setenv("RETAILETL_S3__PRODUCTS_ADDRESS", "s3://data-handling-public/products.csv")
	t.Setenv("RETAILETL_S3__DATE_EVENTS_ADDRESS", "s3://data-handling-public/date_details.json")
	t.Setenv("RETAILETL_PDF__CARD_DETAILS_URL", "https://data-handling-public.example.com/card_details.pdf")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "db_creds.yaml", cfg.Database.CredsFile)
	assert.Equal(t, "source_db", cfg.Database.SourceKey)
	assert.Equal(t, "target_db", cfg.Database.TargetKey)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 3, cfg.API.RetryCount)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Nil(t, cfg.Redis, "redis cache stays off unless configured")
}

func TestLoadMapsNestedEnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETAILETL_LOGGING__LEVEL", "debug")
	t.Setenv("RETAILETL_DATABASE__CREDS_FILE", "/etc/retail-etl/db_creds.yaml")
	t.Setenv("RETAILETL_DATABASE__MAX_OPEN_CONNS", "25")
	t.Setenv("RETAILETL_REDIS__ADDRESS", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/etc/retail-etl/db_creds.yaml", cfg.Database.CredsFile)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)

	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 24, cfg.Redis.TTLHours, "cache TTL defaults when only the address is set")
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETAILETL_API__KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func writeCredsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db_creds.yaml")
	contents := `source_db:
  RDS_HOST: source.rds.example.com
  RDS_PORT: 5432
  RDS_USER: etl_reader
  RDS_PASSWORD: reader-secret
  RDS_DATABASE: legacy_sales
target_db:
  RDS_HOST: target.rds.example.com
  RDS_PORT: 5432
  RDS_USER: etl_writer
  RDS_PASSWORD: writer-secret
  RDS_DATABASE: sales_data
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeCredsFile(t)

	source, err := LoadCredentials(path, "source_db")
	require.NoError(t, err)
	assert.Equal(t, "source.rds.example.com", source.Host)
	assert.Equal(t, 5432, source.Port)
	assert.Equal(t, "etl_reader", source.User)
	assert.Equal(t, "legacy_sales", source.Database)

	target, err := LoadCredentials(path, "target_db")
	require.NoError(t, err)
	assert.Equal(t, "sales_data", target.Database)
}

func TestLoadCredentialsUnknownKeyListsAvailable(t *testing.T) {
	path := writeCredsFile(t)

	_, err := LoadCredentials(path, "staging_db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"staging_db" not found`)
	assert.Contains(t, err.Error(), "source_db")
	assert.Contains(t, err.Error(), "target_db")
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.yaml"), "source_db")
	assert.Error(t, err)
}

func TestLoadCredentialsIncompleteBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_creds.yaml")
	contents := `source_db:
  RDS_HOST: source.rds.example.com
  RDS_PORT: 5432
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	_, err := LoadCredentials(path, "source_db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}
