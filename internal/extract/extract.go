// Package extract contains the source connectors of the pipeline.
//
// Each connector pulls one dataset in its raw, uncleaned form:
//   - rds.go reads the legacy user and order tables from the source
//     Postgres database
//   - api.go fetches store records from the stores REST API
//   - pdf.go extracts card details from the card-details PDF
//   - s3.go downloads the product CSV and date-event JSON objects
//
// Raw records keep source values as strings (or pointers for
// nullable columns); interpreting and normalizing them is the job
// of the clean package.
package extract
