// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic SQLSTATE codes from the Postgres driver and
// converts them into categorized, user-readable load errors (e.g.
// converting a "foreign key violation" during an orders load into
// an ORDER_NOT_FOUND error that names the offending constraint).
package sqlerr
