package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// pqCode extracts the Postgres error code, or "" for non-pq errors.
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
