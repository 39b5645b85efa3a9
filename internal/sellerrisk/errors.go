package sellerrisk

import "errors"

var (
	// ErrStorageDisabled is returned by history and violation operations when no database is configured.
	ErrStorageDisabled = errors.New("seller risk storage is not configured")
	// ErrArchiveDisabled is returned by report lookups when no object store is configured.
	ErrArchiveDisabled = errors.New("report archive is not configured")
	ErrReportNotFound  = errors.New("report not found")
)
