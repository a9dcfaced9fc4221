package mapping

import "errors"

var (
	// ErrMappingNotFound возвращается, когда священник не предлагает эту пуджу
	ErrMappingNotFound = errors.New("mapping.repository: priest pooja mapping not found")

	ErrBuildQuery = errors.New("mapping.repository: failed to build query")
	ErrExecQuery  = errors.New("mapping.repository: failed to execute query")
	ErrScanRow    = errors.New("mapping.repository: failed to scan row")
)
