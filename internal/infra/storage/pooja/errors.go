package pooja

import "errors"

var (
	// ErrPoojaNotFound возвращается, когда пуджа не найдена в каталоге
	ErrPoojaNotFound = errors.New("pooja.repository: pooja not found")

	ErrBuildQuery = errors.New("pooja.repository: failed to build query")
	ErrExecQuery  = errors.New("pooja.repository: failed to execute query")
	ErrScanRow    = errors.New("pooja.repository: failed to scan row")
)
