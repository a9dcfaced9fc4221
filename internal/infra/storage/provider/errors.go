package provider

import "errors"

var (
	// ErrProviderNotFound возвращается, когда профиль не найден или удален
	ErrProviderNotFound = errors.New("provider.repository: provider not found")

	ErrBuildQuery = errors.New("provider.repository: failed to build query")
	ErrExecQuery  = errors.New("provider.repository: failed to execute query")
	ErrScanRow    = errors.New("provider.repository: failed to scan row")
)
