package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или удалено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда у священника уже есть активное бронирование на эту дату и слот
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrAlreadyCancelled возвращается, когда условное обновление не затронуло ни одной строки
	ErrAlreadyCancelled = errors.New("booking.repository: booking already cancelled")

	// ErrNotCancellable возвращается, когда бронирование успело перейти в неотменяемый статус
	ErrNotCancellable = errors.New("booking.repository: booking cannot be cancelled")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
