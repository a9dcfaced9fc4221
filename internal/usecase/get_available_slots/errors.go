package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrTempleRequired возвращается, когда для очного режима не передан храм
	ErrTempleRequired = errors.New("get_available_slots: temple ID required")

	// ErrTempleNotFound возвращается, когда храм не существует
	ErrTempleNotFound = errors.New("get_available_slots: temple not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
