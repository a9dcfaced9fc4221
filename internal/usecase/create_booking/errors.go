package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrUnauthorized возвращается, когда запрос пришел без пользователя
	ErrUnauthorized = errors.New("create_booking: authentication required")

	// ErrTempleRequired возвращается, когда для очного режима не передан храм
	ErrTempleRequired = errors.New("create_booking: temple ID required")

	// ErrTempleNotFound возвращается, когда храм не существует
	ErrTempleNotFound = errors.New("create_booking: temple not found")

	// ErrPoojaNotFound возвращается, когда пуджа не найдена
	ErrPoojaNotFound = errors.New("create_booking: pooja not found")

	// ErrPriestNotFound возвращается, когда профиль священника не найден
	ErrPriestNotFound = errors.New("create_booking: priest not found")

	// ErrNoAvailablePriests возвращается, когда автоназначение не нашло священника на слот
	ErrNoAvailablePriests = errors.New("create_booking: no available priests")

	// ErrSlotTaken возвращается, когда слот священника уже занят
	ErrSlotTaken = errors.New("create_booking: time slot is already booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
