package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Файлы
	ErrFileOpen    = fmt.Errorf("не удалось открыть файл")
	ErrLegacyExcel = fmt.Errorf("формат .xls не поддерживается, сохраните файл как .xlsx")
	ErrNoWorksheet = fmt.Errorf("в Excel файле нет листов")
	ErrEmptyInput  = fmt.Errorf("нет данных для обработки")

	// Реестр банков
	ErrRegistryLoad = fmt.Errorf("не удалось загрузить реестр банков")
	ErrBankNotFound = fmt.Errorf("банк не найден в реестре")

	// Задачи
	ErrJobNotFound    = fmt.Errorf("задача не найдена")
	ErrJobNotFinished = fmt.Errorf("задача ещё не завершена")
	ErrJobCancelled   = fmt.Errorf("задача отменена")
	ErrJobFailed      = fmt.Errorf("задача завершилась с ошибкой")

	// Общие
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError — ошибка, которую контроллер отдаёт клиенту как есть.
// Err и Context пишутся только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message}
}

// ToHttpError переводит доменные ошибки в HTTP-коды.
func ToHttpError(err error) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var inputErr *InvalidInputError
	switch {
	case errors.As(err, &inputErr):
		return NewHttpError(http.StatusBadRequest, inputErr.Message, nil, nil)
	case errors.Is(err, ErrJobNotFound), errors.Is(err, ErrBankNotFound):
		return NewHttpError(http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrJobNotFinished), errors.Is(err, ErrJobCancelled):
		return NewHttpError(http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrJobFailed):
		return NewHttpError(http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.Is(err, ErrLegacyExcel), errors.Is(err, ErrEmptyInput), errors.Is(err, ErrBadRequest):
		return NewHttpError(http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrFileOpen), errors.Is(err, ErrNoWorksheet):
		return NewHttpError(http.StatusUnprocessableEntity, err.Error(), err, nil)
	}
	return NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
}
