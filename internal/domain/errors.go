package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"barter_market/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// HasCode проверяет, что в цепочке есть AppError с данным кодом.
func HasCode(err error, code failure.ErrorCode) bool {
	got, ok := GetCode(err)
	return ok && got == code
}

// NewExternalSourceError: апстрим ответил ошибкой или неожиданной формой ответа.
func NewExternalSourceError(message string, cause error) *AppError {
	return WrapError(cause, errcodes.ExternalSourceError, message)
}

func IsExternalSourceError(err error) bool {
	return HasCode(err, errcodes.ExternalSourceError)
}

// NewStoreError оборачивает ошибку хранилища.
func NewStoreError(err error, message string) *AppError {
	return WrapError(err, errcodes.StoreError, message)
}

func IsStoreError(err error) bool {
	return HasCode(err, errcodes.StoreError)
}

// SyncBatchError — транзакция пачки с номером Index откатилась.
// Пачки до Index закоммичены, после Index не выполнялись.
type SyncBatchError struct {
	Index int
	Size  int
	cause error
}

func NewSyncBatchError(index, size int, cause error) *SyncBatchError {
	return &SyncBatchError{
		Index: index,
		Size:  size,
		cause: cause,
	}
}

func (e *SyncBatchError) Error() string {
	return fmt.Sprintf("sync batch %d (%d items) failed: %v", e.Index, e.Size, e.cause)
}

func (e *SyncBatchError) Unwrap() error {
	return e.cause
}

// Code позволяет обрабатывать ошибку пачки так же, как AppError.
func (e *SyncBatchError) Code() failure.ErrorCode {
	return errcodes.SyncBatchFailed
}
