package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Каталог и бартеры
	ExternalSourceError failure.ErrorCode = "ExternalSourceError" // Апстрим вернул errors[] или мусор
	StoreError          failure.ErrorCode = "StoreError"          // Ошибка хранилища
	SyncBatchFailed     failure.ErrorCode = "SyncBatchFailed"     // Транзакция пачки откатилась
	ItemNotFound        failure.ErrorCode = "ItemNotFound"
	InvalidItemID       failure.ErrorCode = "InvalidItemID"
)
