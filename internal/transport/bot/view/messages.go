package view

const StartMessage = `👋 <b>Barter market</b>

/profit — выгодные бартеры
/item <code>ID</code> — предмет из локального каталога
/sync — запустить синхронизацию каталога
/status — итог последней синхронизации`

const (
	SyncStarted        = "🔄 Синхронизация запущена"
	SyncAlreadyRunning = "⏳ Синхронизация уже идёт"
	StatusNoRuns       = "ℹ️ Синхронизация ещё не запускалась"
	ItemMissingID      = "❌ Использование: /item <code>ID</code>"
	ItemInvalidID      = "❌ Неверный формат ID"
	ItemNotFound       = "🤷 Предмет не найден в каталоге"
	ProfitEmpty        = "Выгодных бартеров сейчас нет"
	ProfitFailed       = "❌ Не удалось получить бартеры"
	InternalError      = "❌ Внутренняя ошибка"
)
