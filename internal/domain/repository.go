package domain

import (
	"context"

	"barter_market/internal/domain/entity"
)

// CatalogueTx — операции хранилища внутри одной транзакции пачки.
type CatalogueTx interface {
	// FindItemByID возвращает AppError с кодом ItemNotFound, если предмета нет.
	FindItemByID(ctx context.Context, id string) (*entity.Item, error)
	// FindOrCreateVendorByName ищет торговца по имени и создаёт его при отсутствии.
	FindOrCreateVendorByName(ctx context.Context, vendor entity.Vendor) (entity.Vendor, bool, error)
	// UpsertItemWithPrices создаёт или обновляет предмет и записывает его предложения.
	// У каждой цены должен быть заполнен Vendor.ID.
	UpsertItemWithPrices(ctx context.Context, item entity.Item, prices []entity.ItemPrice, policy entity.PricePolicy) error
}

// CatalogueStore открывает транзакцию: ошибка fn откатывает её целиком.
type CatalogueStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx CatalogueTx) error) error
}
