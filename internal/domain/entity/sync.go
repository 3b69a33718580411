package entity

import (
	"fmt"
	"time"
)

// PricePolicy — что делать со старыми предложениями предмета при синхронизации.
type PricePolicy string

const (
	// PricePolicyReplace удаляет прежние предложения предмета перед вставкой новых.
	PricePolicyReplace PricePolicy = "replace"
	// PricePolicyAppend дописывает предложения к уже сохранённым.
	PricePolicyAppend PricePolicy = "append"
)

func ParsePricePolicy(s string) (PricePolicy, error) {
	switch p := PricePolicy(s); p {
	case PricePolicyReplace, PricePolicyAppend:
		return p, nil
	default:
		return "", fmt.Errorf("unknown price policy %q", s)
	}
}

type SyncReport struct {
	RunID          string        `json:"run_id"`
	Batches        int           `json:"batches"`
	Items          int           `json:"items"`
	Created        int           `json:"created"`
	Updated        int           `json:"updated"`
	Offers         int           `json:"offers"`
	VendorsCreated int           `json:"vendors_created"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}
