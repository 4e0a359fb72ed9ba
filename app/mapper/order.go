package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-paynow/app/entity"
	"github.com/vibast-solutions/ms-go-paynow/app/types"
)

func OrderToResponse(item *entity.Order, notes []*entity.OrderNote) *types.Order {
	if item == nil {
		return nil
	}

	return &types.Order{
		Id:          item.ID,
		OrderKey:    item.OrderKey,
		CustomerRef: derefString(item.CustomerRef),
		AmountCents: item.AmountCents,
		Currency:    item.Currency,
		Status:      types.OrderStatus(item.Status).String(),
		Notes:       noteTexts(notes),
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func noteTexts(notes []*entity.OrderNote) []string {
	result := make([]string, 0, len(notes))
	for _, note := range notes {
		result = append(result, note.Note)
	}
	return result
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
