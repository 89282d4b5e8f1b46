package listversion

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. AddItem
// ---------------------------------------------------------------------------

// AddItem adds one item to a version and returns it as stored. The item gets
// the next stable id, the requested ordinal clamped into range, and the
// remaining ordinals renumbered around it.
func (s *Service) AddItem(ctx context.Context, input AddItemInput) (*domain.MaterialItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	purchasable := true
	if input.Purchasable != nil {
		purchasable = *input.Purchasable
	}

	var created domain.MaterialItem
	_, err := s.mutateVersion(ctx, input.CourseID, input.VersionTS, func(v *domain.ListVersion) error {
		item := domain.MaterialItem{
			ID:          v.NextItemID(),
			Name:        strings.TrimSpace(input.Name),
			Quantity:    quantity,
			ISBN:        input.ISBN,
			Brand:       input.Brand,
			Price:       input.Price,
			Category:    input.Category,
			Subject:     input.Subject,
			Mandatory:   input.Mandatory,
			Purchasable: purchasable,
			LinkState:   domain.LinkStateUnmatched,
			CreatedAt:   time.Now().UTC(),
		}
		v.InsertItem(item, input.Ordinal)

		stored, _ := v.Item(item.ID)
		created = *stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item added",
		slog.String("course_id", input.CourseID.String()),
		slog.String("item_id", created.ID),
		slog.Int("ordinal", created.Ordinal),
	)
	return &created, nil
}
