package listversion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 5. UpdateItem
// ---------------------------------------------------------------------------

// UpdateItem applies a partial update to one item. Nil input fields keep
// their stored values; the item's id and ordinal never change here.
func (s *Service) UpdateItem(ctx context.Context, input UpdateItemInput) (*domain.MaterialItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated domain.MaterialItem
	_, err := s.mutateVersion(ctx, input.CourseID, input.VersionTS, func(v *domain.ListVersion) error {
		item, ok := v.Item(input.ItemID)
		if !ok {
			return fmt.Errorf("item %s: %w", input.ItemID, domain.ErrNotFound)
		}

		if input.Name != nil {
			item.Name = strings.TrimSpace(*input.Name)
		}
		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if input.ISBN != nil {
			item.ISBN = input.ISBN
		}
		if input.Brand != nil {
			item.Brand = input.Brand
		}
		if input.Price != nil {
			item.Price = input.Price
		}
		if input.Category != nil {
			item.Category = input.Category
		}
		if input.Subject != nil {
			item.Subject = input.Subject
		}
		if input.Mandatory != nil {
			item.Mandatory = *input.Mandatory
		}
		if input.Purchasable != nil {
			item.Purchasable = *input.Purchasable
		}
		if input.Validated != nil {
			item.Validated = *input.Validated
		}
		if input.Approved != nil {
			item.Approved = *input.Approved
		}

		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item updated",
		slog.String("course_id", input.CourseID.String()),
		slog.String("item_id", updated.ID),
	)
	return &updated, nil
}
