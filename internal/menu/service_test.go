package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	FindMenuItemFunc   func(ctx context.Context, id string) (*Item, error)
	UpsertMenuItemFunc func(ctx context.Context, item *Item) error
	ListMenuItemsFunc  func(ctx context.Context) ([]Item, error)
	DeleteMenuItemFunc func(ctx context.Context, id string) error
}

func (m *mockRepository) FindMenuItem(ctx context.Context, id string) (*Item, error) {
	return m.FindMenuItemFunc(ctx, id)
}

func (m *mockRepository) UpsertMenuItem(ctx context.Context, item *Item) error {
	return m.UpsertMenuItemFunc(ctx, item)
}

func (m *mockRepository) ListMenuItems(ctx context.Context) ([]Item, error) {
	return m.ListMenuItemsFunc(ctx)
}

func (m *mockRepository) DeleteMenuItem(ctx context.Context, id string) error {
	return m.DeleteMenuItemFunc(ctx, id)
}

func TestService_Create(t *testing.T) {
	t.Run("creates an available item by default", func(t *testing.T) {
		var saved *Item
		repo := &mockRepository{
			UpsertMenuItemFunc: func(ctx context.Context, item *Item) error {
				saved = item
				return nil
			},
		}

		item, err := NewService(repo).Create(context.Background(), CreateInput{
			Name:     "Espresso",
			Price:    120,
			Category: "coffee",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, item.ID)
		assert.True(t, item.Available)
		assert.Equal(t, item.CreatedAt, item.UpdatedAt)
		assert.Equal(t, item, saved)
	})

	t.Run("honors an explicit availability flag", func(t *testing.T) {
		repo := &mockRepository{
			UpsertMenuItemFunc: func(ctx context.Context, item *Item) error { return nil },
		}

		unavailable := false
		item, err := NewService(repo).Create(context.Background(), CreateInput{
			Name:      "Seasonal tart",
			Price:     300,
			Available: &unavailable,
		})
		require.NoError(t, err)
		assert.False(t, item.Available)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name  string
			input CreateInput
		}{
			{name: "missing name", input: CreateInput{Price: 100}},
			{name: "negative price", input: CreateInput{Name: "Chai", Price: -1}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewService(&mockRepository{}).Create(context.Background(), tt.input)
				assert.ErrorIs(t, err, ErrInvalidItem)
			})
		}
	})
}

func TestService_Update(t *testing.T) {
	existing := func() *Item {
		return &Item{
			ID:        "item-1",
			Name:      "Espresso",
			Price:     120,
			Category:  "coffee",
			Available: true,
			CreatedAt: 1000,
			UpdatedAt: 1000,
		}
	}

	t.Run("merges only the provided fields", func(t *testing.T) {
		var saved *Item
		repo := &mockRepository{
			FindMenuItemFunc: func(ctx context.Context, id string) (*Item, error) {
				return existing(), nil
			},
			UpsertMenuItemFunc: func(ctx context.Context, item *Item) error {
				saved = item
				return nil
			},
		}

		newPrice := int64(140)
		item, err := NewService(repo).Update(context.Background(), "item-1", UpdateInput{Price: &newPrice})
		require.NoError(t, err)

		assert.Equal(t, "Espresso", item.Name)
		assert.Equal(t, int64(140), item.Price)
		assert.Equal(t, int64(1000), item.CreatedAt)
		assert.Greater(t, item.UpdatedAt, int64(1000))
		assert.Equal(t, item, saved)
	})

	t.Run("rejects clearing the name", func(t *testing.T) {
		repo := &mockRepository{
			FindMenuItemFunc: func(ctx context.Context, id string) (*Item, error) {
				return existing(), nil
			},
		}

		empty := ""
		_, err := NewService(repo).Update(context.Background(), "item-1", UpdateInput{Name: &empty})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := &mockRepository{
			FindMenuItemFunc: func(ctx context.Context, id string) (*Item, error) {
				return nil, ErrNotFound
			},
		}

		_, err := NewService(repo).Update(context.Background(), "missing", UpdateInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("propagates not found", func(t *testing.T) {
		repo := &mockRepository{
			DeleteMenuItemFunc: func(ctx context.Context, id string) error { return ErrNotFound },
		}

		err := NewService(repo).Delete(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deletes an existing item", func(t *testing.T) {
		var deleted string
		repo := &mockRepository{
			DeleteMenuItemFunc: func(ctx context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		err := NewService(repo).Delete(context.Background(), "item-1")
		require.NoError(t, err)
		assert.Equal(t, "item-1", deleted)
	})
}
