package catalog

import (
	"testing"

	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates active tracked product", func(t *testing.T) {
		p, err := NewProduct("Widget", "wgt-001", valueobject.NewMoneyUSDFromFloat(10.00))
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, "WGT-001", p.SKU)
		assert.True(t, p.IsActive)
		assert.True(t, p.TrackInventory)
		assert.Equal(t, 0, p.StockQuantity)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("", "WGT-001", valueobject.NewMoneyUSDFromFloat(10))
		assert.Error(t, err)
	})

	t.Run("rejects invalid sku characters", func(t *testing.T) {
		_, err := NewProduct("Widget", "WGT 001!", valueobject.NewMoneyUSDFromFloat(10))
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Widget", "WGT-001", valueobject.NewMoneyUSDFromFloat(-1))
		assert.Error(t, err)
	})
}

func TestProductUpdatePrice(t *testing.T) {
	p, err := NewProduct("Widget", "WGT-001", valueobject.NewMoneyUSDFromFloat(10.00))
	require.NoError(t, err)
	p.ClearDomainEvents()

	require.NoError(t, p.UpdatePrice(valueobject.NewMoneyUSDFromFloat(12.50)))
	assert.True(t, p.PriceMoney().Equals(valueobject.NewMoneyUSDFromFloat(12.50)))

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductPriceChanged, events[0].EventType())

	assert.Error(t, p.UpdatePrice(valueobject.NewMoneyUSDFromFloat(-5)))
}

func TestProductHasStockFor(t *testing.T) {
	p, err := NewProduct("Widget", "WGT-001", valueobject.NewMoneyUSDFromFloat(10))
	require.NoError(t, err)
	p.StockQuantity = 5

	assert.True(t, p.HasStockFor(5))
	assert.False(t, p.HasStockFor(6))

	t.Run("untracked products always have stock", func(t *testing.T) {
		p.TrackInventory = false
		assert.True(t, p.HasStockFor(1000))
	})
}

func TestProductDecrementStock(t *testing.T) {
	newProduct := func(t *testing.T, stock int) *Product {
		p, err := NewProduct("Widget", "WGT-001", valueobject.NewMoneyUSDFromFloat(10))
		require.NoError(t, err)
		p.StockQuantity = stock
		p.ClearDomainEvents()
		return p
	}

	t.Run("reduces stock", func(t *testing.T) {
		p := newProduct(t, 5)
		require.NoError(t, p.DecrementStock(3))
		assert.Equal(t, 2, p.StockQuantity)
	})

	t.Run("fails when stock insufficient", func(t *testing.T) {
		p := newProduct(t, 2)
		err := p.DecrementStock(3)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 2, p.StockQuantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		p := newProduct(t, 5)
		assert.Error(t, p.DecrementStock(0))
		assert.Error(t, p.DecrementStock(-1))
	})

	t.Run("no-op for untracked product", func(t *testing.T) {
		p := newProduct(t, 0)
		p.TrackInventory = false
		require.NoError(t, p.DecrementStock(10))
		assert.Equal(t, 0, p.StockQuantity)
	})

	t.Run("emits low stock event at threshold", func(t *testing.T) {
		p := newProduct(t, 5)
		p.LowStockThreshold = 3
		require.NoError(t, p.DecrementStock(2))

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductLowStock, events[0].EventType())
	})
}

func TestProductIncrementStock(t *testing.T) {
	p, err := NewProduct("Widget", "WGT-001", valueobject.NewMoneyUSDFromFloat(10))
	require.NoError(t, err)
	p.StockQuantity = 2

	require.NoError(t, p.IncrementStock(3))
	assert.Equal(t, 5, p.StockQuantity)

	assert.Error(t, p.IncrementStock(0))

	t.Run("no-op for untracked product", func(t *testing.T) {
		p.TrackInventory = false
		require.NoError(t, p.IncrementStock(10))
		assert.Equal(t, 5, p.StockQuantity)
	})
}

func TestProductIsLowStock(t *testing.T) {
	p, err := NewProduct("Widget", "WGT-001", valueobject.NewMoneyUSDFromFloat(10))
	require.NoError(t, err)
	p.StockQuantity = 3
	p.LowStockThreshold = 3

	assert.True(t, p.IsLowStock())

	p.StockQuantity = 4
	assert.False(t, p.IsLowStock())

	p.LowStockThreshold = 0
	p.StockQuantity = 0
	assert.False(t, p.IsLowStock())
}
