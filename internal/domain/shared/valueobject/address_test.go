package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("creates address with required fields", func(t *testing.T) {
		addr, err := NewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
		require.NoError(t, err)
		assert.Equal(t, "Jane", addr.FirstName())
		assert.Equal(t, "Doe", addr.LastName())
		assert.Equal(t, "42 Market St", addr.AddressLine1())
		assert.Equal(t, "Springfield", addr.City())
		assert.Equal(t, "IL", addr.State())
		assert.Equal(t, "62704", addr.PostalCode())
		assert.Equal(t, "US", addr.Country())
	})

	t.Run("applies options", func(t *testing.T) {
		addr, err := NewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US",
			WithAddressLine2("Apt 7"), WithPhone("+1-555-0100"))
		require.NoError(t, err)
		assert.Equal(t, "Apt 7", addr.AddressLine2())
		assert.Equal(t, "+1-555-0100", addr.Phone())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		addr, err := NewAddress("  Jane ", "Doe", " 42 Market St ", "Springfield", "IL", "62704", "US")
		require.NoError(t, err)
		assert.Equal(t, "Jane", addr.FirstName())
		assert.Equal(t, "42 Market St", addr.AddressLine1())
	})

	t.Run("rejects missing required field", func(t *testing.T) {
		_, err := NewAddress("Jane", "Doe", "", "Springfield", "IL", "62704", "US")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "address line 1")
	})
}

func TestAddressRecipientName(t *testing.T) {
	addr := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
	assert.Equal(t, "Jane Doe", addr.RecipientName())
}

func TestAddressIsEmpty(t *testing.T) {
	assert.True(t, EmptyAddress().IsEmpty())

	addr := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
	assert.False(t, addr.IsEmpty())
}

func TestAddressFullAddress(t *testing.T) {
	addr := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US",
		WithAddressLine2("Apt 7"))
	assert.Equal(t, "Jane Doe, 42 Market St, Apt 7, Springfield, IL, 62704, US", addr.FullAddress())
	assert.Equal(t, "", EmptyAddress().FullAddress())
}

func TestAddressEquals(t *testing.T) {
	a := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
	b := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
	c := MustNewAddress("John", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestAddressJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		addr := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US",
			WithAddressLine2("Apt 7"), WithPhone("+1-555-0100"))

		data, err := json.Marshal(addr)
		require.NoError(t, err)

		var decoded Address
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, addr.Equals(decoded))
	})

	t.Run("empty payload yields empty address", func(t *testing.T) {
		var addr Address
		require.NoError(t, json.Unmarshal([]byte(`{}`), &addr))
		assert.True(t, addr.IsEmpty())
	})

	t.Run("invalid payload fails validation", func(t *testing.T) {
		var addr Address
		err := json.Unmarshal([]byte(`{"firstName":"Jane"}`), &addr)
		assert.Error(t, err)
	})
}

func TestAddressScan(t *testing.T) {
	t.Run("from json bytes", func(t *testing.T) {
		original := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var addr Address
		require.NoError(t, addr.Scan(data))
		assert.True(t, original.Equals(addr))
	})

	t.Run("nil yields empty", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan(nil))
		assert.True(t, addr.IsEmpty())
	})

	t.Run("null string yields empty", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan("null"))
		assert.True(t, addr.IsEmpty())
	})
}

func TestAddressValue(t *testing.T) {
	t.Run("empty stores NULL", func(t *testing.T) {
		v, err := EmptyAddress().Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("non-empty stores json", func(t *testing.T) {
		addr := MustNewAddress("Jane", "Doe", "42 Market St", "Springfield", "IL", "62704", "US")
		v, err := addr.Value()
		require.NoError(t, err)
		assert.Contains(t, string(v.([]byte)), `"city":"Springfield"`)
	})
}
