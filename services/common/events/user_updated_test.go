package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedAddress(t *testing.T) {
	t.Run("structured address joins street, city, postal", func(t *testing.T) {
		event := NewStructuredAddressEvent("u1", "a@b.com", Address{
			Street: "Main St",
			City:   "Springfield",
			Postal: "00000",
		})

		assert.Equal(t, "Main St, Springfield, 00000", event.NormalizedAddress())
	})

	t.Run("flat address is unchanged", func(t *testing.T) {
		event := NewFlatAddressEvent("u1", "a@b.com", "123 Oak Ave")

		assert.Equal(t, "123 Oak Ave", event.NormalizedAddress())
	})
}

func TestDecodeUserUpdated(t *testing.T) {
	t.Run("v1 flat schema", func(t *testing.T) {
		body := []byte(`{"type":"UserUpdated","userId":"abc","email":"new@b.com","deliveryAddress":"42 Elm St"}`)

		event, err := DecodeUserUpdated(body)

		assert.NoError(t, err)
		assert.Equal(t, "abc", event.UserID)
		assert.Equal(t, "new@b.com", event.Email)
		assert.Equal(t, "42 Elm St", event.DeliveryAddress)
		assert.Nil(t, event.Address)
	})

	t.Run("v2 structured schema", func(t *testing.T) {
		body := []byte(`{"type":"UserUpdated","userId":"abc","email":"new@b.com","address":{"street":"Main St","city":"Springfield","postal":"00000"}}`)

		event, err := DecodeUserUpdated(body)

		assert.NoError(t, err)
		assert.NotNil(t, event.Address)
		assert.Equal(t, "Main St", event.Address.Street)
		assert.Equal(t, "Main St, Springfield, 00000", event.NormalizedAddress())
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		body := []byte(`{"type":"UserUpdated","userId":"abc","email":"a@b.com","deliveryAddress":"x","futureField":true}`)

		_, err := DecodeUserUpdated(body)
		assert.NoError(t, err)
	})

	t.Run("invalid json is rejected", func(t *testing.T) {
		_, err := DecodeUserUpdated([]byte(`not-json`))
		assert.Error(t, err)
	})

	t.Run("missing userId is rejected", func(t *testing.T) {
		_, err := DecodeUserUpdated([]byte(`{"type":"UserUpdated","email":"a@b.com"}`))
		assert.ErrorContains(t, err, "userId")
	})

	t.Run("wrong type is rejected", func(t *testing.T) {
		_, err := DecodeUserUpdated([]byte(`{"type":"OrderShipped","userId":"abc"}`))
		assert.ErrorContains(t, err, "unexpected event type")
	})

	t.Run("both address shapes rejected", func(t *testing.T) {
		body := []byte(`{"type":"UserUpdated","userId":"abc","deliveryAddress":"x","address":{"street":"s","city":"c","postal":"p"}}`)

		_, err := DecodeUserUpdated(body)
		assert.ErrorContains(t, err, "both flat and structured")
	})
}

func TestEventRoundTripShapes(t *testing.T) {
	// Producers must omit the unused address field so consumers see exactly
	// one representation.
	flat, _ := json.Marshal(NewFlatAddressEvent("u1", "a@b.com", "42 Elm St"))
	assert.NotContains(t, string(flat), `"address"`)

	structured, _ := json.Marshal(NewStructuredAddressEvent("u1", "a@b.com", Address{Street: "s", City: "c", Postal: "p"}))
	assert.NotContains(t, string(structured), "deliveryAddress")
}
