package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_PreservesIdentity(t *testing.T) {
	item := NewItem(7, Payload{Name: "bolt", Quantity: 100, Price: 0.5}, 1000)

	updated := item.Apply(Payload{Name: "nut", Quantity: 90, Price: 0.55}, 2000)

	assert.Equal(t, uint64(7), updated.ID)
	assert.Equal(t, uint64(1000), updated.CreatedAt)
	assert.Equal(t, "nut", updated.Name)
	assert.Equal(t, uint32(90), updated.Quantity)
	assert.Equal(t, 0.55, updated.Price)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, uint64(2000), *updated.UpdatedAt)
	assert.Nil(t, item.UpdatedAt, "receiver must not change")
}

func TestApply_ClampsClockSkew(t *testing.T) {
	item := NewItem(1, Payload{Name: "bolt"}, 5000)

	updated := item.Apply(Payload{Name: "bolt"}, 10)

	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, uint64(5000), *updated.UpdatedAt)
}

func TestClone_DetachesUpdatedAt(t *testing.T) {
	item := NewItem(1, Payload{Name: "bolt"}, 1).Apply(Payload{Name: "bolt"}, 2)

	clone := item.Clone()
	*clone.UpdatedAt = 99

	assert.Equal(t, uint64(2), *item.UpdatedAt)
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundDelete(42)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrIDExhausted))
	assert.Equal(t, "couldn't delete an item with id=42. item not found", err.Error())

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Contains(t, nf.Msg, "id=42")
}
