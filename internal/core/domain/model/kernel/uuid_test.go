package kernel_test

import (
	"encoding/json"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalTaskID = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsZero())
	assert.False(t, id1.IsEqual(id2))
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, id1.String())
}

func TestUUIDFromString(t *testing.T) {
	t.Run("accepted forms", func(t *testing.T) {
		inputs := []string{
			canonicalTaskID,
			"{550e8400-e29b-41d4-a716-446655440000}",
			"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
			"550e8400e29b41d4a716446655440000",
		}

		for _, input := range inputs {
			id, err := kernel.UUIDFromString(input)
			require.NoError(t, err, input)
			assert.Equal(t, canonicalTaskID, id.String())
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		inputs := []string{"", "task-1", "550e8400-e29b-41d4-a716", "zzze8400-e29b-41d4-a716-446655440000"}

		for _, input := range inputs {
			_, err := kernel.UUIDFromString(input)
			require.Error(t, err, input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("nil uuid is rejected", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("round trip through the column representation", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x55, 0x0e})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("all zero bytes", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID

	assert.True(t, zero.IsZero())
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, zero.Validate())
}

func TestUUID_MarshalText(t *testing.T) {
	id, err := kernel.UUIDFromString(canonicalTaskID)
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]kernel.UUID{"taskId": id})

	require.NoError(t, err)
	assert.JSONEq(t, `{"taskId":"550e8400-e29b-41d4-a716-446655440000"}`, string(payload))
}

func TestSameUUID(t *testing.T) {
	a := kernel.NewUUID()
	aCopy := a
	b := kernel.NewUUID()

	assert.True(t, kernel.SameUUID(nil, nil))
	assert.True(t, kernel.SameUUID(&a, &aCopy))
	assert.False(t, kernel.SameUUID(&a, &b))
	assert.False(t, kernel.SameUUID(&a, nil))
	assert.False(t, kernel.SameUUID(nil, &b))
}

func TestUUID_UnmarshalText(t *testing.T) {
	var payload struct {
		TaskID kernel.UUID  `json:"taskId"`
		UserID *kernel.UUID `json:"userId"`
	}

	err := json.Unmarshal([]byte(`{"taskId":"`+canonicalTaskID+`","userId":null}`), &payload)

	require.NoError(t, err)
	assert.Equal(t, canonicalTaskID, payload.TaskID.String())
	assert.Nil(t, payload.UserID)

	err = json.Unmarshal([]byte(`{"taskId":"00000000-0000-0000-0000-000000000000"}`), &payload)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
