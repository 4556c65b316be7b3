package kernel_test

import (
	"testing"
	"time"

	"mailroom/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsEqual(id2))
	assert.True(t, id1.IsEqual(id1))
}

func TestParseUUID(t *testing.T) {
	const canonical = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("accepted_forms", func(t *testing.T) {
		for _, in := range []string{
			canonical,
			"{550e8400-e29b-41d4-a716-446655440000}",
			"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
			"550e8400e29b41d4a716446655440000",
		} {
			id, err := kernel.ParseUUID(in)
			require.NoError(t, err, in)
			assert.Equal(t, canonical, id.String())
		}
	})

	t.Run("rejected_forms", func(t *testing.T) {
		for _, in := range []string{"", "not-a-uuid", "550e8400-e29b-41d4-a716"} {
			_, err := kernel.ParseUUID(in)
			require.Error(t, err, in)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("nil_uuid_is_rejected", func(t *testing.T) {
		_, err := kernel.ParseUUID(uuid.Nil.String())
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	raw := []byte{
		0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4,
		0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00,
	}

	id, err := kernel.UUIDFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())

	_, err = kernel.UUIDFromBytes(raw[:3])
	require.Error(t, err)

	_, err = kernel.UUIDFromBytes(make([]byte, 16))
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
}

func TestUUIDFromGoogle(t *testing.T) {
	g := uuid.New()

	id, err := kernel.UUIDFromGoogle(g)
	require.NoError(t, err)
	assert.Equal(t, g, id.Google())

	_, err = kernel.UUIDFromGoogle(uuid.Nil)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_ZeroValueIsInvalid(t *testing.T) {
	var id kernel.UUID
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, at, kernel.FixedClock{At: at}.Now())
	assert.Equal(t, time.UTC, kernel.SystemClock{}.Now().Location())
}
