package pkgnumber_test

import (
	"testing"

	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNumber(t *testing.T) {
	testCases := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{name: "lower_bound", value: 1},
		{name: "upper_bound", value: 999},
		{name: "middle", value: 512},
		{name: "zero", value: 0, wantErr: true},
		{name: "negative", value: -4, wantErr: true},
		{name: "above_capacity", value: 1000, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := pkgnumber.NewNumber(tc.value)
			if tc.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.True(t, n.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.value, n.Int())
			require.NoError(t, n.Validate())
		})
	}
}

func TestNumber_ZeroValue(t *testing.T) {
	var n pkgnumber.Number
	require.ErrorIs(t, n.Validate(), errs.ErrValueIsRequired)
}

func TestMustNumber_PanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { pkgnumber.MustNumber(1000) })
	assert.Equal(t, "17", pkgnumber.MustNumber(17).String())
}

func TestPoolExhaustedError(t *testing.T) {
	err := pkgnumber.NewPoolExhaustedError("mr-1")

	require.ErrorIs(t, err, pkgnumber.ErrPoolExhausted)
	assert.Equal(t, "mr-1", err.MailroomID)
	assert.Equal(t, 999, err.Capacity)
	assert.Contains(t, err.Error(), "mr-1")
}
