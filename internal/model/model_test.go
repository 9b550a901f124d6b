package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns([]string{"team", " Phase ", "possession"})
	require.NoError(t, err)
	assert.Equal(t, []Column{ColTeam, ColPhase, ColPossession}, cols)

	_, err = ParseColumns([]string{"team", "formation"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	cols, err = ParseColumns(nil)
	require.NoError(t, err)
	assert.Nil(t, cols)
}

func TestSchemaRequire(t *testing.T) {
	s := EventSchema().Without(ColMatchID)
	assert.False(t, s.Has(ColMatchID))
	assert.True(t, s.Has(ColTeam))

	err := s.Require(ColTeam, ColMatchID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "match_id")

	assert.NoError(t, s.Require(ColX, ColY, ColPlayer))
}

func TestFloatPropagation(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid)
	assert.False(t, Some(math.Inf(1)).Valid)

	h := Hypot(Some(3), Some(4))
	require.True(t, h.Valid)
	assert.InDelta(t, 5.0, h.Value, 1e-12)

	assert.False(t, Hypot(Some(3), Undefined()).Valid)
	assert.False(t, Hypot(Undefined(), Some(4)).Valid)

	assert.Equal(t, Some(1.24), Some(1.235001).Round(2))
	assert.False(t, Undefined().Round(2).Valid)
	assert.Equal(t, "—", Undefined().Format(2))
	assert.Equal(t, "2.50", Some(2.5).Format(2))
}

func TestFloatScan(t *testing.T) {
	var f Float
	require.NoError(t, f.Scan(nil))
	assert.False(t, f.Valid)

	require.NoError(t, f.Scan(12.5))
	assert.Equal(t, Some(12.5), f)

	require.NoError(t, f.Scan(int64(7)))
	assert.Equal(t, Some(7), f)

	assert.Error(t, f.Scan(true))
	assert.Nil(t, Undefined().Nullable())
	assert.Equal(t, 1.5, Some(1.5).Nullable())
}

func TestGroupKey(t *testing.T) {
	k := GroupKey{Columns: []Column{ColTeam, ColPhase}, Values: []string{"Spain", "defending"}}
	v, ok := k.Get(ColPhase)
	require.True(t, ok)
	assert.Equal(t, "defending", v)
	_, ok = k.Get(ColPossession)
	assert.False(t, ok)
	assert.Equal(t, "team=Spain,phase=defending", k.String())
}
