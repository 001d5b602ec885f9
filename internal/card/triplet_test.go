package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTripletAnyOrder(t *testing.T) {
	want := Triplet{ProfPlum, Knife, Lounge}

	got, err := NewTriplet(Lounge, ProfPlum, Knife)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, got.Valid())
	assert.Equal(t, [3]Card{ProfPlum, Knife, Lounge}, got.Cards())
}

func TestNewTripletRejectsDuplicateCategory(t *testing.T) {
	_, err := NewTriplet(ProfPlum, MrGreen, Lounge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two suspect cards")

	_, err = NewTriplet(ProfPlum, Card{}, Lounge)
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestTripletAccessors(t *testing.T) {
	tr := MustTriplet(MissScarlet, Rope, Hall)
	assert.Equal(t, MissScarlet, tr.Get(Suspect))
	assert.Equal(t, Rope, tr.Get(Weapon))
	assert.Equal(t, Hall, tr.Get(Room))
	assert.True(t, tr.Contains(Rope))
	assert.False(t, tr.Contains(Knife))
	assert.Equal(t, "Sc Ro Ha", tr.Codes())
	assert.Equal(t, "{MissScarlet, Rope, Hall}", tr.String())
}

func TestParseTriplet(t *testing.T) {
	tr, err := ParseTriplet([]string{"Kn", "Lo", "Pl"})
	require.NoError(t, err)
	assert.Equal(t, Triplet{ProfPlum, Knife, Lounge}, tr)

	_, err = ParseTriplet([]string{"Kn", "Lo"})
	assert.Error(t, err)

	_, err = ParseTriplet([]string{"Kn", "Lo", "Xx"})
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestAllTriplets(t *testing.T) {
	all := AllTriplets()
	assert.Len(t, all, 324)
	seen := make(map[Triplet]bool, len(all))
	for _, tr := range all {
		assert.True(t, tr.Valid())
		seen[tr] = true
	}
	assert.Len(t, seen, 324)
}

func TestMustTripletPanics(t *testing.T) {
	assert.Panics(t, func() { MustTriplet(Knife, Rope, Hall) })
}
