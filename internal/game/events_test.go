package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/speedclue/internal/card"
)

func TestResetValidate(t *testing.T) {
	hand := []card.Card{card.MrGreen, card.MrsPeacock, card.LeadPipe, card.Candlestick, card.MonkeyWrench}

	assert.NoError(t, Reset{PlayerCount: 4, Self: 0, Hand: hand}.Validate())

	// Seat 3 of 4 holds only four cards.
	err := Reset{PlayerCount: 4, Self: 3, Hand: hand}.Validate()
	assert.ErrorIs(t, err, ErrInvalidEvent)

	dup := append([]card.Card(nil), hand[:4]...)
	dup = append(dup, card.MrGreen)
	assert.ErrorIs(t, Reset{PlayerCount: 4, Self: 0, Hand: dup}.Validate(), ErrInvalidEvent)

	assert.ErrorIs(t, Reset{PlayerCount: 4, Self: 4, Hand: hand}.Validate(), ErrInvalidEvent)
	assert.ErrorIs(t, Reset{PlayerCount: 9, Self: 0, Hand: hand}.Validate(), ErrInvalidEvent)
}

func TestSuggestionValidate(t *testing.T) {
	tr := card.MustTriplet(card.ProfPlum, card.Knife, card.Lounge)

	tests := []struct {
		name    string
		s       Suggestion
		wantErr bool
	}{
		{"undisproved", Suggestion{Suggester: 0, Triplet: tr}, false},
		{"disproved unseen", Suggestion{Suggester: 0, Triplet: tr, Disprover: Seat(2)}, false},
		{"disproved seen", Suggestion{Suggester: 0, Triplet: tr, Disprover: Seat(2), Shown: Shown(card.Knife)}, false},
		{"suggester out of range", Suggestion{Suggester: 5, Triplet: tr}, true},
		{"self disproof", Suggestion{Suggester: 1, Triplet: tr, Disprover: Seat(1)}, true},
		{"shown without disprover", Suggestion{Suggester: 0, Triplet: tr, Shown: Shown(card.Knife)}, true},
		{"shown outside triplet", Suggestion{Suggester: 0, Triplet: tr, Disprover: Seat(1), Shown: Shown(card.Rope)}, true},
		{"bad triplet", Suggestion{Suggester: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate(4)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEvent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSuggestionDisproved(t *testing.T) {
	tr := card.MustTriplet(card.ProfPlum, card.Knife, card.Lounge)
	assert.False(t, Suggestion{Triplet: tr}.Disproved())
	assert.True(t, Suggestion{Triplet: tr, Disprover: Seat(0)}.Disproved())
}

func TestAccusationValidate(t *testing.T) {
	tr := card.MustTriplet(card.ProfPlum, card.Knife, card.Lounge)
	assert.NoError(t, Accusation{Accuser: 2, Triplet: tr}.Validate(3))
	assert.ErrorIs(t, Accusation{Accuser: 3, Triplet: tr}.Validate(3), ErrInvalidEvent)
	assert.ErrorIs(t, Accusation{Accuser: 0}.Validate(3), ErrInvalidEvent)
}
