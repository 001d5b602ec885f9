package record

import (
	"fmt"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
	"github.com/roach88/speedclue/internal/referee"
)

// Payload field names.
const (
	fieldKind      = "kind"
	fieldRound     = "round"
	fieldSeat      = "seat"
	fieldTriplet   = "triplet"
	fieldDisprover = "disprover"
	fieldShown     = "shown"
	fieldWon       = "won"
	fieldViolation = "violation"
	fieldDetail    = "detail"
)

// Codes encodes cards as their two-letter codes.
func Codes(cards []card.Card) Array {
	out := make(Array, len(cards))
	for i, c := range cards {
		out[i] = String(c.Code())
	}
	return out
}

func tripletValue(t card.Triplet) Array {
	cs := t.Cards()
	return Codes(cs[:])
}

// EncodeEvent builds the payload of a referee event. Seq is not part of
// the payload; it is stored beside it.
func EncodeEvent(e referee.Event) Object {
	obj := Object{
		fieldKind:  String(e.Kind),
		fieldRound: Int(e.Round),
		fieldSeat:  Int(e.Seat),
	}
	switch e.Kind {
	case referee.EventSuggestion:
		obj[fieldTriplet] = tripletValue(e.Triplet)
		if e.Disprover != nil {
			obj[fieldDisprover] = Int(*e.Disprover)
		}
		if e.Shown != nil {
			obj[fieldShown] = String(e.Shown.Code())
		}
	case referee.EventAccusation:
		obj[fieldTriplet] = tripletValue(e.Triplet)
		obj[fieldWon] = Bool(e.Won)
	case referee.EventViolation:
		obj[fieldViolation] = String(e.Violation)
		obj[fieldDetail] = String(e.Detail)
	}
	return obj
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(seq int, obj Object) (referee.Event, error) {
	e := referee.Event{Seq: seq}
	kind, err := obj.Str(fieldKind)
	if err != nil {
		return e, err
	}
	e.Kind = referee.EventKind(kind)
	if e.Round, err = obj.Int(fieldRound); err != nil {
		return e, err
	}
	if e.Seat, err = obj.Int(fieldSeat); err != nil {
		return e, err
	}

	switch e.Kind {
	case referee.EventSuggestion:
		if e.Triplet, err = decodeTriplet(obj); err != nil {
			return e, err
		}
		if obj.Has(fieldDisprover) {
			d, err := obj.Int(fieldDisprover)
			if err != nil {
				return e, err
			}
			e.Disprover = game.Seat(d)
		}
		if obj.Has(fieldShown) {
			code, err := obj.Str(fieldShown)
			if err != nil {
				return e, err
			}
			c, err := card.ParseCode(code)
			if err != nil {
				return e, err
			}
			e.Shown = game.Shown(c)
		}
	case referee.EventAccusation:
		if e.Triplet, err = decodeTriplet(obj); err != nil {
			return e, err
		}
		if e.Won, err = obj.Bool(fieldWon); err != nil {
			return e, err
		}
	case referee.EventViolation:
		v, err := obj.Str(fieldViolation)
		if err != nil {
			return e, err
		}
		e.Violation = referee.ViolationKind(v)
		if e.Detail, err = obj.Str(fieldDetail); err != nil {
			return e, err
		}
	default:
		return e, fmt.Errorf("%w: unknown event kind %q", ErrField, kind)
	}
	return e, nil
}

func decodeTriplet(obj Object) (card.Triplet, error) {
	codes, err := obj.Strings(fieldTriplet)
	if err != nil {
		return card.Triplet{}, err
	}
	return card.ParseTriplet(codes)
}

// EncodeDeal builds the object DealHash fingerprints.
func EncodeDeal(d referee.Deal) Object {
	hands := make(Array, len(d.Hands))
	for i, h := range d.Hands {
		hands[i] = Codes(h)
	}
	names := make(Array, len(d.Names))
	for i, n := range d.Names {
		names[i] = String(n)
	}
	return Object{
		"names":    names,
		"solution": tripletValue(d.Solution),
		"hands":    hands,
	}
}
