// Package harness runs inference scenarios against the engine.
//
// A scenario is one seat's view of a game: the deal it received, the
// suggestions and accusations it observed, and any facts injected directly
// into the engine. Assertions check what the engine concluded.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario checks"
//	players: 3
//	self: 0
//	hand: [Gr, Mu, Ca, Kn, Ba, Bi]
//	events:
//	  - suggestion: {by: 0, cards: [Wh, Re, Lo]}
//	  - suggestion: {by: 1, cards: [Pe, Pi, Ha], disprover: 0, shown: Ha}
//	  - accusation: {by: 2, cards: [Pl, Kn, Lo], won: false}
//	  - held: {holder: E, card: Wh}
//	  - excluded: {holder: 2, card: Co}
//	assertions:
//	  - type: murder_set
//	    cards: [Wh, Re, Lo]
//	  - type: held
//	    holder: 0
//	    card: Ha
//
// Cards are wire codes or long names. A holder is a seat number or E for
// the envelope.
//
// # Assertion Types
//
//   - murder_set: the candidate murder set, or none when cards is empty
//   - held, excluded: one matrix cell
//   - undetermined_count: cards with more than one possible holder
//   - pending_constraints: open constraints after the last event
//   - known_hand: a seat's fully determined hand
//   - contradiction: the events are inconsistent
//
// Scenarios can also be compared against golden snapshots of the final
// engine state with RunWithGolden.
package harness
