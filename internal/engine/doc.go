// Package engine implements the card-possession inference engine.
//
// Each agent owns one Engine per game. The engine turns partial information
// about a Speed Clue game into hard facts about who holds which card, and
// eventually into a provable accusation.
//
// ARCHITECTURE:
//
// Possession Matrix:
// For every card, the set of holders that might still hold it. Holders are
// the seats 0..N-1 plus one extra slot N for the envelope. The envelope is an
// ordinary holder: every rule treats it exactly like a seat.
//
// Constraint Store:
// Pending facts deduced from ambiguous events, in arrival order:
//   - NotAllThree(h, T): h does not hold every card of T
//   - AtLeastOneOf(h, T): h holds at least one card of T
//
// A constraint is removed from the store the moment it resolves into a
// matrix edit. The store only ever contains facts that are still open.
//
// Quota Rules:
// Fixed "holder h holds exactly k of these cards" facts: one card of each
// category for the envelope and the dealt hand size over the whole deck for
// every seat. A quota is tightened two ways:
//   - Cornering: when k cards can only be with h, h holds nothing else.
//   - Forcing: when h might hold exactly k cards, it holds all of them.
//
// Fixpoint:
// ProcessInferences alternates constraint resolution and quota tightening
// until a full pass changes nothing. Every productive pass removes at least
// one possibility from a finite matrix or retires a constraint, so the loop
// terminates; a pass limit guards against a broken rule regardless.
//
// CONTRADICTIONS:
//
// A feasible set that would become empty, or two hard assignments that
// conflict, can only come from an inconsistent event stream. The Matrix
// panics with *ContradictionError; the Engine recovers it, returns it, and
// refuses further work until the agent resets for the next game.
//
// The engine is deterministic and single-threaded. It never reads a clock
// or a random source.
package engine
