package agent

import (
	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

// Deducer plays from the inference engine. It suggests what its policy
// picks and accuses only once the murder set is determined.
type Deducer struct {
	obs    *Observer
	policy Policy
}

// NewDeducer creates a Deducer using policy for suggestions.
func NewDeducer(policy Policy, opts ...Option) *Deducer {
	return &Deducer{obs: NewObserver(opts...), policy: policy}
}

// Observer exposes the deducer's knowledge.
func (d *Deducer) Observer() *Observer {
	return d.obs
}

// Reset implements Agent.
func (d *Deducer) Reset(r game.Reset) error {
	if err := d.obs.Reset(r); err != nil {
		return err
	}
	d.policy.Reset(r.PlayerCount, r.Self)
	return nil
}

// Suggestion implements Agent.
func (d *Deducer) Suggestion(s game.Suggestion) error {
	return d.obs.Suggestion(s)
}

// Accusation implements Agent.
func (d *Deducer) Accusation(a game.Accusation) error {
	return d.obs.Accusation(a)
}

// Suggest implements Agent.
func (d *Deducer) Suggest() (card.Triplet, error) {
	t, err := d.policy.Next(d.obs)
	if err != nil {
		return card.Triplet{}, err
	}
	d.obs.logger().Debug("suggesting", "seat", d.obs.Self(), "triplet", t.Codes())
	return t, nil
}

// Accuse implements Agent.
func (d *Deducer) Accuse() (card.Triplet, bool, error) {
	e := d.obs.Engine()
	if e == nil {
		return card.Triplet{}, false, ErrNotReset
	}
	if err := e.Err(); err != nil {
		return card.Triplet{}, false, err
	}
	t, ok := e.CandidateMurderSet()
	if ok {
		d.obs.logger().Info("accusing", "seat", d.obs.Self(), "triplet", t.Codes())
	}
	return t, ok, nil
}

// Disprove implements Agent.
func (d *Deducer) Disprove(asker int, t card.Triplet) (card.Card, bool, error) {
	return d.obs.DisproveCard(asker, t)
}
