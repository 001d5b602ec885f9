package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join(scenarioDir, "scenario_b.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "scenario_b", s.Name)
	assert.Equal(t, 3, s.Players)
	assert.Equal(t, 1, s.Self)
	assert.Equal(t, []string{"Mu", "Sc", "Ro", "Wr", "Ki", "Li"}, s.Hand)
	require.Len(t, s.Events, 2)
	require.NotNil(t, s.Events[0].Suggestion)
	require.NotNil(t, s.Events[0].Suggestion.Disprover)
	assert.Equal(t, 2, *s.Events[0].Suggestion.Disprover)
	assert.Empty(t, s.Events[0].Suggestion.Shown)
	assert.Equal(t, "Ha", s.Events[1].Suggestion.Shown)
	assert.Len(t, s.Assertions, 5)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

const validHeader = `
name: n
description: d
players: 3
self: 0
hand: [Gr, Mu, Ca, Kn, Ba, Bi]
`

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: validHeader + "assertion:\n  - type: contradiction\n",
			want: "field assertion not found",
		},
		{
			name: "missing name",
			yaml: "description: d\nplayers: 3\nhand: [Gr, Mu, Ca, Kn, Ba, Bi]\nassertions:\n  - type: contradiction\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: n\nplayers: 3\nhand: [Gr, Mu, Ca, Kn, Ba, Bi]\nassertions:\n  - type: contradiction\n",
			want: "description is required",
		},
		{
			name: "player count",
			yaml: "name: n\ndescription: d\nplayers: 7\nhand: [Gr]\nassertions:\n  - type: contradiction\n",
			want: "player count 7",
		},
		{
			name: "self out of range",
			yaml: "name: n\ndescription: d\nplayers: 3\nself: 3\nhand: [Gr]\nassertions:\n  - type: contradiction\n",
			want: "self 3",
		},
		{
			name: "hand size",
			yaml: "name: n\ndescription: d\nplayers: 3\nhand: [Gr, Mu]\nassertions:\n  - type: contradiction\n",
			want: "holds 6 cards, got 2",
		},
		{
			name: "unknown card",
			yaml: "name: n\ndescription: d\nplayers: 3\nhand: [Gr, Mu, Ca, Kn, Ba, Zz]\nassertions:\n  - type: contradiction\n",
			want: "unknown card",
		},
		{
			name: "no assertions",
			yaml: validHeader,
			want: "assertions list is required",
		},
		{
			name: "two event kinds",
			yaml: validHeader + "events:\n  - held: {holder: 1, card: Pe}\n    excluded: {holder: 2, card: Pe}\nassertions:\n  - type: contradiction\n",
			want: "exactly one of",
		},
		{
			name: "empty event",
			yaml: validHeader + "events:\n  - {}\nassertions:\n  - type: contradiction\n",
			want: "exactly one of",
		},
		{
			name: "bad holder",
			yaml: validHeader + "events:\n  - held: {holder: 5, card: Pe}\nassertions:\n  - type: contradiction\n",
			want: "neither a seat",
		},
		{
			name: "suggestion with two suspects",
			yaml: validHeader + "events:\n  - suggestion: {by: 1, cards: [Pe, Pl, Lo]}\nassertions:\n  - type: contradiction\n",
			want: "events[0]",
		},
		{
			name: "suggestion with four cards",
			yaml: validHeader + "events:\n  - suggestion: {by: 1, cards: [Pe, Kn, Lo, Ha]}\nassertions:\n  - type: contradiction\n",
			want: "want 3 cards",
		},
		{
			name: "accusation by unknown seat",
			yaml: validHeader + "events:\n  - accusation: {by: 4, cards: [Pe, Kn, Lo]}\nassertions:\n  - type: contradiction\n",
			want: "events[0]",
		},
		{
			name: "unknown assertion",
			yaml: validHeader + "assertions:\n  - type: trace_contains\n",
			want: `unknown type "trace_contains"`,
		},
		{
			name: "assertion without type",
			yaml: validHeader + "assertions:\n  - count: 1\n",
			want: "type is required",
		},
		{
			name: "known hand of the envelope",
			yaml: validHeader + "assertions:\n  - type: known_hand\n    holder: E\n",
			want: "known_hand needs a seat",
		},
		{
			name: "bad murder set",
			yaml: validHeader + "assertions:\n  - type: murder_set\n    cards: [Pe, Kn]\n",
			want: "want 3 cards",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseHolder(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3", 3, false},
		{" 2 ", 2, false},
		{"E", 4, false},
		{"e", 4, false},
		{"envelope", 4, false},
		{"4", 0, true},
		{"-1", 0, true},
		{"P1", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseHolder(tt.in, 4)
		if tt.wantErr {
			assert.Error(t, err, "holder %q", tt.in)
			continue
		}
		require.NoError(t, err, "holder %q", tt.in)
		assert.Equal(t, tt.want, got, "holder %q", tt.in)
	}
}

func TestFindScenarios(t *testing.T) {
	all, err := FindScenarios(scenarioDir, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	some, err := FindScenarios(scenarioDir, "scenario_*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(scenarioDir, "scenario_a.yaml"),
		filepath.Join(scenarioDir, "scenario_b.yaml"),
	}, some)

	_, err = FindScenarios(scenarioDir, "[")
	assert.ErrorContains(t, err, "invalid filter")
}

func TestFindScenarios_SkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.yaml"), nil, 0o644))

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)
}
