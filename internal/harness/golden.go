package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/speedclue/internal/agent"
)

// RunWithGolden runs a scenario and compares its final engine snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...agent.Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, GoldenBytes(name, result))
}

// GoldenBytes is the golden file content for a result.
func GoldenBytes(name string, result *Result) []byte {
	return []byte("# " + name + "\n" + result.Snapshot)
}
