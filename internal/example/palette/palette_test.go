package palette

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any]() (names []string, values []*T) {
	for name, v := range iter[T]() {
		names = append(names, name)
		values = append(values, v)
	}
	return names, values
}

func TestIter_FiltersByExactType(t *testing.T) {
	levels, lv := collect[Level]()
	assert.Equal(t, []string{"Debug", "Info", "Warn"}, levels)
	require.Len(t, lv, 3)
	assert.Equal(t, Info, *lv[1])

	names, nv := collect[Name]()
	assert.Equal(t, []string{"Primary", "Secondary"}, names)
	assert.Same(t, &Primary, nv[0])

	none, _ := collect[float64]()
	assert.Empty(t, none)

	// Level's underlying type does not match.
	bytes, _ := collect[uint8]()
	assert.Empty(t, bytes)

	durations, dv := collect[time.Duration]()
	assert.Equal(t, []string{"Timeout"}, durations)
	assert.Equal(t, 5*time.Second, *dv[0])

	units, _ := collect[struct{}]()
	assert.Equal(t, []string{"Nothing"}, units)
}

func TestIter_ConstantsAreFreshCopies(t *testing.T) {
	_, first := collect[Level]()
	_, second := collect[Level]()

	*first[0] = Warn
	assert.Equal(t, Debug, *second[0])
	assert.Equal(t, Level(0), Debug)
}

func TestIter_VariablesAreShared(t *testing.T) {
	_, arrays := collect[[3]*uint8]()
	require.Len(t, arrays, 1)

	w := uint8(9)
	arrays[0][1] = &w
	t.Cleanup(func() { Weights[1] = nil })

	require.NotNil(t, Weights[1])
	assert.Equal(t, uint8(9), *Weights[1])
}

func TestIter_StopsEarly(t *testing.T) {
	var seen []string
	for name := range iter[Level]() {
		seen = append(seen, name)
		if name == "Info" {
			break
		}
	}
	assert.Equal(t, []string{"Debug", "Info"}, seen)
}

func TestIter_Restartable(t *testing.T) {
	seq := iter[Name]()
	var runs [][]string
	for i := 0; i < 2; i++ {
		var names []string
		for name := range seq {
			names = append(names, name)
		}
		runs = append(runs, names)
	}
	assert.Equal(t, runs[0], runs[1])
}

func TestTables(t *testing.T) {
	require.Len(t, consts, 4)
	assert.Equal(t, "Timeout", consts[3].Name)
	assert.Equal(t, itemDuration{Value: Timeout}, consts[3].Value)

	require.Len(t, statics, 4)
	names := make([]string, len(statics))
	for i, e := range statics {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Primary", "Secondary", "Weights", "Nothing"}, names)

	ref, ok := statics[0].Value.(itemName)
	require.True(t, ok)
	assert.Same(t, &Primary, ref.Value)
}
