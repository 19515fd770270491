package ll5

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParam(t *testing.T) {
	_, ok := Free().Value()
	require.False(t, ok)
	require.Equal(t, KindFree, Param{}.Kind())
	require.Equal(t, "free", Free().String())

	v, ok := Seed(2.5).Value()
	require.True(t, ok)
	require.Equal(t, 2.5, v)
	require.False(t, Seed(2.5).IsFixed())
	require.Equal(t, "seeded(2.5)", Seed(2.5).String())

	v, ok = Fix(10).Value()
	require.True(t, ok)
	require.Equal(t, 10.0, v)
	require.True(t, Fix(10).IsFixed())
	require.Equal(t, "fixed(10)", Fix(10).String())
}

func TestConstraints(t *testing.T) {
	cons := Constraints{IndexC: Fix(0), IndexE: Seed(4), IndexF: Fix(1)}

	require.Equal(t, []int{IndexC, IndexF}, cons.FixedIndices())
	require.Equal(t, 3, cons.FreeCount())
	require.Equal(t, NumParams, Constraints{}.FreeCount())
	require.NoError(t, cons.validate())
}

func TestConstraints_Validate(t *testing.T) {
	tests := []struct {
		name string
		cons Constraints
	}{
		{name: "NaN fixed", cons: Constraints{IndexB: Fix(math.NaN())}},
		{name: "Inf seed", cons: Constraints{IndexE: Seed(math.Inf(1))}},
		{name: "unknown kind", cons: Constraints{IndexD: Param{kind: 9}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.cons.validate(), ErrInvalidInput)
		})
	}
}

func TestFixOptional(t *testing.T) {
	d, f := 10.0, 1.0
	cons := FixOptional([NumParams]*float64{nil, nil, &d, nil, &f})

	require.Equal(t, Constraints{IndexD: Fix(10), IndexF: Fix(1)}, cons)

	// later changes to the caller's variables do not leak in
	d = 3
	require.Equal(t, Fix(10), cons[IndexD])
}
