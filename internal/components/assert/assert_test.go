package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type clock interface{ Now() int }

type fixed struct{}

func (*fixed) Now() int { return 0 }

func TestNotNil(t *testing.T) {
	var typedNil *fixed
	var iface clock = typedNil

	require.PanicsWithValue(t, "assert: value must not be nil", func() { NotNil(nil) })
	require.PanicsWithValue(t, "assert: clock must not be nil", func() { NotNil(iface, "clock") })
	require.NotPanics(t, func() { NotNil(&fixed{}) })
	require.NotPanics(t, func() { NotNil(0) })
}
