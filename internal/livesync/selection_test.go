package livesync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelection_OfferOnlyWhileUnset(t *testing.T) {
	var changes []string
	sel := NewSelection(func(id string) { changes = append(changes, id) })

	require.False(t, sel.Offer(""))
	require.True(t, sel.Offer("p1"))
	require.False(t, sel.Offer("p2"))

	id, ok := sel.Current()
	require.True(t, ok)
	require.Equal(t, "p1", id)
	require.Equal(t, []string{"p1"}, changes)
}

func TestSelection_ExplicitDeselectIsNeverOverridden(t *testing.T) {
	sel := NewSelection(nil)
	sel.Deselect()

	require.False(t, sel.Offer("p1"))
	_, ok := sel.Current()
	require.False(t, ok)

	sel.Select("p2")
	id, ok := sel.Current()
	require.True(t, ok)
	require.Equal(t, "p2", id)
}

func TestSelection_SelectNotifiesOnChangeOnly(t *testing.T) {
	var changes []string
	sel := NewSelection(func(id string) { changes = append(changes, id) })

	sel.Select("p1")
	sel.Select("p1")
	sel.Select("p2")
	sel.Select("")
	sel.Deselect()

	require.Equal(t, []string{"p1", "p2", ""}, changes)
}

func TestSelection_ResetAllowsNewDefault(t *testing.T) {
	var changes []string
	sel := NewSelection(func(id string) { changes = append(changes, id) })

	sel.Select("f1")
	sel.Reset()
	_, ok := sel.Current()
	require.False(t, ok)

	require.True(t, sel.Offer("f2"))
	require.Equal(t, []string{"f1", "", "f2"}, changes)
}
