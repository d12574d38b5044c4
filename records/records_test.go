package records

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetFirstWriterWins(t *testing.T) {
	var field string

	Set(&field, "Republican")
	require.Equal(t, "Republican", field)

	Set(&field, "Democrat")
	require.Equal(t, "Republican", field, "a later writer must not overwrite an earlier one")
}

func TestSetRejectsEmptyAndSentinel(t *testing.T) {
	var field string

	Set(&field, "")
	require.Empty(t, field)

	Set(&field, "   ")
	require.Empty(t, field)

	Set(&field, NoDataSentinel)
	require.Empty(t, field)

	// Prefix match: the portal sometimes appends markup noise.
	Set(&field, "No Data Provided ")
	require.Empty(t, field)

	Set(&field, "(555) 123-4567")
	require.Equal(t, "(555) 123-4567", field)
}

func TestIsNoData(t *testing.T) {
	require.True(t, IsNoData(""))
	require.True(t, IsNoData("No Data Provided"))
	require.True(t, IsNoData("  No Data Provided"))
	require.False(t, IsNoData("@somehandle"))
}

func TestAssembleName(t *testing.T) {
	d := &Detail{FirstName: "Jane", LastName: "Doe"}
	d.AssembleName()
	require.Equal(t, "Jane Doe", d.Name)

	d = &Detail{FirstName: "Jane", MiddleName: "Q", LastName: "Doe"}
	d.AssembleName()
	require.Equal(t, "Jane Q Doe", d.Name)

	d = &Detail{Name: "existing"}
	d.AssembleName()
	require.Equal(t, "existing", d.Name, "no components means the name is left alone")
}
