package listing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	id       string
	name     string
	active   bool
	category string
}

func (r row) ItemID() string      { return r.id }
func (r row) SearchText() string  { return r.name }
func (r row) ItemActive() bool    { return r.active }
func (r row) CategoryRef() string { return r.category }

func sampleRows() []row {
	return []row{
		{id: "1", name: "Hair Spa", active: true, category: "c1"},
		{id: "2", name: "Manicure", active: true, category: "c2"},
		{id: "3", name: "Old Facial", active: false, category: "c1"},
	}
}

func TestViewFiltersSearchStatusCategory(t *testing.T) {
	c := NewCollection(sampleRows())

	require.Len(t, c.View(Filter{}), 3)
	require.Len(t, c.View(Filter{Search: "spa"}), 1)
	require.Len(t, c.View(Filter{Status: "active"}), 2)
	require.Len(t, c.View(Filter{Status: "inactive"}), 1)
	require.Len(t, c.View(Filter{Category: "c1"}), 2)
	require.Len(t, c.View(Filter{Category: "c1", Status: "active"}), 1)
}

func TestViewNeverNil(t *testing.T) {
	c := NewCollection([]row{})
	view := c.View(Filter{Search: "nothing"})
	require.NotNil(t, view)
	require.Empty(t, view)
}

func TestRemoveOptimistically(t *testing.T) {
	c := NewCollection(sampleRows())
	require.True(t, c.Remove("2"))
	require.False(t, c.Remove("2"))
	require.Equal(t, 2, c.Len())
}

func TestConfirmed(t *testing.T) {
	require.True(t, Confirmed("Hair Spa", "Hair Spa"))
	require.True(t, Confirmed("Hair Spa", "  hair spa "))
	require.False(t, Confirmed("Hair Spa", ""))
	require.False(t, Confirmed("Hair Spa", "Hair"))
}

func TestExportCSVUsesColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	err := ExportCSV(&buf, []string{"Name", "Status"}, []map[string]string{
		{"Name": "Hair Spa", "Status": "Active"},
		{"Name": "Manicure", "Status": "Active"},
	})
	require.NoError(t, err)
	require.Equal(t, "Name,Status\nHair Spa,Active\nManicure,Active\n", buf.String())
}
