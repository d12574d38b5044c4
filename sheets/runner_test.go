package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voterlookup/records"
)

type fakeClient struct {
	names     []CellValue
	populated map[int]bool
	gotLimit  int
	updates   []int
	written   map[int][]string
}

func (f *fakeClient) ReadColumn(_ context.Context, _, _, _ string, _, limit int) ([]CellValue, error) {
	f.gotLimit = limit
	return f.names, nil
}

func (f *fakeClient) UpdateRow(_ context.Context, _, _ string, row int, _ string, values []string) error {
	f.updates = append(f.updates, row)
	if f.written == nil {
		f.written = map[int][]string{}
	}
	f.written[row] = values
	return nil
}

func (f *fakeClient) IsRowPopulated(_ context.Context, _, _, _ string, row int) (bool, error) {
	return f.populated[row], nil
}

func TestRunnerSkipsPopulatedAndHonorsLimit(t *testing.T) {
	client := &fakeClient{
		names: []CellValue{
			{Value: "Jane Doe", Row: 2},
			{Value: "John Doe", Row: 3},
			{Value: "Mary Major", Row: 4},
			{Value: "Richard Roe", Row: 5},
			{Value: "Sam Sample", Row: 6},
		},
		populated: map[int]bool{2: true, 3: true},
	}

	searched := []string{}
	search := func(name string) ([]records.Summary, error) {
		searched = append(searched, name)
		return []records.Summary{{Name: name, City: "Austin"}}, nil
	}

	r := NewRunner(client, search, RunnerConfig{
		SpreadsheetID:      "sheet-id",
		SheetName:          "Sheet1",
		NameColumn:         "A",
		ResultsStartColumn: "B",
		StartRow:           2,
		RowLimit:           3,
	}, zap.NewNop())

	updated, err := r.Run(context.Background())
	require.NoError(t, err)

	// The limit of three covers rows 2 (skip), 3 (skip), and 4 (search),
	// then stops: skipped rows count against it too, so exactly one row is
	// looked up and updated.
	require.Equal(t, 1, updated)
	require.Equal(t, []string{"Mary Major"}, searched)
	require.Equal(t, []int{4}, client.updates)
	require.Equal(t, "Mary Major", client.written[4][1])
	require.Equal(t, 3, client.gotLimit, "the column read is bounded by the row limit")
}

func TestRunnerMarksFailedLookups(t *testing.T) {
	client := &fakeClient{names: []CellValue{{Value: "Jane Doe", Row: 2}}}
	search := func(string) ([]records.Summary, error) {
		return nil, context.DeadlineExceeded
	}

	r := NewRunner(client, search, RunnerConfig{ResultsStartColumn: "B"}, zap.NewNop())
	updated, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, updated)
	require.Equal(t, []string{"NOT FOUND"}, client.written[2])
}

func TestRowValues(t *testing.T) {
	require.Equal(t, []string{"NOT FOUND"}, RowValues(nil))

	vals := RowValues([]records.Summary{
		{Name: "Jane Doe", City: "Austin", State: "TX", ZipCode: "78701", CalculatedParty: "Republican"},
		{Name: "Jane A Doe"},
	})
	require.Equal(t, "2", vals[0])
	require.Equal(t, "Jane Doe", vals[1])
	require.Equal(t, "Republican", vals[8])
}
