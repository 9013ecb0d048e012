package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// readTestdata reads a file from the testdata directory
func readTestdata(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", filename, err)
	}
	return string(data)
}

func TestAttributes_GroupsClustersInDocumentOrder(t *testing.T) {
	records, err := Attributes(readTestdata(t, "attributes.html"))
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, tournament.RawRecord{
		Name:     "ITF J60 Rome",
		Location: "Rome, ITA",
		Start:    "12 Jan 2025",
		End:      "18 Jan 2025",
		Surface:  "Clay",
	}, records[0])
	assert.Equal(t, "ITF J100 Cairo", records[1].Name)
	assert.Equal(t, tournament.RawRecord{
		Name:     "ITF J30 Nairobi",
		Location: "Nairobi, KEN",
		Start:    "26 Jan 2025",
		Surface:  "Hard",
	}, records[2])
}

func TestAttributes_LeadingFieldsJoinFollowingName(t *testing.T) {
	html := `<div data-surface="Clay" data-end-date="1 Jan 2025"></div>
	<div data-tournament-name="Clay Cup"></div>`

	records, err := Attributes(html)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, tournament.RawRecord{Name: "Clay Cup", Surface: "Clay", End: "1 Jan 2025"}, records[0])
}

func TestAttributes_SurfaceOnlyClusterIsDropped(t *testing.T) {
	html := `<div data-surface="Clay"></div><div data-surface="Hard"></div>`

	records, err := Attributes(html)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAttributes_TrimsAndSkipsBlankValues(t *testing.T) {
	html := `<div data-tournament-name="  Spaced  " data-location="   "></div>`

	records, err := Attributes(html)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, tournament.RawRecord{Name: "Spaced"}, records[0])
}

func TestAttributes_LocationBeforeName(t *testing.T) {
	html := `<div data-location="Rome, ITA"><span data-tournament-name="A"></span></div>
	<div data-location="Cairo, EGY"><span data-tournament-name="B"></span></div>`

	records, err := Attributes(html)
	require.NoError(t, err)

	assert.Equal(t, []tournament.RawRecord{
		{Name: "A", Location: "Rome, ITA"},
		{Name: "B", Location: "Cairo, EGY"},
	}, records)
}

func TestTable_ReadsFirstFourCells(t *testing.T) {
	records, err := Table(readTestdata(t, "table.html"))
	require.NoError(t, err)

	require.Len(t, records, 10)
	assert.Equal(t, tournament.RawRecord{
		Name:     "ITF J30 Doha",
		Location: "Doha, QAT",
		Start:    "02 Feb 2025",
		Surface:  "Hard",
	}, records[0])
	assert.True(t, records[9].IsEmpty(), "empty rows are kept until normalization")
}

func TestPage_AttributeStrategy(t *testing.T) {
	res, err := Page(readTestdata(t, "attributes.html"))
	require.NoError(t, err)

	assert.Equal(t, StrategyAttributes, res.Strategy)
	assert.Len(t, res.Records, 3)
}

func TestPage_FallsBackToTable(t *testing.T) {
	res, err := Page(readTestdata(t, "table.html"))
	require.NoError(t, err)

	assert.Equal(t, StrategyTable, res.Strategy)
	assert.Len(t, res.Records, 10)
	for _, r := range res.Records {
		assert.NotEqual(t, "ITF J200 Offenbach", r.Name, "attribute records are replaced by table rows")
	}
}

func TestPage_KeepsFewAttributeRecordsWithoutTable(t *testing.T) {
	html := `<div data-tournament-name="Only One" data-location="Rome, ITA"></div>`

	res, err := Page(html)
	require.NoError(t, err)

	assert.Equal(t, StrategyAttributes, res.Strategy)
	assert.Equal(t, []tournament.RawRecord{{Name: "Only One", Location: "Rome, ITA"}}, res.Records)
}

func TestPage_NothingFound(t *testing.T) {
	res, err := Page(`<html><body><p>No events</p></body></html>`)
	require.NoError(t, err)

	assert.Equal(t, StrategyNone, res.Strategy)
	assert.Empty(t, res.Records)
}

func TestAttributes_RepeatedValueOnChildKeepsRecordOpen(t *testing.T) {
	html := `<li data-tournament-name="A" data-location="Rome, ITA"><span data-location="Rome, ITA"></span></li>
	<li data-tournament-name="B" data-location="Cairo, EGY"></li>`

	records, err := Attributes(html)
	require.NoError(t, err)

	assert.Equal(t, []tournament.RawRecord{
		{Name: "A", Location: "Rome, ITA"},
		{Name: "B", Location: "Cairo, EGY"},
	}, records)
}

func TestAttributes_ChangedValueStartsNewRecord(t *testing.T) {
	html := `<div data-tournament-name="A" data-surface="Clay"></div>
	<div data-surface="Hard" data-tournament-name="B"></div>`

	records, err := Attributes(html)
	require.NoError(t, err)

	assert.Equal(t, []tournament.RawRecord{
		{Name: "A", Surface: "Clay"},
		{Name: "B", Surface: "Hard"},
	}, records)
}
