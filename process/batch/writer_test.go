package batch

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fitocr/pkg/workout"
)

var sampleRows = []workout.Row{
	{Date: "2024-05-01", ClockTime: "07:42", Mode: "corsa", StartLocation: "Milano", EndLocation: "Monza", TotalTime: "1:10:00", DistanceKM: "8.4", Pause: "10:00", Calories: "612"},
	{Date: "2024-05-02", ClockTime: "18:04:05", Mode: "bici", StartLocation: "Casa", EndLocation: "Lavoro"},
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path, explicit string
		want           Format
	}{
		{"output.csv", "", FormatCSV},
		{"out/rows.parquet", "", FormatParquet},
		{"rows.YML", "", FormatYAML},
		{"rows", "", FormatCSV},
		{"rows.csv", "yaml", FormatYAML},
		{"rows.csv", "yml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path, tt.explicit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}
	_, err := DetectFormat("rows.csv", "xlsx")
	assert.Error(t, err)
}

func TestWriteRows_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, FormatCSV, sampleRows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, workout.Header, records[0])
	assert.Equal(t, sampleRows[0].Strings(), records[1])
	assert.Equal(t, "", records[2][5], "missing total time is an empty cell")
}

func TestWriteRows_CSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, FormatCSV, nil))
	assert.Equal(t, "date,clock_time,mode,start_location,end_location,total_time,distance_km,pause,calories\n", buf.String())
}

func TestWriteRows_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, FormatYAML, sampleRows))

	var back []workout.Row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sampleRows, back)
}

func TestWriteFile_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rows.parquet")
	require.NoError(t, WriteFile(path, FormatParquet, sampleRows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)
	pf, err := parquet.OpenFile(f, info.Size())
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleRows)), pf.NumRows())

	reader := parquet.NewGenericReader[workout.Row](pf)
	defer reader.Close()
	got := make([]workout.Row, len(sampleRows))
	n, _ := reader.Read(got)
	require.Equal(t, len(sampleRows), n)
	assert.Equal(t, sampleRows, got)
}
