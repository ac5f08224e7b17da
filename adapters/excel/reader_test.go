package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "Yield,Treatment,Block\n4.2,low,1\n5.1,high,1\n3.9,low,2\n")

	frame, err := NewDataReader(path).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"Yield", "Treatment", "Block"}, frame.Headers)
	assert.Len(t, frame.Rows, 3)
	assert.Equal(t, []string{"5.1", "high", "1"}, frame.Rows[1])
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "Yield,Treatment\n")

	_, err := NewDataReader(path).ReadData()
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewDataReader("/nonexistent/data.csv").ReadData()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFileTypeDetection(t *testing.T) {
	assert.Equal(t, "csv", NewDataReader("foo.CSV").fileType)
	assert.Equal(t, "xlsx", NewDataReader("foo.xlsx").fileType)
	assert.Equal(t, "xlsx", NewDataReader("foo").fileType)
}
