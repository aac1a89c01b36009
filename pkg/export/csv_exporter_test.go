package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterDefaults(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"StudentId", "Name", "TotalCo2"},
		Rows: []map[string]string{
			{"StudentId": "HS001", "Name": "Nguyen Van A", "TotalCo2": "2,50"},
			{},
			{"StudentId": "HS002", "Name": "Tran Thi B", "TotalCo2": "0,00"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "\xef\xbb\xbf"), "expected UTF-8 BOM prefix")

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(text, "\xef\xbb\xbf"), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "StudentId;Name;TotalCo2", lines[0])
	assert.Equal(t, "HS001;Nguyen Van A;2,50", lines[1])
	assert.Equal(t, ";;", lines[2])
	assert.Equal(t, "HS002;Tran Thi B;0,00", lines[3])
}

func TestCSVExporterCustomDelimiter(t *testing.T) {
	exporter := &CSVExporter{Delimiter: ','}
	out, err := exporter.Render(Dataset{
		Headers: []string{"A", "B"},
		Rows:    []map[string]string{{"A": "1", "B": "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A,B\n1,2\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}
