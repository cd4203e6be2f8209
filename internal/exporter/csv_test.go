package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trexxdash/pkg/contracts/domain"
)

func TestCSVWriter_Write(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name: "headers and records",
			options: WriteOptions{
				Headers: []string{"Team", "Expected_Revenue"},
				Records: [][]string{{"Flamengo", "R$ 1,234.50"}, {"Santos", ""}},
			},
			want: "Team,Expected_Revenue\nFlamengo,\"R$ 1,234.50\"\nSantos,\n",
		},
		{
			name:    "records only",
			options: WriteOptions{Records: [][]string{{"a", "b"}}},
			want:    "a,b\n",
		},
		{
			name: "bom prefix",
			options: WriteOptions{
				Headers:   []string{"x"},
				BOMPrefix: true,
			},
			want: "\ufeffx\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter(nil).Write(&buf, tt.options))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCSVWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "teams.csv")
	err := NewCSVWriter(nil).WriteFile(path, WriteOptions{
		Headers: []string{"Team"},
		Records: [][]string{{"Flamengo"}},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Team\nFlamengo\n", string(content))
}

func TestWriteTeamDetailCSV(t *testing.T) {
	detail := domain.DetailTable{
		Columns: []string{"Team", "Expected_Revenue", "Avg_Purchase_Probability"},
		Rows: [][]string{
			{"Flamengo", "R$ 152,340.50", "72.0%"},
			{"Palmeiras", "R$ 98,000.00", "65.5%"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTeamDetailCSV(&buf, detail))
	require.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, detail.Columns, records[0])
	assert.Equal(t, detail.Rows[0], records[1])
}
