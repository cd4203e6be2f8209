package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatJSON(t *testing.T) {
	series := []Float{1.5, Float(math.NaN()), Float(math.Inf(1)), 0, -2}

	data, err := json.Marshal(series)
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5,null,null,0,-2]`, string(data))

	var back []Float
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 5)
	assert.Equal(t, Float(1.5), back[0])
	assert.False(t, back[1].Valid())
	assert.True(t, back[3].Valid())
}

func TestPanelResultOmitsEmptyData(t *testing.T) {
	res := PanelResult[SummaryPanel]{
		Status:  PanelStatusUnavailable,
		Missing: []MissingArtifact{{Dataset: "team_forecasts", File: "team_revenue_forecasts.csv"}},
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"unavailable","missing":[{"dataset":"team_forecasts","file":"team_revenue_forecasts.csv"}]}`, string(data))
}
