package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
)

func testdataResources() (fetcher.Fetcher, loader.Resources) {
	data := config.DataConfig{
		Dir:          "../../public/data",
		SummaryFile:  "summary_data.json",
		RegionalFile: "regional_detailed.json",
		TimelineFile: "animated_timeline.json",
	}
	return fetcher.NewFileFetcher(data.Dir), loader.ResourcesFrom(data)
}

func TestMount_Ready(t *testing.T) {
	f, res := testdataResources()

	v, err := Mount(context.Background(), f, res, "")
	require.NoError(t, err)
	assert.True(t, v.Ready())
	assert.Nil(t, v.Detail)
	assert.Len(t, v.Regions, 4)
}

func TestMount_Region(t *testing.T) {
	f, res := testdataResources()

	v, err := Mount(context.Background(), f, res, "Scotland")
	require.NoError(t, err)
	require.NotNil(t, v.Detail)
	assert.Equal(t, "Scotland", v.Detail.Name)
}

func TestMount_UnknownRegion(t *testing.T) {
	f, res := testdataResources()

	v, err := Mount(context.Background(), f, res, "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, v.Detail)
	assert.Empty(t, v.Selected)
}

func TestMount_Failure(t *testing.T) {
	f, res := testdataResources()
	res.Timeline = "missing.json"

	v, err := Mount(context.Background(), f, res, "London")
	require.Error(t, err)
	assert.False(t, v.Ready())
	assert.NotEmpty(t, v.Error)
}
