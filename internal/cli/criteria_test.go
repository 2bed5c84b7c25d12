package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaBuildFromFlags(t *testing.T) {
	cf := criteriaFlags{
		Item:      "rebar",
		Regions:   []string{"East", "West"},
		DateFrom:  "20240101",
		FloorsMin: 10,
		FloorsMax: -1,
	}
	// Zero-value fields keep the sentinel they would get from register.
	cf.UnitRowsMin, cf.UnitRowsMax = -1, -1
	cf.UnitsMin, cf.UnitsMax = -1, -1
	cf.ConstructionAreaMin, cf.ConstructionAreaMax = -1, -1
	cf.TotalFloorAreaMin, cf.TotalFloorAreaMax = -1, -1

	criteria, err := cf.build()
	require.NoError(t, err)

	assert.Equal(t, "rebar", criteria.ItemKeyword)
	assert.Equal(t, []string{"East", "West"}, criteria.Regions)
	assert.Equal(t, "20240101", criteria.DateFrom)
	require.NotNil(t, criteria.Floors.Min)
	assert.Equal(t, 10.0, *criteria.Floors.Min)
	assert.Nil(t, criteria.Floors.Max)
	assert.Nil(t, criteria.Units.Min)
}

func TestCriteriaFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	yaml := `item: concrete
regions: [East]
dateFrom: "20230101"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cf := criteriaFlags{CriteriaFile: path, Item: "rebar"}
	cf.FloorsMin, cf.FloorsMax = -1, -1
	cf.UnitRowsMin, cf.UnitRowsMax = -1, -1
	cf.UnitsMin, cf.UnitsMax = -1, -1
	cf.ConstructionAreaMin, cf.ConstructionAreaMax = -1, -1
	cf.TotalFloorAreaMin, cf.TotalFloorAreaMax = -1, -1

	criteria, err := cf.build()
	require.NoError(t, err)

	// The flag wins over the file, untouched file fields survive.
	assert.Equal(t, "rebar", criteria.ItemKeyword)
	assert.Equal(t, []string{"East"}, criteria.Regions)
	assert.Equal(t, "20230101", criteria.DateFrom)
}

func TestCriteriaRejectsBadDates(t *testing.T) {
	cf := criteriaFlags{DateTo: "2024"}
	cf.FloorsMin, cf.FloorsMax = -1, -1
	cf.UnitRowsMin, cf.UnitRowsMax = -1, -1
	cf.UnitsMin, cf.UnitsMax = -1, -1
	cf.ConstructionAreaMin, cf.ConstructionAreaMax = -1, -1
	cf.TotalFloorAreaMin, cf.TotalFloorAreaMax = -1, -1

	_, err := cf.build()
	assert.Error(t, err)
}

func TestCriteriaRegisterDefaults(t *testing.T) {
	var cf criteriaFlags
	cmd := &cobra.Command{Use: "test"}
	cf.register(cmd)
	require.NoError(t, cmd.ParseFlags(nil))

	criteria, err := cf.build()
	require.NoError(t, err)
	assert.True(t, criteria.IsEmpty())
}
