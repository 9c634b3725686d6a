package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devwatch/internal/model"
)

func TestTeamCreateAndLookup(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStorage(db)

	team, err := teams.Create("  lab  ")
	require.NoError(t, err)
	assert.Equal(t, "lab", team.Name, "names are trimmed")

	byID, err := teams.Get(team.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, team.Name, byID.Name)

	byName, err := teams.GetByName("lab")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, team.ID, byName.ID)

	missing, err := teams.GetByName("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTeamCreateRejectsBlankAndDuplicate(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStorage(db)

	_, err := teams.Create("   ")
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))

	_, err = teams.Create("office")
	require.NoError(t, err)
	_, err = teams.Create("office")
	assert.Error(t, err, "team names are unique")
}

func TestTeamRename(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStorage(db)

	team, err := teams.Create("old")
	require.NoError(t, err)
	require.NoError(t, teams.Rename(team.ID, "new"))

	got, err := teams.Get(team.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
}

func TestTeamDeleteUnassignsDevices(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStorage(db)
	devices := NewDeviceStorage(db)

	team, err := teams.Create("floor2")
	require.NoError(t, err)

	dev := addDevice(t, devices, "desk-1", "10.0.2.1")
	dev.TeamID = &team.ID
	require.NoError(t, devices.Save(dev))

	require.NoError(t, teams.Delete(team.ID))

	gone, err := teams.Get(team.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// The device survives the delete with no team reference.
	got, err := devices.Get(dev.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.TeamID)
}
