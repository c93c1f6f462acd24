package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/tokendesk/tokendesk/storage/model"
)

func TestSettingsSetGet(t *testing.T) {
	store := newTestStorage(t).SettingsStorage()

	value, err := store.Get(model.SettingsScopeUI, "theme")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set(model.SettingsScopeUI, "theme", datatypes.JSON(`"dark"`)))
	value, err = store.Get(model.SettingsScopeUI, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, `"dark"`, string(value))

	// upsert replaces in place
	require.NoError(t, store.Set(model.SettingsScopeUI, "theme", datatypes.JSON(`"light"`)))
	value, err = store.Get(model.SettingsScopeUI, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, `"light"`, string(value))
}

func TestSettingsScopesAreIsolated(t *testing.T) {
	store := newTestStorage(t).SettingsStorage()
	require.NoError(t, store.Set(model.SettingsScopeUI, "page_size", datatypes.JSON(`25`)))
	require.NoError(t, store.Set(model.SettingsScopeGlobal, "page_size", datatypes.JSON(`100`)))

	value, err := store.Get(model.SettingsScopeUI, "page_size")
	require.NoError(t, err)
	assert.JSONEq(t, `25`, string(value))

	entries, err := store.List(model.SettingsScopeUI)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "page_size", entries[0].Key)
}

func TestSettingsDelete(t *testing.T) {
	store := newTestStorage(t).SettingsStorage()
	require.NoError(t, store.Set(model.SettingsScopeUI, "theme", datatypes.JSON(`"dark"`)))
	require.NoError(t, store.Delete(model.SettingsScopeUI, "theme"))

	value, err := store.Get(model.SettingsScopeUI, "theme")
	require.NoError(t, err)
	assert.Nil(t, value)

	// deleting a missing key is not an error
	require.NoError(t, store.Delete(model.SettingsScopeUI, "theme"))
}

func TestSettingsGetAsSetAny(t *testing.T) {
	store := newTestStorage(t).SettingsStorage()

	type columns struct {
		Visible []string `json:"visible"`
	}
	require.NoError(t, store.SetAny(model.SettingsScopeUI, "columns", columns{Visible: []string{"date", "token"}}))

	var got columns
	found, err := store.GetAs(model.SettingsScopeUI, "columns", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"date", "token"}, got.Visible)

	found, err = store.GetAs(model.SettingsScopeUI, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
