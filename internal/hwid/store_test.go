package hwid

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempList(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "hwids.json")
}

func TestMissingFileStartsEmpty(t *testing.T) {
	s := Load(tempList(t), 2)
	assert.Equal(t, 0, s.Count())
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := tempList(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s := Load(path, 2)
	assert.Equal(t, 0, s.Count())
}

func TestCapacityLimit(t *testing.T) {
	s := Load(tempList(t), 2)

	ok, added := s.Verify("device-a")
	assert.True(t, ok)
	assert.True(t, added)

	ok, added = s.Verify("device-b")
	assert.True(t, ok)
	assert.True(t, added)

	// third distinct device is refused
	ok, added = s.Verify("device-c")
	assert.False(t, ok)
	assert.False(t, added)

	// known devices still pass once the list is full
	ok, added = s.Verify("device-a")
	assert.True(t, ok)
	assert.False(t, added)

	assert.Equal(t, 2, s.Count())
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := tempList(t)

	s := Load(path, 2)
	s.Verify("device-a")
	s.Verify("device-b")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file fileFormat
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, []string{"device-a", "device-b"}, file.Hwids)

	reloaded := Load(path, 2)
	assert.Equal(t, 2, reloaded.Count())

	ok, added := reloaded.Verify("device-a")
	assert.True(t, ok)
	assert.False(t, added)

	ok, _ = reloaded.Verify("device-c")
	assert.False(t, ok)
}

func TestRedactIsStableAndOpaque(t *testing.T) {
	a := Redact("device-a")
	assert.Equal(t, a, Redact("device-a"))
	assert.NotEqual(t, a, Redact("device-b"))
	assert.Len(t, a, 16)
	assert.NotContains(t, a, "device")
}
