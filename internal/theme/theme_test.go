package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFallsBackToDefault(t *testing.T) {
	r := Builtin()

	assert.Equal(t, r.Lookup("Modern Blue"), r.Lookup("Nonexistent"))
	assert.Equal(t, r.Lookup("Modern Blue"), r.Lookup(""))
}

func TestPresets(t *testing.T) {
	r := Builtin()

	assert.Equal(t, []string{"Modern Blue", "Classic Dark", "Minimal White"}, r.Names())

	dark := r.Lookup("Classic Dark")
	assert.Equal(t, "222222", dark.Background.Hex())
	assert.Equal(t, "Times New Roman", dark.Title.Family)
	assert.Equal(t, 44.0, dark.Title.Size)
	assert.Equal(t, "00FF00", dark.Accent.Hex())

	blue := r.Lookup("Modern Blue")
	assert.Equal(t, "0066CC", blue.Background.Hex())
	assert.Equal(t, "FFD700", blue.Accent.Hex())
}

func TestLookupReturnsCopy(t *testing.T) {
	r := Builtin()
	s := r.Lookup("Minimal White")
	s.Title.Family = "Comic Sans MS"

	assert.Equal(t, "Arial", r.Lookup("Minimal White").Title.Family)
}

func TestNewRegistryRequiresDefault(t *testing.T) {
	_, err := NewRegistry("Missing", Presets()...)
	require.Error(t, err)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#4a90e2")
	require.NoError(t, err)
	assert.Equal(t, RGB(74, 144, 226), c)

	_, err = ParseHex("12345")
	assert.Error(t, err)
	_, err = ParseHex("zzzzzz")
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	forest := `{"name": "Forest", "background": "#0B3D20",
		"title_font": {"family": "Georgia", "size": 40, "color": "#FFFFFF"},
		"body_font": {"family": "Georgia", "size": 22, "color": "#E0E0E0"},
		"accent": "A3D977"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forest.json"), []byte(forest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	specs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "Forest", specs[0].Name)
	assert.Equal(t, 22.0, specs[0].Body.Size)

	r, err := NewRegistry(DefaultName, append(Presets(), specs...)...)
	require.NoError(t, err)
	assert.True(t, r.Has("Forest"))
	assert.Len(t, r.Names(), 4)
}

func TestLoadDirRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"name": "Bad", "background": "nope"}`), 0644))

	_, err := LoadDir(dir)
	assert.Error(t, err)
}
