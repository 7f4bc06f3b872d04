package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogResolve(t *testing.T) {
	catalog := NewCatalog(nil)

	tests := []struct {
		name     string
		raw      string
		wantName string
		wantOK   bool
	}{
		{"canonical name", "PS 1", "PS 1", true},
		{"case and spacing insensitive", "ps  1", "PS 1", true},
		{"alias resolves to canonical", "VMC 84-947", "PS 1", true},
		{"dropdown suffix after em dash", "PS 1 — 11-12 months", "PS 1", true},
		{"slash-joined alias list", "PS 2 / VMC 95-152", "PS 2", true},
		{"or-joined alias list", "Phil 8013 or something local", "Phil 8013", true},
		{"substring scan over raw input", "variety VMC 86-550 (east block)", "VMC 86-550", true},
		{"alias substring scan", "planted with VMC 84-947 seedlings", "PS 1", true},
		{"unknown falls back to default", "Mystery Cane", "DEFAULT", false},
		{"empty string falls back to default", "", "DEFAULT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, ok := catalog.Resolve(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, profile.Name)
		})
	}
}

func TestCatalogResolve_DefaultProfileShape(t *testing.T) {
	catalog := NewCatalog(nil)

	profile, ok := catalog.Resolve("no such variety")
	assert.False(t, ok)
	assert.Equal(t, DefaultStageBands, profile.Stages)
	assert.Equal(t, MonthRange{Min: 9, Max: 11}, profile.InitialHarvest)
	assert.Equal(t, MonthRange{Min: 8, Max: 10}, profile.RatoonHarvest)
}

func TestCatalogResolve_VarietyWithoutBandsUsesDefaults(t *testing.T) {
	catalog := NewCatalog(nil)

	profile, ok := catalog.Resolve("PS 1")
	require.True(t, ok)
	assert.True(t, profile.Stages.IsZero())
	assert.Equal(t, MonthRange{Min: 11, Max: 12}, profile.InitialHarvest)
	assert.Equal(t, MonthRange{Min: 10, Max: 11}, profile.RatoonHarvest)
}

func TestCatalogLoadOverlay(t *testing.T) {
	catalog := NewCatalog(nil)

	overlay := []byte(`
varieties:
  - name: "UPLB 2024"
    aliases: ["UPLB-24"]
    initialHarvest: {min: 10, max: 12}
    ratoonHarvest: {min: 9, max: 11}
  - name: "PS 1"
    initialHarvest: {min: 10, max: 11}
    ratoonHarvest: {min: 9, max: 10}
`)
	require.NoError(t, catalog.LoadOverlay(overlay))

	added, ok := catalog.Resolve("UPLB-24")
	assert.True(t, ok)
	assert.Equal(t, "UPLB 2024", added.Name)
	assert.Equal(t, MonthRange{Min: 10, Max: 12}, added.InitialHarvest)

	// Overlay entries replace built-in ones under the same canonical key
	replaced, ok := catalog.Resolve("PS 1")
	assert.True(t, ok)
	assert.Equal(t, MonthRange{Min: 10, Max: 11}, replaced.InitialHarvest)
}

func TestCatalogLoadOverlay_RejectsMalformedYAML(t *testing.T) {
	catalog := NewCatalog(nil)
	assert.Error(t, catalog.LoadOverlay([]byte("varieties: [unclosed")))
}
