package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategoryOrderAndCodes(t *testing.T) {
	tax := Default()
	want := []struct {
		name Category
		code string
	}{
		{StreetLight, "SL"},
		{WaterSupply, "WS"},
		{Garbage, "GB"},
		{RoadDamage, "RD"},
		{Drainage, "DR"},
		{Sanitation, "SN"},
		{Other, "OT"},
	}
	got := tax.Categories()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.name, got[i].Name)
		assert.Equal(t, w.code, tax.Code(w.name))
	}
	assert.Equal(t, "OT", tax.Code("Parking"))
}

func TestDefaultWardsAndAreas(t *testing.T) {
	tax := Default()
	lo, hi := tax.WardRange()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 19, hi)
	require.Len(t, tax.Wards(), 19)
	assert.Equal(t, Ward{Name: "Ward 13", Number: 13, Zone: "East"}, tax.Wards()[12])

	a, ok := tax.Area("  Alkapuri ")
	require.True(t, ok)
	assert.Equal(t, "Ward 1", a.Ward)
	assert.Equal(t, "Central", a.Zone)
}

func TestQuestionFallsBackToOther(t *testing.T) {
	tax := Default()
	assert.Equal(t, "Please briefly describe your issue.", tax.Question("Parking", English))
	assert.Contains(t, tax.Question(WaterSupply, Hindi), "pani")
}

func TestPriority(t *testing.T) {
	tax := Default()
	assert.Equal(t, PriorityHigh, tax.Priority(Drainage, "manhole_open"))
	assert.Equal(t, PriorityMedium, tax.Priority(RoadDamage, "pothole"))
	assert.Equal(t, PriorityNormal, tax.Priority(Garbage, "no_dustbin"))
	assert.Equal(t, PriorityNormal, tax.Priority(Other, ""))
}

func TestMergeOverlay(t *testing.T) {
	ov, err := LoadOverlay(strings.NewReader(`
areas:
  - {name: "Gorwa Gam", ward: "Ward 6", zone: "East"}
  - {name: "alkapuri", ward: "Ward 2", zone: "Central"}
categories:
  Street Light:
    keywords:
      hi: ["Batti Gul"]
    sub_categories:
      - {id: light_off, keywords: ["gul"]}
      - {id: timer_fault, keywords: ["timer"]}
`))
	require.NoError(t, err)

	base := Default()
	merged, err := base.Merge(ov)
	require.NoError(t, err)

	a, ok := merged.Area("gorwa gam")
	require.True(t, ok)
	assert.Equal(t, "Ward 6", a.Ward)

	a, ok = merged.Area("alkapuri")
	require.True(t, ok)
	assert.Equal(t, "Ward 2", a.Ward, "overlay replaces an existing area")

	info, ok := merged.Category(StreetLight)
	require.True(t, ok)
	assert.Contains(t, info.Keywords[Hindi], "batti gul")
	subs := merged.SubCategories(StreetLight)
	assert.Equal(t, "timer_fault", subs[len(subs)-1].ID)
	assert.Contains(t, subs[0].Keywords, "gul")

	orig, _ := base.Area("alkapuri")
	assert.Equal(t, "Ward 1", orig.Ward, "base taxonomy must not change")
	assert.Len(t, base.SubCategories(StreetLight), 6)
}

func TestMergeOverlayRejectsInvalidEntries(t *testing.T) {
	ov, err := LoadOverlay(strings.NewReader(`
areas:
  - {name: "nowhere", ward: "Ward 40", zone: "Central"}
  - {name: "elsewhere", ward: "Ward 2", zone: "Midtown"}
categories:
  Parking:
    keywords: {en: ["parking"]}
`))
	require.NoError(t, err)

	_, err = Default().Merge(ov)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ward 40")
	assert.Contains(t, err.Error(), "Midtown")
	assert.Contains(t, err.Error(), "Parking")
}

func TestLoadOverlayRejectsUnknownFields(t *testing.T) {
	_, err := LoadOverlay(strings.NewReader("landmarks: []\n"))
	require.Error(t, err)

	ov, err := LoadOverlay(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ov.Areas)
}
