package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ent0n29/samvad/internal/taxonomy"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want taxonomy.Language
	}{
		{"The streetlight near my house is not working", taxonomy.English},
		{"मेरे घर के पास लाइट बंद है", taxonomy.Hindi},
		{"light band hai", taxonomy.Hindi},
		{"Haan", taxonomy.Hindi},
		{"kitchen tap broken", taxonomy.English},
		{"", taxonomy.English},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.in), "DetectLanguage(%q)", tt.in)
	}
}

func TestDetectCategory(t *testing.T) {
	tax := taxonomy.Default()

	cat, score, ok := DetectCategory(tax, "The streetlight near my house is not working")
	assert.True(t, ok)
	assert.Equal(t, taxonomy.StreetLight, cat)
	assert.GreaterOrEqual(t, score, 2)

	cat, _, ok = DetectCategory(tax, "मेरे इलाके में पानी नहीं आ रहा")
	assert.True(t, ok)
	assert.Equal(t, taxonomy.WaterSupply, cat)

	cat, _, ok = DetectCategory(tax, "manhole open, sewage overflow")
	assert.True(t, ok)
	assert.Equal(t, taxonomy.Drainage, cat)

	_, _, ok = DetectCategory(tax, "asdf qwer")
	assert.False(t, ok)
}

func TestDetectCategoryTieGoesToEarlierCategory(t *testing.T) {
	tax := taxonomy.Default()
	// "dirty" scores one for Garbage, "pipe" one for Water Supply.
	cat, score, ok := DetectCategory(tax, "dirty pipe")
	assert.True(t, ok)
	assert.Equal(t, 1, score)
	assert.Equal(t, taxonomy.WaterSupply, cat)
}

func TestDetectSubCategoryFirstMatchWins(t *testing.T) {
	tax := taxonomy.Default()

	sub, ok := DetectSubCategory(tax, taxonomy.StreetLight, "light not working and the pole is tilted")
	assert.True(t, ok)
	assert.Equal(t, "light_off", sub)

	sub, ok = DetectSubCategory(tax, taxonomy.RoadDamage, "big pothole")
	assert.True(t, ok)
	assert.Equal(t, "pothole", sub)

	_, ok = DetectSubCategory(tax, taxonomy.Garbage, "something else")
	assert.False(t, ok)

	_, ok = DetectSubCategory(tax, "Parking", "pothole")
	assert.False(t, ok)
}

func TestDetectConfidence(t *testing.T) {
	tax := taxonomy.Default()

	d := Detect(tax, "streetlight not working")
	assert.Equal(t, ConfidenceHigh, d.Confidence)
	assert.Equal(t, "light_off", d.SubCategory)

	d = Detect(tax, "garbage everywhere")
	assert.Equal(t, ConfidenceMedium, d.Confidence)
	assert.Equal(t, taxonomy.Garbage, d.Category)
	assert.Empty(t, d.SubCategory)

	d = Detect(tax, "asdf")
	assert.Equal(t, ConfidenceLow, d.Confidence)
	assert.Empty(t, d.Category)
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"98765 43210", "9876543210", true},
		{"+91 98765-43210", "9876543210", true},
		{"my number is 98.765.432.10", "9876543210", true},
		{"12345", "", false},
		{"call me", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractPhone(tt.in)
		assert.Equal(t, tt.ok, ok, "ExtractPhone(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ExtractPhone(%q)", tt.in)
	}
}

func TestExtractWard(t *testing.T) {
	tax := taxonomy.Default()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"near ward 5 office", "Ward 5", true},
		{"Ward No. 12", "Ward 12", true},
		{"ward no 3", "Ward 3", true},
		{"वार्ड 7 में", "Ward 7", true},
		{"ward 40", "", false},
		{"ward 0 or ward 19", "Ward 19", true},
		{"award winning road", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractWard(tax, tt.in)
		assert.Equal(t, tt.ok, ok, "ExtractWard(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ExtractWard(%q)", tt.in)
	}
}

func TestExtractZone(t *testing.T) {
	tax := taxonomy.Default()

	z, ok := ExtractZone(tax, "somewhere in East zone")
	assert.True(t, ok)
	assert.Equal(t, "East", z)

	z, ok = ExtractZone(tax, "dakshin mein")
	assert.True(t, ok)
	assert.Equal(t, "South", z)

	z, ok = ExtractZone(tax, "मध्य क्षेत्र")
	assert.True(t, ok)
	assert.Equal(t, "Central", z)

	_, ok = ExtractZone(tax, "main market")
	assert.False(t, ok)
}
