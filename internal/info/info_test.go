package info_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/PredictNCure/internal/info"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fungal Infection", "fungalinfection"},
		{"fungalinfection", "fungalinfection"},
		{"  Fungal-infection ", "fungalinfection"},
		{"fungal_infection", "fungalinfection"},
		{"(vertigo) Paroymsal  Positional Vertigo", "vertigoparoymsalpositionalvertigo"},
		{"Ｆｕｎｇａｌ infection", "fungalinfection"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, info.NormalizeKey(tt.in), "input %q", tt.in)
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "python list", raw: "['Antifungal Cream', 'Fluconazole']", want: []string{"Antifungal Cream", "Fluconazole"}},
		{name: "double quoted list", raw: `["Rest", "Fluids"]`, want: []string{"Rest", "Fluids"}},
		{name: "comma inside quotes", raw: "['Salt, in moderation', 'Water']", want: []string{"Salt, in moderation", "Water"}},
		{name: "plain commas", raw: "Rest, fluids; sleep", want: []string{"Rest", "fluids", "sleep"}},
		{name: "sentences", raw: "Drink water. Avoid sugar.", want: []string{"Drink water", "Avoid sugar"}},
		{name: "stray artifacts", raw: "'Rest'], ['Fluids", want: []string{"Rest", "Fluids"}},
		{name: "empty list", raw: "[]", want: []string{}},
		{name: "blank", raw: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, info.ParseItems(tt.raw))
		})
	}
}

func TestCatalogLookupIsKeyInsensitive(t *testing.T) {
	c := info.NewCatalog(map[info.Category]info.Table{
		info.Medications: {"Fungal infection": "['Fluconazole']"},
		info.Diets:       {"Fungal_Infection": "Antifungal diet, Probiotics"},
	})

	a := c.Lookup("Fungal Infection")
	b := c.Lookup("fungalinfection")
	a.Disease, b.Disease = "", ""
	assert.Equal(t, a, b)

	assert.True(t, a.Medications.Found)
	assert.Equal(t, []string{"Fluconazole"}, a.Medications.Items)
	assert.True(t, a.Diets.Found)
	assert.Equal(t, []string{"Antifungal diet", "Probiotics"}, a.Diets.Items)
}

func TestCatalogMissingDegradesPerCategory(t *testing.T) {
	c := info.NewCatalog(map[info.Category]info.Table{
		info.Medications: {"Allergy": "['Antihistamines']"},
	})

	d := c.Lookup("Allergy")
	assert.True(t, d.Medications.Found)
	for _, s := range []info.Section{d.Diets, d.Precautions, d.Workout} {
		assert.False(t, s.Found)
		assert.Equal(t, []string{info.NoData}, s.Items)
	}

	d = c.Lookup("Unknown Disease")
	assert.False(t, d.Medications.Found)
}

func TestReadTable(t *testing.T) {
	t.Run("no disease column", func(t *testing.T) {
		_, err := info.ReadTable(strings.NewReader("Name,Value\na,b\n"))
		require.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		tbl, err := info.ReadTable(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, tbl)
	})

	t.Run("byte order mark", func(t *testing.T) {
		tbl, err := info.ReadTable(strings.NewReader("\ufeffDisease,Diet\nAcne,\"['Low sugar']\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "['Low sugar']", tbl["Acne"])
	})
}

func TestLoadCatalog(t *testing.T) {
	c, err := info.LoadCatalog(context.Background(), info.DefaultSources("testdata"), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len(info.Medications))
	assert.Equal(t, 0, c.Len(info.Diets), "missing diets file loads as empty")
	assert.Equal(t, 2, c.Len(info.Precautions))
	assert.Equal(t, 2, c.Len(info.Workout))

	d := c.Lookup("fungal infection")
	assert.Equal(t, []string{"Antifungal Cream", "Fluconazole", "Terbinafine"}, d.Medications.Items)
	assert.Equal(t, []string{"bath twice", "use detol or neem in bathing water", "keep infected area dry"}, d.Precautions.Items)
	assert.Equal(t, []string{"Avoid sugary foods", "Consume probiotics"}, d.Workout.Items)
	assert.False(t, d.Diets.Found)

	gerd := c.Lookup("GERD")
	assert.False(t, gerd.Medications.Found, "empty cell counts as no data")
}

func TestLoadCatalogMalformed(t *testing.T) {
	src := info.Sources{info.Medications: "testdata/bad.csv"}
	_, err := info.LoadCatalog(context.Background(), src, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "medications")
}
