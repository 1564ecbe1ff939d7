package info

// Category names one of the descriptive tables.
type Category string

const (
	Medications Category = "medications"
	Diets       Category = "diets"
	Precautions Category = "precautions"
	Workout     Category = "workout"
)

// NoData is shown in place of a category that has nothing for a disease.
const NoData = "No data available"

var Categories = []Category{Medications, Diets, Precautions, Workout}

// Table maps a normalized disease key to its raw cell text.
type Table map[string]string

type Section struct {
	Found bool     `json:"found"`
	Items []string `json:"items"`
}

type Details struct {
	Disease     string  `json:"disease"`
	Medications Section `json:"medications"`
	Diets       Section `json:"diets"`
	Precautions Section `json:"precautions"`
	Workout     Section `json:"workout"`
}

// Catalog is read-only after construction.
type Catalog struct {
	tables map[Category]Table
}

func NewCatalog(tables map[Category]Table) *Catalog {
	c := &Catalog{tables: make(map[Category]Table, len(Categories))}
	for _, cat := range Categories {
		src := tables[cat]
		t := make(Table, len(src))
		for k, v := range src {
			t[NormalizeKey(k)] = v
		}
		c.tables[cat] = t
	}
	return c
}

func (c *Catalog) Section(cat Category, disease string) Section {
	raw, ok := c.tables[cat][NormalizeKey(disease)]
	if !ok {
		return Section{Items: []string{NoData}}
	}
	items := ParseItems(raw)
	if len(items) == 0 {
		return Section{Items: []string{NoData}}
	}
	return Section{Found: true, Items: items}
}

// Lookup gathers all four categories for disease. Missing categories degrade
// to NoData independently.
func (c *Catalog) Lookup(disease string) Details {
	return Details{
		Disease:     disease,
		Medications: c.Section(Medications, disease),
		Diets:       c.Section(Diets, disease),
		Precautions: c.Section(Precautions, disease),
		Workout:     c.Section(Workout, disease),
	}
}

func (c *Catalog) Len(cat Category) int { return len(c.tables[cat]) }
