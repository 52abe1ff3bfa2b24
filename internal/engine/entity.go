package engine

import (
	"strings"

	"allison/internal/normtext"
)

// EntityKind distinguishes the two kinds of resolvable entities.
type EntityKind int

const (
	// KindMunicipality is a municipality from the reference table.
	KindMunicipality EntityKind = iota
	// KindSubRegion is one of the department's sub-regions.
	KindSubRegion
)

// Binding is a query's resolved association with a municipality or
// sub-region. Name keeps the canonical (accented) spelling for output.
type Binding struct {
	Kind EntityKind
	Name string
}

// Resolve scans the query for a known municipality name, then for a known
// sub-region. The first municipality whose normalized name appears in the
// query wins, in reference-table order; a municipality match always
// suppresses a sub-region match. A missing reference table yields no
// binding, not an error.
func (e *Engine) Resolve(query string) *Binding {
	q := normtext.Normalize(query)

	if ds, err := e.load(municipalitiesFile); err == nil {
		seen := make(map[string]struct{}, ds.Len())
		for i := 0; i < ds.Len(); i++ {
			name, ok := ds.Row(i).Get("MPIO_NOMBRE")
			if !ok || name == "" {
				continue
			}
			norm := normtext.Normalize(name)
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			if strings.Contains(q, norm) {
				return &Binding{Kind: KindMunicipality, Name: name}
			}
		}
	} else {
		e.warnSkip(municipalitiesFile, err)
	}

	for _, region := range e.vocab.SubRegions {
		if strings.Contains(q, normtext.Normalize(region)) {
			return &Binding{Kind: KindSubRegion, Name: region}
		}
	}
	return nil
}

// entityColumn is the dataset column a binding filters on.
func (b Binding) entityColumn() string {
	if b.Kind == KindSubRegion {
		return "SUBREGION"
	}
	return "MUNICIPIO"
}
