package engine

import (
	"fmt"
	"strings"

	"allison/internal/dataset"
	"allison/internal/normtext"
)

// At most this many rows are rendered per listing; the rest collapse into
// a remainder count so the context block stays within prompt budget.
const maxListed = 10

// listRows answers listing-intent queries: a bulleted digest of the rows
// matching the bound entity, in dataset order. Listings always require an
// entity; there is no global listing.
func (e *Engine) listRows(query string, b Binding) *ScoredMatch {
	q := normtext.Normalize(query)

	switch {
	case strings.Contains(q, "radicado"):
		return e.listFilings(b)
	case strings.Contains(q, "proyecto") || strings.Contains(q, "necesidad"):
		return e.listNeeds(b)
	}
	return nil
}

func (e *Engine) listFilings(b Binding) *ScoredMatch {
	rows, ok := e.matchingRows(filingsFile, b)
	if !ok || len(rows) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(listHeader("LISTADO DE RADICADOS", b))
	for _, row := range rows[:min(len(rows), maxListed)] {
		rad := valueOr(row, "RADICADO", "S/N")
		proy := valueOr(row, "PROYECTOS", "Sin descripción")
		fecha := valueOr(row, "FECHA", "")
		if b.Kind == KindSubRegion {
			mun := valueOr(row, "MUNICIPIO", "")
			fmt.Fprintf(&sb, "- Radicado: %s | Municipio: %s | Fecha: %s | Proyecto: %s\n", rad, mun, fecha, proy)
		} else {
			fmt.Fprintf(&sb, "- Radicado: %s | Fecha: %s | Proyecto: %s\n", rad, fecha, proy)
		}
	}
	appendRemainder(&sb, len(rows))
	return &ScoredMatch{Text: sb.String(), Score: scoreListing}
}

func (e *Engine) listNeeds(b Binding) *ScoredMatch {
	rows, ok := e.matchingRows(needsFile, b)
	if !ok || len(rows) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(listHeader("LISTADO DE PROYECTOS/NECESIDADES", b))
	for _, row := range rows[:min(len(rows), maxListed)] {
		nec := valueOr(row, "NECESIDAD", "Sin descripción")
		fase := mapPhase(valueOr(row, "FASE PROYECTO", "No definida"))
		if b.Kind == KindSubRegion {
			mun := valueOr(row, "MUNICIPIO", "")
			fmt.Fprintf(&sb, "- Proyecto: %s | Municipio: %s | Fase: %s\n", nec, mun, fase)
		} else {
			fmt.Fprintf(&sb, "- Proyecto: %s | Fase: %s\n", nec, fase)
		}
	}
	appendRemainder(&sb, len(rows))
	return &ScoredMatch{Text: sb.String(), Score: scoreListing}
}

// matchingRows loads the named snapshot and filters it by the binding.
// The second return is false when the dataset or its entity column is
// unavailable, which ends the listing silently.
func (e *Engine) matchingRows(file string, b Binding) ([]dataset.Row, bool) {
	ds, err := e.load(file)
	if err != nil {
		e.warnSkip(file, err)
		return nil, false
	}
	col := b.entityColumn()
	if !ds.HasColumn(col) {
		return nil, false
	}
	return filterRows(ds, col, normtext.Normalize(b.Name)), true
}

func listHeader(prefix string, b Binding) string {
	if b.Kind == KindSubRegion {
		return fmt.Sprintf("%s PARA LA SUBREGIÓN %s:\n", prefix, b.Name)
	}
	return fmt.Sprintf("%s PARA %s:\n", prefix, b.Name)
}

func appendRemainder(sb *strings.Builder, total int) {
	if total > maxListed {
		fmt.Fprintf(sb, "... y %d más.", total-maxListed)
	}
}

func valueOr(row dataset.Row, col, fallback string) string {
	if v, ok := row.Get(col); ok && v != "" {
		return v
	}
	return fallback
}
