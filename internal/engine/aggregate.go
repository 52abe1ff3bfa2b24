package engine

import (
	"fmt"
	"strings"

	"allison/internal/dataset"
	"allison/internal/normtext"
)

// aggregate answers statistic-intent queries: row counts over a dataset
// selected by domain keyword, filtered by the bound entity, optionally
// with a currency-column sum. Returns nil when no domain keyword applies
// or the target dataset is unavailable.
func (e *Engine) aggregate(query string, b *Binding) *ScoredMatch {
	q := normtext.Normalize(query)
	if b == nil {
		return e.aggregateGlobal(q)
	}

	subject := "El municipio de " + b.Name
	if b.Kind == KindSubRegion {
		subject = "La subregión de " + b.Name
	}
	col := b.entityColumn()
	target := normtext.Normalize(b.Name)

	var file, tail string
	withMoney := false
	switch {
	case strings.Contains(q, "necesidad"):
		file, tail = needsFile, "necesidades registradas en la base de datos"
		withMoney = true
	case strings.Contains(q, "via") || strings.Contains(q, "carretera"):
		file, tail = tertiaryRoadsFile, "vías terciarias registradas"
	case strings.Contains(q, "radicado") || strings.Contains(q, "solicitud"):
		file, tail = filingsFile, "radicados/solicitudes registrados"
	default:
		return nil
	}

	ds, err := e.load(file)
	if err != nil {
		e.warnSkip(file, err)
		return nil
	}
	if !ds.HasColumn(col) {
		return nil
	}
	rows := filterRows(ds, col, target)

	info := fmt.Sprintf("ESTADÍSTICA OFICIAL: %s tiene un total de %d %s.", subject, len(rows), tail)
	if withMoney {
		info += e.moneySummary(q, ds, rows)
	}
	return &ScoredMatch{Text: info, Score: scoreStatistic}
}

// aggregateGlobal handles statistic queries with no resolved entity: a
// department-wide count, available for needs and filings only.
func (e *Engine) aggregateGlobal(q string) *ScoredMatch {
	switch {
	case strings.Contains(q, "necesidad"):
		ds, err := e.load(needsFile)
		if err != nil {
			e.warnSkip(needsFile, err)
			return nil
		}
		text := fmt.Sprintf("ESTADÍSTICA GLOBAL: En total, hay %d necesidades registradas en todo el departamento de Antioquia.", ds.Len())
		return &ScoredMatch{Text: text, Score: scoreStatistic}
	case strings.Contains(q, "radicado") || strings.Contains(q, "solicitud"):
		ds, err := e.load(filingsFile)
		if err != nil {
			e.warnSkip(filingsFile, err)
			return nil
		}
		text := fmt.Sprintf("ESTADÍSTICA GLOBAL: En total, hay %d radicados/solicitudes registrados en todo el departamento.", ds.Len())
		return &ScoredMatch{Text: text, Score: scoreStatistic}
	}
	return nil
}

// moneySummary appends a currency-column sum when the query also carries a
// money keyword. The column is chosen by keyword priority: government
// contribution first, then the need's own value.
func (e *Engine) moneySummary(q string, ds *dataset.Dataset, rows []dataset.Row) string {
	if !normtext.ContainsAny(q, e.vocab.Money) {
		return ""
	}
	var col, concept string
	switch {
	case strings.Contains(q, "aporte") || strings.Contains(q, "gobernacion"):
		col, concept = "APORTE GOB", "Aporte Total de la Gobernación"
	case strings.Contains(q, "valor") || strings.Contains(q, "costo") || strings.Contains(q, "presupuesto"):
		col, concept = "VALOR NECESIDAD SIF", "Valor Total de las Necesidades (SIF)"
	default:
		return ""
	}
	if !ds.HasColumn(col) {
		return ""
	}

	var sum float64
	var nonZero []float64
	for _, row := range rows {
		v, _ := row.Get(col)
		f := dataset.ParseMoney(v)
		sum += f
		if f > 0 {
			nonZero = append(nonZero, f)
		}
	}

	out := fmt.Sprintf("\n- %s: %s", concept, dataset.FormatMoney(sum))
	if repeated, v := repeatedConstant(nonZero); repeated {
		// A constant repeated across every record usually means the column
		// holds a municipal indicator, not a per-project contribution. The
		// caveat must reach the model; suppressing it would launder bad data.
		out += fmt.Sprintf("\n  (Nota: El valor %s se repite en los %d registros encontrados. Verifique si este es un indicador municipal constante o un aporte por proyecto).",
			dataset.FormatMoney(v), len(nonZero))
	} else {
		out += fmt.Sprintf("\n  (Calculado sumando los valores de los %d registros encontrados).", len(nonZero))
	}
	return out
}

func repeatedConstant(values []float64) (bool, float64) {
	if len(values) < 2 {
		return false, 0
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false, 0
		}
	}
	return true, values[0]
}
