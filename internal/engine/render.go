package engine

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"allison/internal/dataset"
)

// Technical and geometry columns that never appear in the answer text.
var excludedColumns = map[string]struct{}{
	"OBJECTID":      {},
	"Shape__Length": {},
	"Shape__Area":   {},
	"GlobalID":      {},
	"score":         {},
	"Shape":         {},
	"FID":           {},
}

// Project phases are stored as bare codes; readers expect the label too.
var phaseLabels = map[string]string{
	"1": "Perfil",
	"2": "Prefactibilidad",
	"3": "Factibilidad",
}

// mapPhase renders a phase code as "N (Label)". The source stores codes
// as numbers, sometimes with a decimal part ("2.0"). Codes without a
// known label, or not numeric at all, pass through unchanged.
func mapPhase(code string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(code), 64)
	if err != nil {
		return code
	}
	num := strconv.Itoa(int(f))
	if label, ok := phaseLabels[num]; ok {
		return fmt.Sprintf("%s (%s)", num, label)
	}
	return code
}

var moneyKeywords = []string{
	"VALOR", "PRESUPUESTO", "COSTO", "APORTE", "SOBRANTE",
	"DEUDA", "INGRESOS", "GASTOS", "AHORRO", "CAPACIDAD MAXIMA",
}

var moneyExclusions = []string{
	"PORCENTAJE", "INDICADOR", "SOBRE EL TOTAL", "LIMITE", "LÍMITE",
}

// isMoneyColumn reports whether a column holds peso amounts. Ratio and
// threshold columns share the money vocabulary, hence the exclusion list.
func isMoneyColumn(column string) bool {
	upper := strings.ToUpper(column)
	for _, ex := range moneyExclusions {
		if strings.Contains(upper, ex) {
			return false
		}
	}
	for _, kw := range moneyKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// displayTitle turns a raw column name into a readable Spanish label.
func displayTitle(column string) string {
	return cases.Title(language.Spanish).String(strings.ReplaceAll(column, "_", " "))
}

// renderRowBlock formats one matched row as a source-attributed block of
// "label: value" lines, skipping technical columns and empty cells.
func renderRowBlock(ds *dataset.Dataset, row dataset.Row, score float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FUENTE: %s (Relevancia: %.2f)\n", ds.Label(), score)
	for i, col := range row.Columns() {
		if _, skip := excludedColumns[col]; skip {
			continue
		}
		val := strings.TrimSpace(row.Value(i))
		if !usable(val) {
			continue
		}
		switch {
		case col == "FASE PROYECTO":
			val = mapPhase(val)
		case isMoneyColumn(col):
			val = displayMoney(val)
		}
		fmt.Fprintf(&b, "- %s: %s\n", displayTitle(col), val)
	}
	return b.String()
}

// displayMoney renders a parsable amount with thousands separators and
// two decimals; anything else stays as stored.
func displayMoney(val string) string {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(val, "$", ""), ",", "")
	amount, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return val
	}
	return dataset.FormatMoney(amount)
}
