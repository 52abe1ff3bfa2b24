package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"allison/internal/normtext"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	writeCSV(t, dir, "Municipios_decodificado.csv",
		"MPIO_NOMBRE,SUBREGION\nAmalfi,Nordeste\nAnorí,Nordeste\nTurbo,Urabá\n")
	return New(dir, normtext.Default(), zap.NewNop()), dir
}

func TestSearchEmptyQuery(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Equal(t, "", e.Search("el de la"))
	assert.Equal(t, "", e.Search(""))
}

func TestSearchMissingDirectory(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "nope"), normtext.Default(), zap.NewNop())
	assert.Equal(t, "", e.Search("estado de la via en Amalfi"))
}

func TestResolveMunicipality(t *testing.T) {
	e, _ := newTestEngine(t)

	b := e.Resolve("cuantas necesidades tiene Anorí")
	require.NotNil(t, b)
	assert.Equal(t, KindMunicipality, b.Kind)
	assert.Equal(t, "Anorí", b.Name)

	// accent-insensitive
	b = e.Resolve("cuantas necesidades tiene anori")
	require.NotNil(t, b)
	assert.Equal(t, "Anorí", b.Name)
}

func TestResolveSubRegion(t *testing.T) {
	e, _ := newTestEngine(t)

	b := e.Resolve("radicados del Bajo Cauca")
	require.NotNil(t, b)
	assert.Equal(t, KindSubRegion, b.Kind)
	assert.Equal(t, "Bajo Cauca", b.Name)
}

func TestResolveMunicipalityWinsOverSubRegion(t *testing.T) {
	e, _ := newTestEngine(t)

	// Turbo sits in Urabá; the municipality must win
	b := e.Resolve("necesidades de Turbo en Urabá")
	require.NotNil(t, b)
	assert.Equal(t, KindMunicipality, b.Kind)
	assert.Equal(t, "Turbo", b.Name)
}

func TestResolveNothing(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Nil(t, e.Resolve("estado general del departamento"))
}

func TestClassify(t *testing.T) {
	v := normtext.Default()
	assert.Equal(t, IntentStatistic, Classify("cuantas necesidades hay", v))
	assert.Equal(t, IntentStatistic, Classify("suma de aportes", v))
	assert.Equal(t, IntentListing, Classify("dame los radicados de Amalfi", v))
	assert.Equal(t, IntentListing, Classify("cuales proyectos hay", v))
	assert.Equal(t, IntentNone, Classify("estado de la via", v))
	// statistic checked before listing
	assert.Equal(t, IntentStatistic, Classify("cuantos radicados, dame la lista", v))
}

func TestAggregateMunicipalityNeeds(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Base_Necesidades.csv",
		"MUNICIPIO,SUBREGION,NECESIDAD,APORTE GOB,VALOR NECESIDAD SIF\n"+
			"Amalfi,Nordeste,Mejoramiento vial,\"$500.00\",\"$1,200.00\"\n"+
			"Amalfi,Nordeste,Puente vereda,\"$500.00\",\"$800.00\"\n"+
			"Turbo,Urabá,Placa huella,\"$300.00\",\"$400.00\"\n")

	out := e.Search("cuantas necesidades tiene Amalfi")
	assert.Contains(t, out, "ESTADÍSTICA OFICIAL: El municipio de Amalfi tiene un total de 2 necesidades registradas en la base de datos.")
}

func TestAggregateMoneySumWithRepeatedValueCaveat(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Base_Necesidades.csv",
		"MUNICIPIO,SUBREGION,NECESIDAD,APORTE GOB\n"+
			"Amalfi,Nordeste,Mejoramiento vial,\"$500.00\"\n"+
			"Amalfi,Nordeste,Puente vereda,\"$500.00\"\n")

	out := e.Search("cuanto es el aporte en necesidades de Amalfi")
	assert.Contains(t, out, "Aporte Total de la Gobernación: $1,000.00")
	assert.Contains(t, out, "(Nota: El valor $500.00 se repite en los 2 registros encontrados.")
}

func TestAggregateMoneySumDistinctValues(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Base_Necesidades.csv",
		"MUNICIPIO,SUBREGION,NECESIDAD,VALOR NECESIDAD SIF\n"+
			"Amalfi,Nordeste,Mejoramiento vial,\"$1,200.00\"\n"+
			"Amalfi,Nordeste,Puente vereda,\"$800.00\"\n")

	out := e.Search("cuanto es el valor de las necesidades de Amalfi")
	assert.Contains(t, out, "Valor Total de las Necesidades (SIF): $2,000.00")
	assert.Contains(t, out, "(Calculado sumando los valores de los 2 registros encontrados).")
}

func TestAggregateSubRegionRoads(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Red_vial_terciaria_decodificado.csv",
		"CODIGO_VIA,NOMBRE_VIA,MUNICIPIO,SUBREGION\n"+
			"V-01,Via El Cedro,Amalfi,Nordeste\n"+
			"V-02,Via La Clara,Anorí,Nordeste\n"+
			"V-03,Via El Dos,Turbo,Urabá\n")

	out := e.Search("cuantas vias hay en el Nordeste")
	assert.Contains(t, out, "ESTADÍSTICA OFICIAL: La subregión de Nordeste tiene un total de 2 vías terciarias registradas.")
}

func TestAggregateGlobalFilings(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Base_Radicados.csv",
		"RADICADO,MUNICIPIO,SUBREGION,PROYECTOS,FECHA\n"+
			"R-001,Amalfi,Nordeste,Puente,2024-01-10\n"+
			"R-002,Turbo,Urabá,Placa huella,2024-02-15\n"+
			"R-003,Anorí,Nordeste,Box culvert,2024-03-20\n")

	out := e.Search("cuantos radicados hay en total")
	assert.Contains(t, out, "ESTADÍSTICA GLOBAL: En total, hay 3 radicados/solicitudes registrados en todo el departamento.")
}

func TestListingCapsAtTenRows(t *testing.T) {
	e, dir := newTestEngine(t)
	var sb strings.Builder
	sb.WriteString("RADICADO,MUNICIPIO,SUBREGION,PROYECTOS,FECHA\n")
	for i := 0; i < 15; i++ {
		sb.WriteString("R-")
		sb.WriteByte(byte('A' + i))
		sb.WriteString(",Amalfi,Nordeste,Puente,2024-01-10\n")
	}
	writeCSV(t, dir, "Base_Radicados.csv", sb.String())

	out := e.Search("dame los radicados de Amalfi")
	assert.Contains(t, out, "LISTADO DE RADICADOS PARA Amalfi:")
	assert.Contains(t, out, "... y 5 más.")
	assert.Equal(t, 10, strings.Count(out, " | Fecha: "))
}

func TestListingNeedsWithPhase(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Base_Necesidades.csv",
		"MUNICIPIO,SUBREGION,NECESIDAD,FASE PROYECTO\n"+
			"Amalfi,Nordeste,Mejoramiento vial,1\n"+
			"Amalfi,Nordeste,Puente vereda,4\n"+
			"Amalfi,Nordeste,Placa huella,\n")

	out := e.Search("lista de proyectos de Amalfi")
	assert.Contains(t, out, "LISTADO DE PROYECTOS/NECESIDADES PARA Amalfi:")
	assert.Contains(t, out, "- Proyecto: Mejoramiento vial | Fase: 1 (Perfil)")
	assert.Contains(t, out, "- Proyecto: Puente vereda | Fase: 4")
	assert.Contains(t, out, "- Proyecto: Placa huella | Fase: No definida")
}

func TestListingSubRegionIncludesMunicipality(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Base_Radicados.csv",
		"RADICADO,MUNICIPIO,SUBREGION,PROYECTOS,FECHA\n"+
			"R-001,Amalfi,Nordeste,Puente,2024-01-10\n")

	out := e.Search("dame los radicados del Nordeste")
	assert.Contains(t, out, "LISTADO DE RADICADOS PARA LA SUBREGIÓN Nordeste:")
	assert.Contains(t, out, "- Radicado: R-001 | Municipio: Amalfi | Fecha: 2024-01-10 | Proyecto: Puente")
}

func TestSearchStatisticOutranksRowMatches(t *testing.T) {
	e, dir := newTestEngine(t)
	writeCSV(t, dir, "Red_vial_terciaria_decodificado.csv",
		"CODIGO_VIA,NOMBRE_VIA,MUNICIPIO,SUBREGION\n"+
			"V-01,Via El Cedro,Amalfi,Nordeste\n")

	out := e.Search("cuantas vias tiene Amalfi")
	require.NotEmpty(t, out)
	// the statistic block comes first in the merged context
	header := "\n[DATOS DETALLADOS DE VÍAS ENCONTRADOS]:\n"
	require.True(t, strings.HasPrefix(out, header))
	first := strings.SplitN(strings.TrimPrefix(out, header), "\n------------------------------\n", 2)[0]
	assert.Contains(t, first, "ESTADÍSTICA OFICIAL")
}

func TestSearchCapsAtSevenResults(t *testing.T) {
	e, dir := newTestEngine(t)
	var sb strings.Builder
	sb.WriteString("CODIGO_VIA,NOMBRE_VIA,MUNICIPIO,SUBREGION\n")
	for i := 0; i < 12; i++ {
		sb.WriteString("V-0,Via Amalfi,Amalfi,Nordeste\n")
	}
	writeCSV(t, dir, "Red_vial_terciaria_decodificado.csv", sb.String())
	writeCSV(t, dir, "Base_Radicados.csv",
		"RADICADO,MUNICIPIO,SUBREGION,PROYECTOS\n"+
			"R-1,Amalfi,Nordeste,Via Amalfi\n"+
			"R-2,Amalfi,Nordeste,Via Amalfi\n"+
			"R-3,Amalfi,Nordeste,Via Amalfi\n"+
			"R-4,Amalfi,Nordeste,Via Amalfi\n")

	out := e.Search("estado de la via en Amalfi")
	require.NotEmpty(t, out)
	// five rows per file pre-merge, seven entries after the merge
	assert.Equal(t, 7, strings.Count(out, "FUENTE: "))
}

func TestSearchFallsBackToAllTabularFiles(t *testing.T) {
	dir := t.TempDir()
	// No Red_vial* or Base_* snapshot present: every tabular file in the
	// directory must still be searched.
	writeCSV(t, dir, "Otros_registros.csv",
		"NOMBRE_VIA,MUNICIPIO\nVia El Cedro,Amalfi\n")
	e := New(dir, normtext.Default(), zap.NewNop())

	out := e.Search("estado de la via El Cedro en Amalfi")
	assert.Contains(t, out, "FUENTE: Otros registros.csv")
	assert.Contains(t, out, "- Nombre Via: Via El Cedro\n")
}

func TestCandidateFilesPreferNamingConvention(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "Otros_registros.csv", "A\n1\n")
	writeCSV(t, dir, "Base_Radicados.csv", "A\n1\n")
	writeCSV(t, dir, "notas.txt", "x")
	e := New(dir, normtext.Default(), zap.NewNop())

	files := e.candidateFiles()
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "Base_Radicados.csv"), files[0])
}
