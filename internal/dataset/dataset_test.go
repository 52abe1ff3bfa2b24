package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Base_Radicados.csv", []byte("RADICADO,MUNICIPIO,PROYECTOS\nR-001,Amalfi,Puente\nR-002,Anorí,\n"))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"RADICADO", "MUNICIPIO", "PROYECTOS"}, ds.Columns)

	v, ok := ds.Row(1).Get("MUNICIPIO")
	assert.True(t, ok)
	assert.Equal(t, "Anorí", v)
}

func TestLoadCSVWithBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datos.csv", append([]byte("\xef\xbb\xbf"), []byte("MUNICIPIO\nAmalfi\n")...))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.True(t, ds.HasColumn("MUNICIPIO"))
	assert.Equal(t, 1, ds.Len())
}

func TestLoadCSVLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	// "Anorí" with a Latin-1 encoded í (0xED)
	path := writeFile(t, dir, "datos.csv", []byte("MUNICIPIO\nAnor\xed\n"))

	ds, err := Load(path)
	require.NoError(t, err)
	v, ok := ds.Row(0).Get("MUNICIPIO")
	assert.True(t, ok)
	assert.Equal(t, "Anorí", v)
}

func TestRowGetMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datos.csv", []byte("A\n1\n"))

	ds, err := Load(path)
	require.NoError(t, err)
	_, ok := ds.Row(0).Get("B")
	assert.False(t, ok)
}

func TestRowShortRecordPadded(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datos.csv", []byte("A,B,C\n1,2\n"))

	ds, err := Load(path)
	require.NoError(t, err)
	v, ok := ds.Row(0).Get("C")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestLabel(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Red_vial_terciaria_decodificado.csv", "Red vial terciaria"},
		{"Municipios_decodificado.xlsx", "Municipios"},
		{"Base_Necesidades.csv", "Base Necesidades.csv"},
	}
	for _, c := range cases {
		ds := &Dataset{Name: c.name}
		assert.Equal(t, c.want, ds.Label())
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("datos.parquet")
	assert.Error(t, err)
}
