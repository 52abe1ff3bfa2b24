package gis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCatalog(t *testing.T, rows string) *Catalog {
	t.Helper()
	dir := t.TempDir()
	content := "Nombre_Capa,URL_Servicio\n" + rows
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalogo_capas.csv"), []byte(content), 0o644))
	return New(dir, zap.NewNop())
}

func TestSearchMatchesLayerName(t *testing.T) {
	c := newTestCatalog(t,
		"Red Vial Terciaria,https://services.arcgis.com/red-vial/0\n"+
			"Puentes Departamentales,https://services.arcgis.com/puentes/0\n")

	out := c.Search("mapa de puentes")
	assert.Contains(t, out, "[INFORMACIÓN DE CAPAS GEOGRÁFICAS ENCONTRADA]:")
	assert.Contains(t, out, "- Capa: Puentes Departamentales\n  URL: https://services.arcgis.com/puentes/0\n")
	assert.NotContains(t, out, "Red Vial Terciaria")
}

func TestSearchNoMatch(t *testing.T) {
	c := newTestCatalog(t, "Red Vial Terciaria,https://services.arcgis.com/red-vial/0\n")
	assert.Equal(t, "", c.Search("presupuesto educativo"))
}

func TestSearchTopThree(t *testing.T) {
	c := newTestCatalog(t,
		"Vial Uno,u1\nVial Dos,u2\nVial Tres,u3\nVial Cuatro,u4\n")

	out := c.Search("red vial")
	assert.Equal(t, 3, strings.Count(out, "- Capa: "))
	assert.NotContains(t, out, "Vial Cuatro")
}

func TestSearchAccentSensitive(t *testing.T) {
	// matching is plain lowercase containment, accents are not stripped
	c := newTestCatalog(t, "Vías Terciarias,u1\n")
	assert.Contains(t, c.Search("mapa de vías"), "Vías Terciarias")
	assert.Equal(t, "", c.Search("mapa de vias"))
}

func TestSearchMissingCatalog(t *testing.T) {
	c := New(t.TempDir(), zap.NewNop())
	assert.Equal(t, "", c.Search("mapa de puentes"))
}
