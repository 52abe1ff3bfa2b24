// Package gis matches queries against the catalog of published
// geographic layer services.
package gis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"allison/internal/dataset"
)

const (
	catalogFile = "catalogo_capas.csv"
	maxLayers   = 3
)

// Catalog looks up map-layer service URLs by layer name.
type Catalog struct {
	dir string
	log *zap.Logger
}

func New(dir string, log *zap.Logger) *Catalog {
	return &Catalog{dir: dir, log: log}
}

// Search returns a formatted block with up to three layers whose name
// contains any word of the query, or "" when nothing matches. Matching
// is plain lowercase containment; layer names in the catalog keep their
// accents and so must the query to hit them.
func (c *Catalog) Search(query string) string {
	path := filepath.Join(c.dir, catalogFile)
	ds, err := dataset.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.log.Warn("layer catalog unreadable", zap.String("path", path), zap.Error(err))
		}
		return ""
	}

	words := strings.Fields(strings.ToLower(query))
	var b strings.Builder
	found := 0
	for i := 0; i < ds.Len() && found < maxLayers; i++ {
		row := ds.Row(i)
		name, _ := row.Get("Nombre_Capa")
		if !layerMatches(name, words) {
			continue
		}
		url, _ := row.Get("URL_Servicio")
		fmt.Fprintf(&b, "- Capa: %s\n  URL: %s\n", name, url)
		found++
	}
	if found == 0 {
		return ""
	}
	return "\n[INFORMACIÓN DE CAPAS GEOGRÁFICAS ENCONTRADA]:\n" + b.String()
}

func layerMatches(name string, words []string) bool {
	lower := strings.ToLower(name)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
