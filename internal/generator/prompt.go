package generator

import (
	"os"
	"path/filepath"
	"strings"
)

const personalContextFile = "contexto_personal.txt"

const promptTemplate = `Eres Allison, la asistente virtual de la Secretaría de Infraestructura Física de la Gobernación de Antioquia.
Tu misión es ayudar a consultar archivos y responder preguntas de manera profesional y amable.

INFORMACIÓN SOBRE EL USUARIO Y SU ENTORNO (CONTEXTO PERSONAL):
{personal_context}

INSTRUCCIONES SOBRE MAPAS Y VÍAS:
Si la pregunta se refiere a mapas, ubicación de vías o capas geográficas, revisa si hay información en la sección "CAPAS GEOGRÁFICAS" abajo.
Si encuentras una URL relevante, proporciónala al usuario indicando que es la fuente oficial de datos geográficos.

Usa los siguientes fragmentos de contexto recuperados para responder la pregunta al final.
Si la respuesta no se encuentra en el contexto, responde utilizando tu propio conocimiento general para ayudar al usuario.

Contexto recuperado:
{context}

Pregunta: {question}
Respuesta:`

// PromptBuilder assembles the full instruction prompt for the model.
// The personal context is read once from the data directory; a missing
// file just leaves the section empty.
type PromptBuilder struct {
	personalContext string
}

func NewPromptBuilder(dataDir string) *PromptBuilder {
	b := &PromptBuilder{}
	data, err := os.ReadFile(filepath.Join(dataDir, personalContextFile))
	if err == nil {
		b.personalContext = string(data)
	}
	return b
}

// Build interpolates the retrieved context and the user's question into
// the instruction template.
func (b *PromptBuilder) Build(context, question string) string {
	r := strings.NewReplacer(
		"{personal_context}", b.personalContext,
		"{context}", context,
		"{question}", question,
	)
	return r.Replace(promptTemplate)
}
