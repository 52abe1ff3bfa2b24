package service

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"allison/internal/domain"
	"allison/internal/engine"
	"allison/internal/generator"
	"allison/internal/gis"
	"allison/internal/loader"
)

// Assistant answers questions about the department's road infrastructure.
// Every question is first run through the structured data engine and the
// GIS catalog; their findings are appended to the question so the model
// sees authoritative figures next to the retrieved corpus fragments.
type Assistant struct {
	chunker             domain.Chunker
	embedder            domain.Embedder
	store               domain.VectorStore
	summarizer          domain.Summarizer
	engine              *engine.Engine
	catalog             *gis.Catalog
	prompts             *generator.PromptBuilder
	generator           domain.Generator
	log                 *zap.Logger
	summaryMaxSentences int
	retrievalTopK       int
	chunks              []domain.Chunk
}

type Deps struct {
	Chunker             domain.Chunker
	Embedder            domain.Embedder
	Store               domain.VectorStore
	Summarizer          domain.Summarizer
	Engine              *engine.Engine
	Catalog             *gis.Catalog
	Prompts             *generator.PromptBuilder
	Generator           domain.Generator
	Log                 *zap.Logger
	SummaryMaxSentences int
	RetrievalTopK       int
}

func NewAssistant(d Deps) *Assistant {
	topK := d.RetrievalTopK
	if topK <= 0 {
		topK = 3
	}
	return &Assistant{
		chunker:             d.Chunker,
		embedder:            d.Embedder,
		store:               d.Store,
		summarizer:          d.Summarizer,
		engine:              d.Engine,
		catalog:             d.Catalog,
		prompts:             d.Prompts,
		generator:           d.Generator,
		log:                 d.Log,
		summaryMaxSentences: d.SummaryMaxSentences,
		retrievalTopK:       topK,
	}
}

// IngestDocuments loads, chunks, embeds and indexes the corpus, then
// returns a short summary of the ingested material.
func (s *Assistant) IngestDocuments(paths []string) (string, error) {
	documents, err := loader.Load(paths)
	if err != nil {
		return "", err
	}
	var allChunks []domain.Chunk
	var allTexts []string
	var allTextConcat strings.Builder
	for _, d := range documents {
		chunks, err := s.chunker.Chunk(d)
		if err != nil {
			return "", err
		}
		for _, ch := range chunks {
			allChunks = append(allChunks, ch)
			allTexts = append(allTexts, ch.Text)
		}
		allTextConcat.WriteString("\n")
		allTextConcat.WriteString(d.Content)
	}
	// Keep chunks for fallback ranking
	s.chunks = allChunks
	if err := s.embedder.Prepare(allTexts); err != nil {
		return "", err
	}
	if err := s.store.Init(s.embedder.Dimension()); err != nil {
		return "", err
	}
	vectors := make([][]float64, len(allChunks))
	for i := range allChunks {
		vec, err := s.embedder.Embed(allChunks[i].Text)
		if err != nil {
			return "", err
		}
		vectors[i] = vec
	}
	if err := s.store.Clear(); err != nil {
		return "", err
	}
	if err := s.store.Upsert(allChunks, vectors); err != nil {
		return "", err
	}
	s.log.Info("corpus indexed",
		zap.Int("documents", len(documents)),
		zap.Int("chunks", len(allChunks)))
	return s.summarizer.Summarize(allTextConcat.String(), s.summaryMaxSentences)
}

// Answer enriches the question with structured findings, retrieves
// supporting fragments and asks the generator for the final reply.
func (s *Assistant) Answer(question string) (string, error) {
	enriched := question
	if layers := s.catalog.Search(question); layers != "" {
		enriched += "\n\n" + layers
	}
	if roadData := s.engine.Search(question); roadData != "" {
		enriched += "\n\n" + roadData
	}
	results, err := s.retrieve(enriched, s.retrievalTopK)
	if err != nil {
		return "", err
	}
	var context strings.Builder
	for i, r := range results {
		if i > 0 {
			context.WriteString("\n\n")
		}
		context.WriteString(r.Chunk.Text)
	}
	prompt := s.prompts.Build(context.String(), enriched)
	s.log.Debug("answering",
		zap.Int("retrieved", len(results)),
		zap.Int("prompt_len", len(prompt)))
	return s.generator.Generate(prompt)
}

func (s *Assistant) retrieve(query string, topK int) ([]domain.SearchResult, error) {
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, err
	}
	zero := true
	for _, v := range vec {
		if v != 0 {
			zero = false
			break
		}
	}
	if zero {
		return s.lexicalSearch(query, topK), nil
	}
	res, err := s.store.Search(vec, topK)
	if err != nil {
		return nil, err
	}
	allZero := true
	for _, r := range res {
		if r.Score > 1e-9 {
			allZero = false
			break
		}
	}
	if allZero {
		return s.lexicalSearch(query, topK), nil
	}
	return res, nil
}

var unicodeWordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

func (s *Assistant) lexicalSearch(query string, topK int) []domain.SearchResult {
	qset := toTokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(s.chunks))
	for i, ch := range s.chunks {
		scores[i] = pair{i, overlapOchiai(qset, ch.Text)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK <= 0 {
		topK = 3
	}
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		p := scores[i]
		out = append(out, domain.SearchResult{Chunk: s.chunks[p.idx], Score: p.score})
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai computes |A∩B| / sqrt(|A||B|) over distinct tokens.
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	stoks := unicodeWordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(stoks))
	inter := 0
	for _, t := range stoks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	qa := float64(len(qset))
	ba := float64(len(seen))
	return float64(inter) / (sqrt(qa) * sqrt(ba))
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 6; i++ {
		z = 0.5 * (z + x/z)
	}
	return z
}
