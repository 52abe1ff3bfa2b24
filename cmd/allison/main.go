package main

import (
	"flag"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"allison/internal/chunker"
	"allison/internal/config"
	"allison/internal/domain"
	"allison/internal/embedding/openai"
	"allison/internal/embedding/tfidf"
	"allison/internal/engine"
	"allison/internal/generator"
	"allison/internal/gis"
	"allison/internal/normtext"
	"allison/internal/service"
	"allison/internal/summarizer"
	"allison/internal/tui"
	"allison/internal/vectorstore/memory"
	"allison/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/allison/config.yaml if not provided)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Document globs can come from the command line or the config
	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = cfg.Data.Documents
	}

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			logger.Fatal("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Fatal("openai embedder init failed", zap.Error(err))
		}
		emb = client
	default:
		logger.Fatal("unknown embedder", zap.String("type", cfg.Embedder.Type))
	}

	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "sentence", "":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		logger.Fatal("unknown chunker", zap.String("type", cfg.Chunker.Type))
	}

	var st domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		st = memory.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			logger.Fatal("qdrant config missing")
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		logger.Fatal("unknown vector store", zap.String("type", cfg.VectorStore.Type))
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer()
	default:
		logger.Fatal("unknown summarizer", zap.String("type", cfg.Summarizer.Type))
	}

	gen, err := generator.NewClient(generator.Config{
		BaseURL:     cfg.Generator.BaseURL,
		APIKeyEnv:   cfg.Generator.APIKeyEnv,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	})
	if err != nil {
		logger.Fatal("generator init failed", zap.Error(err))
	}

	vocab := buildVocabulary(cfg.Vocabulary)
	eng := engine.New(cfg.Data.TabularDir, vocab, logger.Named("engine"))
	catalog := gis.New(cfg.Data.Dir, logger.Named("gis"))
	prompts := generator.NewPromptBuilder(cfg.Data.Dir)

	svc := service.NewAssistant(service.Deps{
		Chunker:             ch,
		Embedder:            emb,
		Store:               st,
		Summarizer:          sum,
		Engine:              eng,
		Catalog:             catalog,
		Prompts:             prompts,
		Generator:           gen,
		Log:                 logger.Named("assistant"),
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
		RetrievalTopK:       cfg.Retrieval.TopK,
	})

	summary, err := svc.IngestDocuments(inputs)
	if err != nil {
		logger.Fatal("ingest failed", zap.Error(err))
	}

	m := tui.New(svc, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		logger.Fatal("tui exited", zap.Error(err))
	}
}

// buildVocabulary starts from the built-in keyword sets and applies any
// non-empty override lists from the config.
func buildVocabulary(vc config.VocabularyConfig) normtext.Vocabulary {
	def := normtext.Default()
	pick := func(override, fallback []string) []string {
		if len(override) > 0 {
			return override
		}
		return fallback
	}
	var stop []string
	if len(vc.StopWords) > 0 {
		stop = vc.StopWords
	} else {
		stop = def.StopWords()
	}
	return normtext.New(
		stop,
		pick(vc.Statistic, def.Statistic),
		pick(vc.Listing, def.Listing),
		pick(vc.Money, def.Money),
		pick(vc.SubRegions, def.SubRegions),
	)
}

// newLogger writes to a file so log lines do not corrupt the TUI.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{filepath.Join(".", "allison.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	return cfg.Build()
}
