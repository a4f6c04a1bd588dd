package main

import (
	"context"
	"fmt"

	"policyrag/internal/config"
	"policyrag/internal/domain"
	"policyrag/internal/index/memory"
	"policyrag/internal/logger"
	"policyrag/internal/parser"
	"policyrag/internal/relevance"
	"policyrag/internal/segmenter"
	"policyrag/internal/service"
	"policyrag/internal/store"
	"policyrag/internal/summarizer"
	"policyrag/internal/topic"
)

// app holds the assembled components shared by the subcommands.
type app struct {
	analyzer   *service.Analyzer
	store      *store.Store
	summarizer domain.Summarizer
}

// buildApp assembles components from cfg.
func buildApp(cfg *config.AppConfig) (*app, error) {
	var seg domain.Segmenter
	switch cfg.Segmenter.Type {
	case "sentence", "":
		seg = segmenter.NewSentenceSegmenter()
	default:
		return nil, fmt.Errorf("unknown segmenter: %s", cfg.Segmenter.Type)
	}

	var model domain.TopicModel
	switch cfg.Topics.Strategy {
	case "dynamic", "":
		model = topic.NewDynamic(topic.DynamicOptions{
			Clusters:    cfg.Topics.Clusters,
			TopTerms:    cfg.Topics.TopTerms,
			MaxFeatures: cfg.Topics.MaxFeatures,
			Seed:        cfg.Topics.Seed,
		})
	case "static":
		model = topic.NewStatic(nil)
	default:
		return nil, fmt.Errorf("unknown topic strategy: %s", cfg.Topics.Strategy)
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer(seg)
	case "none":
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	st, err := store.New(cfg.Store.UploadDir, parser.NewRegistry())
	if err != nil {
		return nil, err
	}

	analyzer := service.NewAnalyzer(seg, relevance.NewFilter(cfg.Relevance.Terms...), model, memory.NewIndex(), service.Options{
		RefitEvery:    cfg.Topics.RefitEvery,
		ContextRadius: cfg.Segmenter.ContextRadius,
	})
	return &app{analyzer: analyzer, store: st, summarizer: sum}, nil
}

// rebuild re-analyzes every document in the upload dir.
func (a *app) rebuild(ctx context.Context) error {
	docs, err := a.store.LoadAll()
	if err != nil {
		return err
	}
	for _, d := range docs {
		if _, err := a.analyzer.Analyze(ctx, d); err != nil {
			return fmt.Errorf("analyze %s: %w", d.ID, err)
		}
	}
	logger.Named("cli").Info().Int("documents", len(docs)).Str("dir", a.store.Dir()).Msg("index rebuilt")
	return nil
}

// ingest loads and analyzes files outside the upload dir. The concatenated
// content is returned for summarizing.
func (a *app) ingest(ctx context.Context, paths []string) (string, error) {
	var all string
	for _, p := range paths {
		doc, err := a.store.Load(p)
		if err != nil {
			return "", err
		}
		if _, err := a.analyzer.Analyze(ctx, doc); err != nil {
			return "", fmt.Errorf("analyze %s: %w", doc.ID, err)
		}
		all += "\n" + doc.Content
	}
	return all, nil
}
