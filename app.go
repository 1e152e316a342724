package main

import (
	"fmt"

	"github.com/triskis777/ketaverso-bot/aliases"
	"github.com/triskis777/ketaverso-bot/config"
	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/pipeline"
	"github.com/triskis777/ketaverso-bot/presenter"
	"github.com/triskis777/ketaverso-bot/psychonautwiki"
	"github.com/triskis777/ketaverso-bot/suggestions"
	"github.com/triskis777/ketaverso-bot/translation"
)

// app holds the collaborators shared by serve and resolve
type app struct {
	aliases   *aliases.Container
	client    *psychonautwiki.Client
	pipeline  *pipeline.Pipeline
	presenter *presenter.Presenter
}

func newApp(cfg *config.Config) (*app, error) {
	store := aliases.NewContainer(cfg.AliasFile)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load alias file: %w", err)
	}

	query, err := psychonautwiki.LoadQuery(cfg.QueryFile)
	if err != nil {
		return nil, err
	}
	client := psychonautwiki.NewClient(psychonautwiki.Options{
		Endpoint:  cfg.APIEndpoint,
		UserAgent: cfg.APIUserAgent,
		Origin:    cfg.APIOrigin,
		Timeout:   cfg.APITimeout,
		Query:     query,
	})

	var fallback interfaces.Fallback
	if cfg.TranslateEnabled {
		translator := translation.NewGoogleTranslator(cfg.TranslateEndpoint, cfg.TranslateTarget, cfg.TranslateTimeout)
		fallback = translation.NewFallback(translator, client)
	} else {
		logging.Info("Translation fallback disabled")
	}

	return &app{
		aliases:   store,
		client:    client,
		pipeline:  pipeline.New(store, client, fallback, suggestions.NewEngine(cfg.SuggestionLimit, cfg.SuggestionCutoff)),
		presenter: presenter.New(cfg.Locale),
	}, nil
}
