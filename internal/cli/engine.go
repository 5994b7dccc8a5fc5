package cli

import (
	"fmt"

	"github.com/sidgajraj/caseline/internal/config"
	"github.com/sidgajraj/caseline/internal/intake"
	"github.com/sidgajraj/caseline/internal/llm"
	"github.com/sidgajraj/caseline/internal/store"
)

// buildEngine assembles the full intake pipeline from config: LLM client,
// session store, sqlite-backed case store, and engine. The caller owns the
// returned DB and must Close it.
func buildEngine(cfg config.Config) (*intake.Engine, *store.SQLiteCaseStore, *store.DB, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, nil, nil, err
	}

	var client llm.Client
	switch cfg.LLM.Provider {
	case "openai", "":
		client = llm.NewOpenAIClient(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Model)
	case "mock":
		client = &llm.MockClient{}
	default:
		return nil, nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}

	db, err := store.Open(paths.DatabasePath(cfg.Store), log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}
	cases := store.NewSQLiteCaseStore(db)

	engine := intake.NewEngine(
		intake.Config{
			Model:            cfg.LLM.Model,
			MaxTokens:        cfg.LLM.MaxTokens,
			ReplyTemperature: cfg.LLM.ReplyTemperature,
			HandoffContact:   cfg.Intake.HandoffContact,
		},
		client,
		intake.NewSessionStore(),
		cases,
		intake.DateResolver{},
		log,
	)

	return engine, cases, db, nil
}

// loadAndValidate loads the config file and fails on validation issues.
func loadAndValidate() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return config.Config{}, err
	}

	issues := config.Validate(&cfg)
	if len(issues) > 0 {
		for _, issue := range issues {
			log.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return config.Config{}, fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}
	return cfg, nil
}
