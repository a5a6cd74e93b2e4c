package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/igolaizola/shazambot"
	"github.com/igolaizola/shazambot/pkg/inline"
	"github.com/igolaizola/shazambot/pkg/locale"
)

type Config struct {
	shazambot.Config
	Query    string
	Language string
	Username string
}

// Run prints the inline answers for a query.
func Run(ctx context.Context, cfg *Config) error {
	if strings.TrimSpace(cfg.Query) == "" {
		return errors.New("search: query is required")
	}
	lang, ok := locale.Parse(cfg.Language)
	if !ok {
		return fmt.Errorf("search: invalid language %q", cfg.Language)
	}
	client, err := shazambot.NewShazam(&cfg.Config)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	adapter := inline.New(client, locale.New(), &inline.Config{Username: cfg.Username})
	answers, _ := adapter.Answers(ctx, lang, cfg.Query)
	for _, a := range answers {
		fmt.Println(a.Title)
		if a.Description != "" {
			fmt.Println("  " + a.Description)
		}
	}
	return nil
}
