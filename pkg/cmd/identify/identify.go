package identify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/igolaizola/shazambot"
	"github.com/igolaizola/shazambot/pkg/inbound"
	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/present"
)

type Config struct {
	shazambot.Config
	Input       string
	Language    string
	MaxFileSize int64
	Extensions  []string
}

// Run identifies a local audio file and prints the result.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Input == "" {
		return errors.New("identify: input is required")
	}
	lang, ok := locale.Parse(cfg.Language)
	if !ok {
		return fmt.Errorf("identify: invalid language %q", cfg.Language)
	}
	info, err := os.Stat(cfg.Input)
	if err != nil {
		return fmt.Errorf("identify: couldn't stat input: %w", err)
	}
	validator := inbound.New(cfg.MaxFileSize, cfg.Extensions)
	if _, err := validator.Validate(&inbound.Descriptor{
		Present: true,
		FileID:  cfg.Input,
		Name:    filepath.Base(cfg.Input),
		Size:    info.Size(),
	}); err != nil {
		return fmt.Errorf("identify: %w", err)
	}

	rec, err := shazambot.Identify(ctx, &cfg.Config, cfg.Input)
	if err != nil {
		return fmt.Errorf("identify: %w", err)
	}
	view := present.New(locale.New(), &present.Config{}).Result(*rec, lang)
	fmt.Println(view.Text)
	if view.Menu.LinkURL != "" {
		fmt.Println(view.Menu.LinkURL)
	}
	return nil
}
