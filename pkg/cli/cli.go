package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/igolaizola/shazambot"
	"github.com/igolaizola/shazambot/pkg/cmd/identify"
	"github.com/igolaizola/shazambot/pkg/cmd/migrate"
	"github.com/igolaizola/shazambot/pkg/cmd/search"
	"github.com/igolaizola/shazambot/pkg/cmd/serve"
	"github.com/igolaizola/shazambot/pkg/inbound"
	"github.com/peterbourgon/ff/ffyaml"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func New(version, commit, date string) *ffcli.Command {
	fs := flag.NewFlagSet("shazambot", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "shazambot [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newVersionCommand(version, commit, date),
			newMigrateCommand(),
			newServeCommand(),
			newIdentifyCommand(),
			newSearchCommand(),
		},
	}
}

func newVersionCommand(version, commit, date string) *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "shazambot version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" {
				v = "dev"
			}
			versionFields := []string{v}
			if commit != "" {
				versionFields = append(versionFields, commit)
			}
			if date != "" {
				versionFields = append(versionFields, date)
			}
			fmt.Println(strings.Join(versionFields, " "))
			return nil
		},
	}
}

func options() []ff.Option {
	return []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithEnvVarPrefix("SHAZAMBOT"),
	}
}

func newMigrateCommand() *ffcli.Command {
	cmd := "migrate"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &migrate.Config{}

	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("shazambot %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("shazambot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return migrate.Run(ctx, cfg)
		},
	}
}

func newServeCommand() *ffcli.Command {
	cmd := "serve"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &serve.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.LogFile, "log-file", "", "log file (optional)")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres), empty disables persistence")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.StringVar(&cfg.Proxy, "proxy", "", "proxy to use")

	// Telegram
	fs.StringVar(&cfg.Token, "token", "", "telegram bot token")
	fs.StringVar(&cfg.Username, "username", "", "bot username (defaults to the one reported by telegram)")
	fs.StringVar(&cfg.Name, "name", "Music Recognition Bot", "bot name")
	fsIntsVar(fs, &cfg.Admins, "admins", "admin user ids (comma separated)")
	fs.StringVar(&cfg.WebhookURL, "webhook-url", "", "public webhook url, empty uses long polling")
	fs.StringVar(&cfg.WebhookAddr, "webhook-addr", ":8443", "address the webhook listens on")
	fs.BoolVar(&cfg.Ngrok, "ngrok", false, "expose the webhook through an ngrok tunnel")
	fs.StringVar(&cfg.NgrokBin, "ngrok-bin", "ngrok", "ngrok binary")

	// Files and recognition
	fs.Int64Var(&cfg.MaxFileSize, "max-file-size", inbound.DefaultMaxSize, "max file size in bytes")
	fsStringsVar(fs, &cfg.Extensions, "extensions", inbound.DefaultExtensions, "allowed file extensions (comma separated)")
	fs.StringVar(&cfg.DownloadDir, "download-dir", "/tmp/shazam_bot", "temporary download directory")
	fs.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "recognition timeout")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", 3, "max recognition attempts (recognition is attempted once)")
	fs.IntVar(&cfg.MaxRequests, "max-requests", 10, "max recognitions per user and minute (0 disables)")
	fs.DurationVar(&cfg.Cooldown, "cooldown", 5*time.Second, "cooldown between recognitions of a user (0 disables)")
	fs.IntVar(&cfg.MaxConcurrent, "max-concurrent", 5, "max concurrent recognitions")
	fs.StringVar(&cfg.ShazamEndpoint, "shazam-endpoint", "", "recognition service base url")
	fs.StringVar(&cfg.ShazamKey, "shazam-key", "", "recognition service api key")
	fs.StringVar(&cfg.ShazamHost, "shazam-host", "", "recognition service api host")
	fs.StringVar(&cfg.FFmpeg, "ffmpeg", "", "ffmpeg binary used to convert clips (optional)")
	fs.DurationVar(&cfg.FFmpegDuration, "ffmpeg-duration", 20*time.Second, "max clip duration after conversion")

	// Behaviour
	fs.StringVar(&cfg.DefaultLanguage, "default-language", "fa", "default language (fa, en)")
	fs.BoolVar(&cfg.AutoDetect, "auto-detect", true, "detect the language of new users")
	fs.BoolVar(&cfg.Markdown, "markdown", true, "format messages with markdown")
	fs.BoolVar(&cfg.VerboseErrors, "verbose-errors", false, "show error details to users")
	fs.BoolVar(&cfg.Activity, "activity", true, "show typing indicators")
	fs.BoolVar(&cfg.Inline, "inline", true, "enable inline mode")
	fs.DurationVar(&cfg.InlineCacheTime, "inline-cache-time", 300*time.Second, "inline results cache time")
	fs.BoolVar(&cfg.Editing, "editing", true, "enable song editing")
	fs.BoolVar(&cfg.Save, "save", false, "enable writing metadata into mp3 files")
	fs.BoolVar(&cfg.Links, "links", true, "add streaming links")
	fs.StringVar(&cfg.SpotifyID, "spotify-id", "", "spotify client id (optional)")
	fs.StringVar(&cfg.SpotifySecret, "spotify-secret", "", "spotify client secret (optional)")
	fs.BoolVar(&cfg.Notify, "notify", true, "notify admins about failures")

	// Access
	fs.BoolVar(&cfg.BlacklistEnabled, "blacklist-enabled", false, "ignore blacklisted users")
	fsIntsVar(fs, &cfg.Blacklist, "blacklist", "blacklisted user ids (comma separated)")
	fs.BoolVar(&cfg.WhitelistEnabled, "whitelist-enabled", false, "only answer in whitelisted groups")
	fsIntsVar(fs, &cfg.Whitelist, "whitelist", "whitelisted group ids (comma separated)")

	// Backup
	fs.BoolVar(&cfg.Backup, "backup", true, "backup user preferences into the database")
	fs.DurationVar(&cfg.BackupInterval, "backup-interval", 24*time.Hour, "backup interval")

	// Messages
	fs.StringVar(&cfg.Welcome, "welcome-message", "", "custom welcome message (%s is the bot username)")
	fs.StringVar(&cfg.Help, "help-message", "", "custom help message (%s is the bot username)")
	fs.StringVar(&cfg.Messages, "messages", "", "yaml file overriding messages per language")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("shazambot %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("shazambot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return serve.Run(ctx, cfg)
		},
	}
}

func recognitionFlags(fs *flag.FlagSet, cfg *shazambot.Config) {
	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.Proxy, "proxy", "", "proxy to use")
	fs.DurationVar(&cfg.Wait, "wait", 500*time.Millisecond, "wait time between requests")
	fs.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "recognition timeout")
	fs.StringVar(&cfg.Endpoint, "shazam-endpoint", "", "recognition service base url")
	fs.StringVar(&cfg.Key, "shazam-key", "", "recognition service api key")
	fs.StringVar(&cfg.Host, "shazam-host", "", "recognition service api host")
}

func newIdentifyCommand() *ffcli.Command {
	cmd := "identify"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &identify.Config{}

	recognitionFlags(fs, &cfg.Config)
	fs.StringVar(&cfg.Input, "input", "", "audio file to identify")
	fs.StringVar(&cfg.Language, "language", "en", "output language (fa, en)")
	fs.Int64Var(&cfg.MaxFileSize, "max-file-size", inbound.DefaultMaxSize, "max file size in bytes")
	fsStringsVar(fs, &cfg.Extensions, "extensions", inbound.DefaultExtensions, "allowed file extensions (comma separated)")
	fs.BoolVar(&cfg.Links, "links", true, "add streaming links")
	fs.StringVar(&cfg.SpotifyID, "spotify-id", "", "spotify client id (optional)")
	fs.StringVar(&cfg.SpotifySecret, "spotify-secret", "", "spotify client secret (optional)")
	fs.StringVar(&cfg.FFmpeg, "ffmpeg", "", "ffmpeg binary used to convert clips (optional)")
	fs.DurationVar(&cfg.FFmpegDuration, "ffmpeg-duration", 20*time.Second, "max clip duration after conversion")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("shazambot %s [flags] [file]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("shazambot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if cfg.Input == "" && len(args) > 0 {
				cfg.Input = args[0]
			}
			return identify.Run(ctx, cfg)
		},
	}
}

func newSearchCommand() *ffcli.Command {
	cmd := "search"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &search.Config{}

	recognitionFlags(fs, &cfg.Config)
	fs.StringVar(&cfg.Query, "query", "", "search query")
	fs.StringVar(&cfg.Language, "language", "en", "output language (fa, en)")
	fs.StringVar(&cfg.Username, "username", "", "bot username shown in answers")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("shazambot %s [flags] [query]", cmd),
		Options:    options(),
		ShortHelp:  fmt.Sprintf("shazambot %s action", cmd),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if cfg.Query == "" && len(args) > 0 {
				cfg.Query = strings.Join(args, " ")
			}
			return search.Run(ctx, cfg)
		},
	}
}

type intsValue struct {
	v *[]int64
}

func (i *intsValue) String() string {
	if i.v == nil {
		return ""
	}
	var s []string
	for _, n := range *i.v {
		s = append(s, strconv.FormatInt(n, 10))
	}
	return strings.Join(s, ",")
}

func (i *intsValue) Set(value string) error {
	if i.v == nil {
		return errors.New("nil slice reference")
	}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id: %s", part)
		}
		*i.v = append(*i.v, n)
	}
	return nil
}

func fsIntsVar(fs *flag.FlagSet, p *[]int64, name string, usage string) {
	fs.Var(&intsValue{p}, name, usage)
}

type stringsValue struct {
	v   *[]string
	set bool
}

func (s *stringsValue) String() string {
	if s.v == nil {
		return ""
	}
	return strings.Join(*s.v, ",")
}

func (s *stringsValue) Set(value string) error {
	if s.v == nil {
		return errors.New("nil slice reference")
	}
	if !s.set {
		// Replace the default on first use
		*s.v = nil
		s.set = true
	}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s.v = append(*s.v, part)
		}
	}
	return nil
}

func fsStringsVar(fs *flag.FlagSet, p *[]string, name string, value []string, usage string) {
	*p = append([]string(nil), value...)
	fs.Var(&stringsValue{v: p}, name, usage)
}
