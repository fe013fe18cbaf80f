// Package main runs the dialogue engine in a terminal for local testing.
// It uses the real oracle and an SQLite store; Telegram is not involved.
//
// Usage:
//
//	DEEPSEEK_API_KEY=sk-... go run ./cmd/console -db :memory: -locale en
//
// Type messages as a chat user would. Menu buttons are typed by their label;
// /start prints them. Ctrl-D exits.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/xlab/closer"

	"github.com/omriShneor/schedule_bot/internal/config"
	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/dialogue"
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/i18n"
	"github.com/omriShneor/schedule_bot/internal/logging"
	"github.com/omriShneor/schedule_bot/internal/oracle"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

const consoleUser int64 = 1

var keyboards = map[dialogue.Keyboard][]string{
	dialogue.MainMenu:    {i18n.ButtonAdd, i18n.ButtonView, i18n.ButtonDelete, i18n.ButtonEdit},
	dialogue.ConfirmMenu: {i18n.ButtonYes, i18n.ButtonNo},
	dialogue.ExitMenu:    {i18n.ButtonExit},
}

func main() {
	dbPath := flag.String("db", ":memory:", "database DSN (SQLite path or postgres:// URL)")
	locale := flag.String("locale", "", "reply language, defaults to DEFAULT_LOCALE")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *locale == "" {
		*locale = cfg.DefaultLocale
	}

	logger, err := logging.New(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if !cfg.OracleConfigured() {
		color.Yellow("Warning: DEEPSEEK_API_KEY not set. Nothing will be extracted from free text.")
	}

	db, err := database.New(*dbPath)
	if err != nil {
		closer.Fatalln("failed to open database:", err)
	}
	closer.Bind(func() { _ = db.Close() })

	loc, _ := timeutil.ResolveLocation(cfg.Timezone)
	tr := i18n.NewTranslator(cfg.DefaultLocale, logger)
	client := oracle.NewClient(oracle.Options{
		APIKey:      cfg.DeepSeekAPIKey,
		URL:         cfg.DeepSeekURL,
		Model:       cfg.OracleModel,
		Temperature: &cfg.OracleTemperature,
		Timeout:     cfg.OracleTimeout,
	})
	engine := dialogue.NewEngine(dialogue.NewMemoryStore(), extract.New(client, logger), db, tr, dialogue.Config{
		OracleTimeout: cfg.OracleTimeout,
		StoreTimeout:  cfg.StoreTimeout,
		Location:      loc,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chat(ctx, engine, tr, *locale)
	closer.Close()
}

func chat(ctx context.Context, engine *dialogue.Engine, tr *i18n.Translator, locale string) {
	you := color.New(color.FgGreen, color.Bold).SprintFunc()
	bot := color.New(color.FgCyan).SprintFunc()
	buttons := color.New(color.Faint).SprintFunc()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(you("you> "))
		if !scanner.Scan() || ctx.Err() != nil {
			fmt.Println()
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		for _, r := range engine.Handle(ctx, dialogue.Message{UserID: consoleUser, Text: text, Locale: locale}) {
			fmt.Println(bot("bot> ") + strings.ReplaceAll(r.Text, "\n", "\n     "))
			if r.Attachment != nil {
				saveAttachment(*r.Attachment)
			}
			if keys, ok := keyboards[r.Keyboard]; ok {
				labels := make([]string, 0, len(keys))
				for _, k := range keys {
					labels = append(labels, "["+tr.T(locale, k, nil)+"]")
				}
				fmt.Println("     " + buttons(strings.Join(labels, " ")))
			}
		}
	}
}

func saveAttachment(a dialogue.Attachment) {
	if err := os.WriteFile(a.Filename, a.Data, 0o644); err != nil {
		color.Red("failed to save %s: %v", a.Filename, err)
		return
	}
	color.Yellow("saved %s (%d bytes)", a.Filename, len(a.Data))
}
