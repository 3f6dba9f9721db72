// collab 是協作房間的終端機客戶端，每隔固定時間向伺服器輪詢訊息。
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"collab_web/internal/client"
	"collab_web/internal/collab"
	"collab_web/internal/logging"
	"collab_web/internal/tui"
	"collab_web/pkg/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("collab", pflag.ExitOnError)
	fs.String("config", "", "path to config file")
	fs.String("base-url", "", "API base URL, e.g. http://localhost:8000/api")
	fs.String("author", "", "display name attached to sent messages")
	fs.Duration("poll-interval", 0, "message refresh interval")
	fs.String("log-file", "", "file that receives client logs")
	fs.String("log-level", "", "log level")
	_ = fs.Parse(args)

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 畫面由 bubbletea 佔用，日誌寫入檔案
	logFile, err := os.OpenFile(cfg.Client.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := logging.New(cfg.Log, logFile)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	c := client.New(cfg.Client.BaseURL,
		client.WithTimeout(cfg.Client.RequestTimeout),
		client.WithLogger(logger),
	)

	healthCtx, cancel := context.WithTimeout(context.Background(), cfg.Client.RequestTimeout)
	if err := c.Health(healthCtx); err != nil {
		logger.Warn("server health check failed", "base_url", cfg.Client.BaseURL, "error", err)
	}
	cancel()

	notifier := tui.NewNotifier()
	session := collab.NewSession(c,
		collab.WithInterval(cfg.Client.PollInterval),
		collab.WithAuthor(cfg.Client.Author),
		collab.WithLogger(logger),
		collab.WithObserver(notifier.Observe),
	)
	defer session.Close()

	p := tea.NewProgram(tui.New(session, cfg.Client.RequestTimeout), tea.WithAltScreen())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		_, err := p.Run()
		return err
	})
	g.Go(func() error {
		return notifier.Forward(ctx, p)
	})

	logger.Info("client started", "base_url", cfg.Client.BaseURL, "poll_interval", cfg.Client.PollInterval)
	return g.Wait()
}
