package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"policyrag/internal/httpapi"
	"policyrag/internal/logger"
	"policyrag/internal/watcher"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. Documents already in the upload directory are
analyzed first, so the index survives restarts as long as the uploads do.
Directories listed under store.watch are watched for new files.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	if err := a.rebuild(ctx); err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	router := httpapi.NewRouter(httpapi.Deps{
		Service:    a.analyzer,
		Uploads:    a.store,
		Summarizer: a.summarizer,
	}, httpapi.Options{
		CORSOrigins:         cfg.Server.CORSOrigins,
		MaxUploadBytes:      cfg.Server.MaxUploadBytes,
		DefaultMaxResponses: cfg.Query.DefaultMaxResponses,
		MaxResponsesLimit:   cfg.Query.MaxResponsesLimit,
		SummarySentences:    cfg.Summarizer.MaxSentences,
		SlowRequest:         2 * time.Second,
	})

	g, ctx := errgroup.WithContext(ctx)
	if dirs := watchDirs(cfg.Store.Watch, a.store.Dir()); len(dirs) > 0 {
		w := watcher.New(a.store, a.analyzer, watcher.Options{
			Dirs:     dirs,
			Debounce: time.Duration(cfg.Store.DebounceMillis) * time.Millisecond,
		})
		g.Go(func() error { return w.Run(ctx) })
	}
	g.Go(func() error { return httpapi.NewServer(addr, router).Run(ctx) })
	return g.Wait()
}

// watchDirs drops the upload dir from dirs. Uploads are analyzed by the
// handler that saved them.
func watchDirs(dirs []string, uploadDir string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if filepath.Clean(d) == filepath.Clean(uploadDir) {
			logger.Named("cli").Warn().Str("dir", d).Msg("not watching the upload dir")
			continue
		}
		out = append(out, d)
	}
	return out
}
