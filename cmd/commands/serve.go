package commands

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/server"
	"github.com/quillmate/quillmate-cli/pkg/watch"
)

var serveAddr string

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP backend for a browser editor",
		Long: `Serve the assistant and the document store over HTTP:

  POST /chat, POST /enhance
  GET/PUT/DELETE /v1/files/*path, GET /v1/files, POST /v1/files/{new,move,rename}
  GET/PUT /v1/settings
  GET /health, GET /metrics

Changes made to documents on disk are logged while the server runs.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr setting)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	opts := globalOpts
	opts.Verbose = true
	ctx, err := cli.NewCommandContext(opts)
	if err != nil {
		return err
	}
	ctx.Completer = completerOverride
	defer ctx.Close()

	cfg := ctx.Settings.Get()
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(server.Config{
		Assistant: ctx.NewAssistant(cfg),
		Files:     ctx.Files,
		Settings:  ctx.Settings,
		Metrics:   ctx.Metrics,
		Logger:    ctx.Logger,
		Rebuild: func(st *models.Settings) server.Assistant {
			return ctx.NewAssistant(st)
		},
	})

	watcher, err := watch.New(ctx.Files.Root(), func(events []watch.Event) {
		for _, ev := range events {
			ctx.Logger.Info("document changed on disk", "path", ev.Path, "op", ev.Op.String())
		}
	}, watch.Options{Logger: ctx.Logger})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return srv.Serve(gctx, addr) })
	g.Go(func() error { return watcher.Run(gctx) })
	return g.Wait()
}
