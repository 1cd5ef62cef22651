package cli

import (
	"os/signal"
	"syscall"

	"github.com/spacesedan/postlens/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve POST /analyze, the analysis history, GET /rules, GET /health and
GET /metrics until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return server.ListenAndServe(ctx, server.NewServer(rt.Service, rt.Metrics, cfg.Server))
}
