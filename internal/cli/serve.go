package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verilex/verilex/internal/api"
)

var (
	serveAddr      string
	serveExtractor string
	serveStateDir  string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP API",
	Long: `Serve exposes the pipeline over HTTP:

  POST /verifications                       start a verification
  GET  /verifications/{documentId}          fetch a record
  POST /verifications/{documentId}/review   resume with a reviewer decision
  POST /verifications/{documentId}/cancel   cancel a run

The server shares its record store with the CLI, so runs started here
can be reviewed with 'verilex review' and vice versa.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVarP(&serveExtractor, "extractor", "e", "", "extractor provider (heuristic, openai)")
	serveCmd.Flags().StringVar(&serveStateDir, "state-dir", "", "directory for suspended run state")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveExtractor != "" {
		cfg.Extractor.Provider = serveExtractor
	}
	if serveStateDir != "" {
		cfg.Output.StateDir = serveStateDir
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Listening on %s\n", cfg.Server.Addr)
	return api.NewServer(runner).ListenAndServe(ctx, cfg.Server)
}
