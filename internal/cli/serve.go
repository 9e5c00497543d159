package cli

import (
	"os"

	"github.com/spf13/cobra"

	"auction-draft-mcp/internal/config"
	"auction-draft-mcp/internal/server"
)

func newServeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the draft over REST and MCP",
		Long: `Serve the draft session over HTTP. The MCP streamable endpoint is mounted
at server.mcp_path and the REST API under /api. Requests must carry the key
from ` + config.APIKeyEnv + ` unless auth is disabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := e.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			srv, err := server.New(a, e.cfg.Server, os.Getenv(config.APIKeyEnv))
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("addr", "", "HTTP listen address")
	cmd.Flags().Bool("require-auth", true, "require API key auth via "+config.APIKeyEnv)
	cmd.Flags().Bool("refresh", false, "re-download a URL catalog")
	return cmd
}
