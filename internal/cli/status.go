package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/keepsharp/internal/client"
)

var statusURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a keepsharp server is running",
	Long:  "Query a running server's health endpoint. The address defaults to KEEPSHARP_URL, then server.bind and server.port.",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := statusURL
		if url == "" {
			url = os.Getenv("KEEPSHARP_URL")
		}
		if url == "" {
			url = cfg.ListenAddr()
		}
		c := client.New(url)

		h, err := c.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("server at %s is not reachable: %w", c.URL(), err)
		}
		db := "ok"
		if !h.DB {
			db = "unavailable"
		}
		uptime := time.Duration(h.Uptime * float64(time.Second)).Round(time.Second)
		fmt.Fprintf(cmd.OutOrStdout(), "keepsharp %s at %s: %s, storage %s, up %s\n", h.Version, c.URL(), h.Status, db, uptime)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusURL, "url", "", "server address")
}
