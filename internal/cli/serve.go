package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/igdb"
	"github.com/rcliao/game-backlog/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cover lookup server",
		Long:  "Run the HTTP server that proxies cover lookups to IGDB. Twitch credentials are read from TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET (or a .env file).",
		Run:   runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Listen port (default: 3000)")
	cmd.Flags().String("allowed-origins", "", "Comma-separated CORS origins (default: any)")
	cmd.Flags().Float64("igdb-rate", 0, "Max IGDB requests per second (default: 4)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg.BindFlags(cmd.LocalFlags())

	if cfg.GetLogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	finder := igdb.NewClient(
		cfg.GetTwitchClientID(),
		cfg.GetTwitchClientSecret(),
		igdb.WithLimiter(igdb.NewLimiter(cfg.GetIGDBRate())),
	)
	if !finder.Configured() {
		slog.Warn("twitch credentials missing, cover lookups will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(finder, cfg.GetAllowedOrigins())
	if err := srv.ListenAndServe(ctx, cfg.GetAddr()); err != nil {
		exitErr("serve", err)
	}
}
