package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yenkart/yenkart/internal/config"
	"github.com/yenkart/yenkart/internal/constants"
	"github.com/yenkart/yenkart/internal/log"
)

func Start() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c = zerolog.New(os.Stderr).With().Timestamp().Logger().WithContext(c)
	cfg := config.Get(c, constants.APP_YENKART)
	logger := log.Get("/var/log/yenkart.log", cfg.Application).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_YENKART).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.APP_YENKART}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "server",
		Short: "Run the yenkart http server",
		Run: func(cmd *cobra.Command, args []string) {
			RunServer(cmd.Context())
		},
	})
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
