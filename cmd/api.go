package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/attachment-service/internal/web"
	"github.com/Laisky/attachment-service/library/log"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `attachment HTTP API service`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := loadSettings()
		ctrl, err := newAttachmentController(ctx, s)
		if err != nil {
			log.Logger.Panic("setup attachment controller", zap.Error(err))
		}

		if err = web.RunServer(ctx, s.Web, ctrl); err != nil {
			log.Logger.Panic("run server", zap.Error(err))
		}
	},
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
