package cmd

import (
	"context"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/attachment-service/internal/attachment/dao"
	"github.com/Laisky/attachment-service/library/log"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "migrate",
	Long:  `migrate db`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s := loadSettings()

		db, err := openDB(ctx, s)
		if err != nil {
			log.Logger.Panic("open db", zap.Error(err))
		}
		if err = dao.RunMigrations(ctx, db, log.Logger.Named("migration")); err != nil {
			log.Logger.Panic("migrate", zap.Error(err))
		}

		log.Logger.Info("migration done", zap.String("db_type", s.DBType))
	},
}

func init() {
	rootCMD.AddCommand(migrateCMD)
}
