package cmd

import (
	"fintrack/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Short:   "创建或更新数据表",
		PreRunE: rt.load,
		RunE: func(*cobra.Command, []string) error {
			db, err := database.Open(&rt.cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			rt.logger.Info("数据库迁移完成", "driver", rt.cfg.Database.Driver)
			return nil
		},
	}
}
