package cmd

import (
	"fmt"

	"fintrack/database"
	"fintrack/models"
	"fintrack/repository"
	"fintrack/service"

	"github.com/spf13/cobra"
)

func newRecurringCmd(rt *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "周期支出维护",
	}
	cmd.AddCommand(newRecurringProcessCmd(rt))
	return cmd
}

func newRecurringProcessCmd(rt *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "process",
		Short:   "为所有用户补记到期的周期支出",
		PreRunE: rt.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := models.Today()
			if date != "" {
				d, err := models.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date 格式应为 %s: %w", models.DateLayout, err)
				}
				today = d
			}

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

			recurring := service.NewRecurringService(repository.NewStore(db), rt.logger)
			created, err := recurring.ProcessAll(cmd.Context(), today)
			fmt.Fprintf(cmd.OutOrStdout(), "created %d expenses\n", created)
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "按指定日期处理 (YYYY-MM-DD)，默认今天")
	return cmd
}
