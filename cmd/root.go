// Package cmd 命令行入口：serve / migrate / recurring / version
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"fintrack/config"
	"fintrack/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version 构建时通过 -ldflags 注入
var Version = "dev"

// app 各子命令共享的配置与日志
type app struct {
	configFile string
	out        io.Writer
	cfg        *config.Config
	logger     *slog.Logger
}

// newRootCmd 创建根命令
func newRootCmd(out io.Writer) *cobra.Command {
	rt := &app{out: out}

	root := &cobra.Command{
		Use:           "fintrack",
		Short:         "个人财务管理服务",
		Long:          "FinTrack：按收入自动分配预算、记录收支并对账的个人财务后端。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&rt.configFile, "config", "c", "", "外部配置文件路径（可选）")

	serve := newServeCmd(rt)
	// 不带子命令时等同于 serve
	root.PreRunE = serve.PreRunE
	root.RunE = serve.RunE

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(rt))
	root.AddCommand(newRecurringCmd(rt))
	root.AddCommand(newVersionCmd(rt))
	return root
}

// load 加载 .env、配置与日志，需要配置的子命令在 PreRunE 中调用
func (rt *app) load(*cobra.Command, []string) error {
	// 本地开发时从 .env 读取环境变量，文件不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(rt.configFile)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.logger = logger.New(cfg.Log, rt.out)
	slog.SetDefault(rt.logger)
	return nil
}

// Execute 执行根命令
func Execute() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
