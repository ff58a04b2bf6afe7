package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ogurasousui/shop-hr/internal/core/employee"
	"github.com/ogurasousui/shop-hr/internal/platform/config"
	"github.com/ogurasousui/shop-hr/internal/platform/logging"
)

const defaultConfigPath = "assets/local.yaml"

type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "hrctl",
		Short:         "Manage shop employee records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or "+defaultConfigPath+")")

	root.AddCommand(a.employeeCommand())
	root.AddCommand(a.migrateCommand())

	return root
}

// load は .env, 設定ファイル, 環境変数の順に読み込みロガーを構築します。
func (a *app) load(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.Load(effectiveConfigPath(a.configPath))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)
	return nil
}

// effectiveConfigPath は既定の設定ファイルが存在しない場合に空文字を返し、環境変数のみで設定させます。
func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	if _, err := os.Stat(defaultConfigPath); err != nil {
		return ""
	}
	return defaultConfigPath
}

// describeError はフィールド検証エラーを "field: message" 形式に整形します。
func describeError(err error) string {
	var verr *employee.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s: %s", verr.Field, verr.Message)
	}
	return err.Error()
}
