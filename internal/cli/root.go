package cli

import (
	"context"
	"os"

	"go_5_course_hub/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

// Execute はルートコマンドを実行します。
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "configs"
	}

	cmd := &cobra.Command{
		Use:          "course-hub",
		Short:        "Course enrollment, progress, exam and certificate API",
		Version:      config.AppVersion,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "config.yaml を置いたディレクトリ")
	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}
