package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/database"
	applogger "github.com/AlanDanielGC/hr-hub-main-sub001/pkg/logger"
)

var configPath string

// rootCmd 运维命令入口
var rootCmd = &cobra.Command{
	Use:   "hrctl",
	Short: "RRHH 后端运维工具",
	Long: `RRHH 后端运维工具。

子命令:
  device-token      为考勤终端签发设备令牌
  migrate           执行或回滚数据库迁移
  cleanup-sessions  删除过期会话
  hash-password     生成 PBKDF2 密码哈希`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	rootCmd.AddCommand(deviceTokenCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(cleanupSessionsCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnv 加载配置与日志
func loadEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}

// openDB 连接数据库，返回的 close 用于释放连接池
func openDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return db, func() { _ = sqlDB.Close() }, nil
}
