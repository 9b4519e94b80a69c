package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/repository"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/service"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/database"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/jwt"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/notify"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/password"
)

// ── device-token ──

var deviceTokenTTL time.Duration

var deviceTokenCmd = &cobra.Command{
	Use:   "device-token <device_id>",
	Short: "为考勤终端签发设备令牌",
	Long: `使用 auth.device_jwt_secret 签发 HS256 设备令牌。
终端以 Authorization: Bearer <token> 调用 /api/v1/biometric 下的设备接口。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadEnv()
		if err != nil {
			return err
		}
		token, err := jwt.NewManager(&cfg.Auth).GenerateDeviceToken(args[0], deviceTokenTTL)
		if err != nil {
			return fmt.Errorf("签发设备令牌失败: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// ── migrate ──

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行或回滚数据库迁移",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "应用全部未执行的迁移",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnv()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, closeDB, err := openDB(cfg, logger)
		if err != nil {
			return err
		}
		defer closeDB()

		return withSQLDB(db, func(sqlDB *sql.DB) error {
			return database.RunMigrations(sqlDB, logger)
		})
	},
}

var rollbackSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "回滚迁移",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnv()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, closeDB, err := openDB(cfg, logger)
		if err != nil {
			return err
		}
		defer closeDB()

		return withSQLDB(db, func(sqlDB *sql.DB) error {
			return database.RollbackMigrations(sqlDB, rollbackSteps, logger)
		})
	},
}

// withSQLDB 取出底层 *sql.DB 后执行迁移操作
func withSQLDB(db *gorm.DB, fn func(*sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return fn(sqlDB)
}

// ── cleanup-sessions ──

var cleanupSessionsCmd = &cobra.Command{
	Use:   "cleanup-sessions",
	Short: "删除过期会话",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnv()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, closeDB, err := openDB(cfg, logger)
		if err != nil {
			return err
		}
		defer closeDB()

		authSvc := service.NewAuthService(&cfg.Auth, repository.NewRepository(db), nil, notify.Nop{}, logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		n, err := authSvc.CleanupExpiredSessions(ctx)
		if err != nil {
			return fmt.Errorf("清理过期会话失败: %w", err)
		}
		logger.Info("过期会话清理完成", zap.Int64("deleted", n))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", n)
		return nil
	},
}

// ── hash-password ──

var hashIterations int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "生成 PBKDF2 密码哈希（salt:hash）",
	Long:  `未提供参数时从标准输入读取一行密码，便于在种子脚本中使用。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, err := readPassword(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		hash, err := password.NewHasher(hashIterations).Hash(plain)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func readPassword(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("密码不能为空")
	}
	return line, nil
}

func init() {
	deviceTokenCmd.Flags().DurationVar(&deviceTokenTTL, "ttl", 0, "有效期（默认使用 auth.device_token_ttl）")

	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "回滚步数")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	hashPasswordCmd.Flags().IntVar(&hashIterations, "iterations", password.DefaultIterations, "PBKDF2 迭代次数，须与 auth.pbkdf2_iterations 一致")
}
