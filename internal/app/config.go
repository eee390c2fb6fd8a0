// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-offline-client/pkg/util"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File        string            `yaml:"-"` // 配置文件路径，不序列化
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Database    DatabaseConfig    `yaml:"database"`
	App         AppSettings       `yaml:"app"`
	Remote      RemoteConfig      `yaml:"remote"`
	Sync        SyncConfig        `yaml:"sync"`
	Security    SecurityConfig    `yaml:"security"`
	AI          AIConfig          `yaml:"ai"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，默认为 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 本地界面服务配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort 本地界面监听端口
	HttpPort string `yaml:"http-port" default:":9100"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
}

// DatabaseConfig 本地数据库配置
type DatabaseConfig struct {
	// Type 数据库类型
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时），默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// MaxContentLength 笔记内容长度上限（字节），0 表示不限制
	MaxContentLength int `yaml:"max-content-length" default:"1048576"`
	// SearchCacheTTL 检索结果缓存时长
	SearchCacheTTL string `yaml:"search-cache-ttl" default:"5m"`
}

// RemoteConfig 远端同步服务配置
type RemoteConfig struct {
	// BaseURL 远端服务地址
	BaseURL string `yaml:"base-url" default:"http://127.0.0.1:9000"`
	// Timeout 单次请求超时
	Timeout string `yaml:"timeout" default:"10s"`
	// RatePerSecond 出站请求限速，0 表示不限速
	RatePerSecond float64 `yaml:"rate-per-second" default:"0"`
	// HeartbeatInterval 可达性探测周期
	HeartbeatInterval string `yaml:"heartbeat-interval" default:"15s"`
	// ProbeTimeout 单次探测超时
	ProbeTimeout string `yaml:"probe-timeout" default:"5s"`
	// FailureThreshold 连续失败多少次后判定离线
	FailureThreshold int `yaml:"failure-threshold" default:"2"`
}

// SyncConfig 同步配置
type SyncConfig struct {
	// RetryCap 单条目失败上限，达到后条目被丢弃
	RetryCap int `yaml:"retry-cap" default:"3"`
	// Interval 周期同步间隔，空或 0 表示关闭周期触发
	Interval string `yaml:"interval" default:"5m"`
	// QueueRetention 陈旧账本条目保留时长
	QueueRetention string `yaml:"queue-retention" default:"30d"`
}

// SecurityConfig 身份与内容安全配置
type SecurityConfig struct {
	// AuthToken 访问远端的用户令牌
	AuthToken string `yaml:"auth-token"`
	// AuthTokenSecret 令牌校验密钥，空表示不校验签名
	AuthTokenSecret string `yaml:"auth-token-secret"`
	// ContentKey 本地内容可逆变换密钥，空表示明文存储
	ContentKey string `yaml:"content-key"`
}

// AIConfig 语义检索配置
type AIConfig struct {
	// Enable 是否启用语义检索
	Enable bool `yaml:"enable" default:"false"`
	// APIKey 模型服务密钥
	APIKey string `yaml:"api-key"`
	// Model 模型名称
	Model string `yaml:"model"`
	// Timeout 单次调用超时
	Timeout string `yaml:"timeout" default:"15s"`
	// MaxNotes 单次送入模型的候选上限
	MaxNotes int `yaml:"max-notes" default:"50"`
}

// MaintenanceConfig 维护任务配置
type MaintenanceConfig struct {
	// SoftDeleteRetentionTime 软删除笔记保留时间
	SoftDeleteRetentionTime string `yaml:"soft-delete-retention-time" default:"7d"`
	// RetentionInterval 墓碑清理周期
	RetentionInterval string `yaml:"retention-interval" default:"1h"`
	// CachePurgeInterval 缓存清扫周期
	CachePurgeInterval string `yaml:"cache-purge-interval" default:"10m"`
	// QueueCleanupInterval 陈旧账本清理周期
	QueueCleanupInterval string `yaml:"queue-cleanup-interval" default:"24h"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// LoadConfigFromBytes 从内置默认配置加载
func LoadConfigFromBytes(data []byte) (*AppConfig, error) {
	c := new(AppConfig)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config failed")
	}
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}
	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

func (c *AppConfig) duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := util.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// GetSyncInterval 周期同步间隔
func (c *AppConfig) GetSyncInterval() time.Duration {
	return c.duration(c.Sync.Interval, 5*time.Minute)
}

// GetQueueRetention 陈旧账本条目保留时长
func (c *AppConfig) GetQueueRetention() time.Duration {
	return c.duration(c.Sync.QueueRetention, 30*24*time.Hour)
}

// GetRemoteTimeout 远端请求超时
func (c *AppConfig) GetRemoteTimeout() time.Duration {
	return c.duration(c.Remote.Timeout, 10*time.Second)
}

// GetHeartbeatInterval 可达性探测周期
func (c *AppConfig) GetHeartbeatInterval() time.Duration {
	return c.duration(c.Remote.HeartbeatInterval, 15*time.Second)
}

// GetProbeTimeout 单次探测超时
func (c *AppConfig) GetProbeTimeout() time.Duration {
	return c.duration(c.Remote.ProbeTimeout, 5*time.Second)
}

// GetSearchCacheTTL 检索结果缓存时长
func (c *AppConfig) GetSearchCacheTTL() time.Duration {
	return c.duration(c.App.SearchCacheTTL, 5*time.Minute)
}

// GetAITimeout 语义检索调用超时
func (c *AppConfig) GetAITimeout() time.Duration {
	return c.duration(c.AI.Timeout, 15*time.Second)
}

// GetSoftDeleteRetention 软删除笔记保留时间
func (c *AppConfig) GetSoftDeleteRetention() time.Duration {
	return c.duration(c.Maintenance.SoftDeleteRetentionTime, 7*24*time.Hour)
}

// GetRetentionInterval 墓碑清理周期
func (c *AppConfig) GetRetentionInterval() time.Duration {
	return c.duration(c.Maintenance.RetentionInterval, time.Hour)
}

// GetCachePurgeInterval 缓存清扫周期
func (c *AppConfig) GetCachePurgeInterval() time.Duration {
	return c.duration(c.Maintenance.CachePurgeInterval, 10*time.Minute)
}

// GetQueueCleanupInterval 陈旧账本清理周期
func (c *AppConfig) GetQueueCleanupInterval() time.Duration {
	return c.duration(c.Maintenance.QueueCleanupInterval, 24*time.Hour)
}

// GetConnMaxLifetime 数据库连接最大生命周期
func (c *AppConfig) GetConnMaxLifetime() time.Duration {
	return c.duration(c.Database.ConnMaxLifetime, 30*time.Minute)
}
