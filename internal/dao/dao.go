// Package dao 实现数据访问层
package dao

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/fileurl"
	"github.com/haierkeys/fast-note-offline-client/pkg/util"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库连接配置
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	RunMode         string
}

// Dao 数据访问对象，持有数据库连接与存储层配置
type Dao struct {
	db     *gorm.DB
	logger *zap.Logger

	// maxContentLength 笔记内容长度上限，0 表示不限制
	maxContentLength int
	// cipher 内容可逆变换，nil 表示明文存储
	cipher *util.ContentCipher
}

// Option Dao 可选项
type Option func(*Dao)

// WithLogger 注入日志器
func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) {
		d.logger = lg
	}
}

// WithMaxContentLength 设置笔记内容长度上限
func WithMaxContentLength(n int) Option {
	return func(d *Dao) {
		d.maxContentLength = n
	}
}

// WithContentCipher 启用内容可逆变换
func WithContentCipher(c *util.ContentCipher) Option {
	return func(d *Dao) {
		d.cipher = c
	}
}

// New 创建 Dao 实例
func New(db *gorm.DB, options ...Option) *Dao {
	d := &Dao{
		db:     db,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// DB 返回底层 gorm 连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// NewDBEngine 初始化数据库连接并迁移本地表
// 打开或迁移失败视为本地存储损坏，不可恢复
func NewDBEngine(c DatabaseConfig) (*gorm.DB, error) {
	dialector := userDialector(c)
	if dialector == nil {
		return nil, xerrors.NewAppError(code.ErrorStoreCorrupted, fmt.Errorf("unsupported database type %q", c.Type))
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, xerrors.NewAppError(code.ErrorStoreCorrupted, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, xerrors.NewAppError(code.ErrorStoreCorrupted, err)
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	}

	if c.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			return nil, xerrors.NewAppError(code.ErrorStoreCorrupted, err)
		}
	}

	return db, nil
}

func userDialector(c DatabaseConfig) gorm.Dialector {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	case "sqlite":
		if c.Path != ":memory:" && !fileurl.IsExist(c.Path) {
			_ = fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}

// wrapNotFound 将 gorm 未找到错误映射为 NotFound
func wrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if err == gorm.ErrRecordNotFound {
		return xerrors.NewAppError(code.ErrorNotFound, err)
	}
	return err
}

// sealContent 持久化前的内容变换
func (d *Dao) sealContent(content string) (string, error) {
	if d.cipher == nil || content == "" {
		return content, nil
	}
	return d.cipher.Seal(content)
}

// openContent 读取后的内容逆变换
func (d *Dao) openContent(content string) string {
	if d.cipher == nil || content == "" {
		return content
	}
	plain, err := d.cipher.Open(content)
	if err != nil {
		// 旧数据可能是明文写入的，保持原样返回
		return content
	}
	return plain
}

// containsFold 不区分大小写的子串匹配
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// validateContentLength 校验内容长度上限
func (d *Dao) validateContentLength(content string) error {
	if d.maxContentLength > 0 && len(content) > d.maxContentLength {
		return xerrors.NewAppError(code.ErrorValidation,
			fmt.Errorf("content length %d exceeds limit %d", len(content), d.maxContentLength))
	}
	return nil
}
