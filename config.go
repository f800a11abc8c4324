package rxcore

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// ============================================================================
// 配置选项
// ============================================================================

// Config 包级配置
// It is replaced as a whole by Configure, so readers always see a consistent
// snapshot.
type Config struct {
	// Logger 记录释放失败与未处理的错误
	Logger zerolog.Logger

	// OnUnhandledError 错误到达没有错误回调的订阅时调用，nil 表示按 error 级别记录日志
	OnUnhandledError func(err error)
}

// Option 配置选项接口
type Option interface {
	Apply(config *Config)
}

type optionFunc func(config *Config)

func (f optionFunc) Apply(config *Config) { f(config) }

// WithLogger 设置日志记录器
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(config *Config) {
		config.Logger = logger
	})
}

// WithUnhandledErrorHandler 设置未处理错误的处理函数，传入 nil 恢复默认的日志记录
func WithUnhandledErrorHandler(handler func(err error)) Option {
	return optionFunc(func(config *Config) {
		config.OnUnhandledError = handler
	})
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Logger: zerolog.New(os.Stderr).
			Level(zerolog.WarnLevel).
			With().
			Timestamp().
			Str("component", "rxcore").
			Logger(),
	}
}

func (c *Config) unhandled(err error) {
	if c.OnUnhandledError != nil {
		c.OnUnhandledError(err)
		return
	}
	c.Logger.Error().Err(err).Msg("unhandled error in subscription")
}

var globalConfig = atomic.NewPointer(DefaultConfig())

// Configure 在当前配置上应用选项
func Configure(options ...Option) {
	next := *currentConfig()
	for _, opt := range options {
		opt.Apply(&next)
	}
	globalConfig.Store(&next)
}

// ResetConfig 恢复默认配置
func ResetConfig() {
	globalConfig.Store(DefaultConfig())
}

func currentConfig() *Config {
	return globalConfig.Load()
}

func logger() *zerolog.Logger {
	return &currentConfig().Logger
}
