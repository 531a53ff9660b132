package logger

import (
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger 全局日志实例
	Logger *logrus.Logger
)

// Config 日志配置
type Config struct {
	Level      string `json:"level" mapstructure:"level"`             // debug, info, warn, error
	Format     string `json:"format" mapstructure:"format"`           // text, json
	Output     string `json:"output" mapstructure:"output"`           // console, file
	Filename   string `json:"filename" mapstructure:"filename"`       // 日志文件名
	MaxSize    int    `json:"max_size" mapstructure:"max_size"`       // 最大文件大小(MB)
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"` // 最大备份数
	MaxAge     int    `json:"max_age" mapstructure:"max_age"`         // 最大保存天数
}

// Init 初始化日志器
func Init(config Config) {
	Logger = logrus.New()

	// 设置日志级别
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	// 设置格式
	if config.Format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FullTimestamp:   true,
			ForceColors:     config.Output != "file",
		})
	}

	Logger.SetOutput(outputFor(config))
}

// outputFor 根据配置选择输出目标，文件输出使用 lumberjack 滚动
func outputFor(config Config) io.Writer {
	if config.Output != "file" || config.Filename == "" {
		return os.Stdout
	}
	maxSize := config.MaxSize
	if maxSize <= 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   config.Filename,
		MaxSize:    maxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   true,
	}
}

// InitFromEnv 从环境变量初始化日志器
func InitFromEnv() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		if os.Getenv("DEBUG") == "1" {
			level = "debug"
		} else {
			level = "info"
		}
	}

	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "text"
	}

	cfg := Config{
		Level:  level,
		Format: format,
	}
	if filename := os.Getenv("LOG_OUTPUT"); filename != "" {
		cfg.Output = "file"
		cfg.Filename = filename
		cfg.MaxAge, _ = strconv.Atoi(os.Getenv("LOG_MAX_AGE"))
	}

	Init(cfg)
}

// GetLogger 获取日志器实例
func GetLogger() *logrus.Logger {
	if Logger == nil {
		InitFromEnv()
	}
	return Logger
}

// WithComponent 创建带组件名的日志器
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}
