package logs

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level          string
	Output         string // stdout|stderr|file|both
	FilePath       string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
	FileCompress   bool
}

// New returns a stdout logger at the given level.
func New(level string) zerolog.Logger {
	return NewWithOptions(Options{Level: level, Output: "stdout"})
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func NewWithOptions(opt Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	switch opt.Output {
	case "stdout", "both", "":
		writers = append(writers, os.Stdout)
	case "stderr":
		writers = append(writers, os.Stderr)
	}
	if opt.Output == "file" || opt.Output == "both" {
		writers = append(writers, fileWriter(opt))
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = os.Stdout
	case 1:
		w = writers[0]
	default:
		w = zerolog.MultiLevelWriter(writers...)
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(opt.Level))
}

func fileWriter(opt Options) io.Writer {
	if opt.FilePath == "" {
		opt.FilePath = "./logs/restricted-domains.log"
	}
	_ = os.MkdirAll(filepath.Dir(opt.FilePath), 0o755)
	return &lumberjack.Logger{
		Filename:   opt.FilePath,
		MaxSize:    max(1, opt.FileMaxSizeMB),
		MaxBackups: max(0, opt.FileMaxBackups),
		MaxAge:     max(0, opt.FileMaxAgeDays),
		Compress:   opt.FileCompress,
	}
}
