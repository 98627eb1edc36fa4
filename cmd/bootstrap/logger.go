package bootstrap

import (
	"io"
	"os"
	"strings"

	"kinhealth/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/lumberjack.v2"
)

// newLogger builds the process logger. With LOG_FILE set, output is also written to a rotating file.
func newLogger(cfg config.LogConfig) (*logrus.Logger, io.Closer) {
	log := logrus.New()

	if strings.EqualFold(cfg.Format, "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return log, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return log, rotator
}
