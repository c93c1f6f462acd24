// Package logger initializes the logrus standard logger.
package logger

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Conf configures the internal logger.
type Conf struct {
	// Dir, if set, is the directory the log file is written to
	Dir string
	// StdErr additionally mirrors log output to stderr
	StdErr bool
	// Level is the log verbosity, e.g. DEBUG or INFO
	Level string
}

const logFileName = "tokendesk.log"

// Init configures the logrus standard logger from the passed Conf.
func Init(c Conf) {
	log.SetFormatter(
		&log.TextFormatter{
			FullTimestamp: true,
		},
	)
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(output(c))
}

func output(c Conf) io.Writer {
	var writers []io.Writer
	if c.Dir != "" {
		f, err := os.OpenFile(
			filepath.Join(c.Dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err == nil {
			writers = append(writers, f)
		} else {
			log.WithError(err).Error("could not open log file, falling back to stderr")
		}
	}
	if c.StdErr || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	if len(writers) == 1 {
		return writers[0]
	}
	return io.MultiWriter(writers...)
}
