package logger

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// global is the logger returned when a context carries none.
	//nolint:gochecknoglobals // Shared by every package.
	global *zap.SugaredLogger
	// level is shared by every logger built with New so SetLevel affects all of them.
	//nolint:gochecknoglobals // See above.
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // A usable logger must exist before main runs.
	SetLogger(New(nil))
}

// FileOptions configures rotating file output.
type FileOptions struct {
	// Filename is the log file path. Empty means stdout only.
	Filename string
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int
	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int
}

// New creates a console logger writing to stdout. A nil level uses the
// shared atomic level.
func New(lvl zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	return NewWithWriter(zapcore.AddSync(os.Stdout), lvl, options...)
}

// NewWithWriter creates a console logger writing to w.
func NewWithWriter(w zapcore.WriteSyncer, lvl zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if lvl == nil {
		lvl = level
	}

	//nolint:exhaustruct // Defaults are fine for the remaining fields.
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "message",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: ", ",
	})

	return zap.New(zapcore.NewCore(encoder, w, lvl), options...).Sugar()
}

// NewFromOptions writes to stdout and, when opts names a file, to a rotating
// log file as well.
func NewFromOptions(lvl zapcore.LevelEnabler, opts FileOptions) *zap.SugaredLogger {
	var w io.Writer = os.Stdout
	if opts.Filename != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename: opts.Filename,
			MaxSize:  opts.MaxSizeMB,
			MaxAge:   opts.MaxAgeDays,
		})
	}
	return NewWithWriter(zapcore.AddSync(w), lvl)
}

// ParseLogLevel converts a level name to a zap level.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "fatal":
		return zapcore.FatalLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return global
}

// SetLogger replaces the global logger. Not thread-safe.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// SetLevel changes the shared level.
func SetLevel(lvl zapcore.Level) {
	level.SetLevel(lvl)
}
