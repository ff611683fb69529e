package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var (
	globalLogger *slog.Logger
	logFile      *os.File
)

// Options ロガーの出力先設定
type Options struct {
	// Writer テキスト形式の出力先（nilの場合はos.Stderr）
	// 標準出力はプログラムの出力に使うのでログには使わない
	Writer io.Writer

	// LogFile 指定された場合、JSON形式のログを追記する
	LogFile string
}

// ParseLevel ログレベル文字列をslog.Levelに変換
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// InitLogger ログレベルに応じてslogを初期化
func InitLogger(level string) error {
	return InitLoggerWithOptions(level, Options{})
}

// InitLoggerWithOptions 出力先を指定してslogを初期化
// テキスト出力とJSONファイル出力はslog-multiでファンアウトする
func InitLoggerWithOptions(level string, opts Options) error {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return err
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(writer, handlerOpts),
	}

	// 以前のログファイルは閉じる
	if err := Close(); err != nil {
		return err
	}

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		handlers = append(handlers, slog.NewJSONHandler(f, handlerOpts))
	}

	globalLogger = slog.New(slogmulti.Fanout(handlers...))
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger グローバルロガーを取得
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		// デフォルトロガーを返す
		return slog.Default()
	}
	return globalLogger
}

// Close ログファイルを閉じる
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
