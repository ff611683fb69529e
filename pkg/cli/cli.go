package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zurustar/bfi/pkg/logger"
	"github.com/zurustar/bfi/pkg/source"
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	SourcePath string // ソースファイルのパス
	LogLevel   string // ログレベル（debug, info, warn, error）
	LogFile    string // JSONログの出力先（空の場合は出力しない）
	Encoding   string // ソースファイルのエンコーディング
	NoOptimize bool   // 最適化を無効化
	Quiet      bool   // 終了時の「Done」を表示しない
	DumpOps    bool   // 実行せずにOpCodeを表示
	CheckOnly  bool   // 実行せずに括弧の対応だけを検査
	ShowHelp   bool   // ヘルプ表示フラグ
}

// boolFlags は値を取らないフラグ（reorderArgsで次の引数を値として扱わない）
var boolFlags = map[string]bool{
	"h":           true,
	"help":        true,
	"q":           true,
	"quiet":       true,
	"no-optimize": true,
	"dump":        true,
	"check":       true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("bfi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}

	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.StringVar(&config.LogFile, "log-file", "", "JSONログの出力先")
	fs.StringVar(&config.Encoding, "encoding", "", "ソースファイルのエンコーディング")
	fs.StringVar(&config.Encoding, "e", "", "ソースファイルのエンコーディング（短縮形）")
	fs.BoolVar(&config.NoOptimize, "no-optimize", false, "最適化を無効化")
	fs.BoolVar(&config.Quiet, "quiet", false, "終了時のDoneを表示しない")
	fs.BoolVar(&config.Quiet, "q", false, "終了時のDoneを表示しない（短縮形）")
	fs.BoolVar(&config.DumpOps, "dump", false, "OpCodeを表示して終了")
	fs.BoolVar(&config.CheckOnly, "check", false, "括弧の対応を検査して終了")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	if config.LogFile == "" {
		config.LogFile = os.Getenv("LOG_FILE")
	}

	if config.Encoding == "" {
		config.Encoding = os.Getenv("BFI_ENCODING")
	}
	if config.Encoding == "" {
		config.Encoding = source.DefaultEncoding
	}

	if !config.NoOptimize {
		if env := os.Getenv("BFI_NO_OPTIMIZE"); env != "" {
			config.NoOptimize = env == "1" || strings.ToLower(env) == "true"
		}
	}

	// ログレベルの検証
	if _, err := logger.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if config.DumpOps && config.CheckOnly {
		return nil, fmt.Errorf("--dump and --check cannot be used together")
	}

	// 位置引数（ソースファイルのパス）
	switch fs.NArg() {
	case 0:
	case 1:
		config.SourcePath = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one source file, got %d", fs.NArg())
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append([]string{"--"}, append(positional, args[i+1:]...)...)
			break
		}

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			name := strings.TrimLeft(arg, "-")
			if strings.Contains(name, "=") || boolFlags[name] {
				continue
			}

			// 値を取るフラグは次の引数も追加（-l debug のような場合）
			if i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `bfi - Brainfuck Interpreter

Usage:
  bfi [options] <source-file>

Arguments:
  source-file   実行するプログラムのパス（大文字小文字を区別しない）
                ><+-[],. 以外の文字はコメントとして無視される

Options:
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
      --log-file <path>       JSON形式のログをファイルに追記
  -e, --encoding <name>       ソースのエンコーディング（デフォルト: utf-8、例: shift_jis）
      --no-optimize           連続する命令の畳み込みを無効化
      --dump                  実行せずにOpCodeの一覧を表示
      --check                 実行せずに括弧の対応を検査
  -q, --quiet                 終了時の "Done" を表示しない
  -h, --help                  このヘルプを表示

Environment Variables:
  LOG_LEVEL=<level>           ログレベル
  LOG_FILE=<path>             JSONログの出力先
  BFI_ENCODING=<name>         ソースのエンコーディング
  BFI_NO_OPTIMIZE=1           最適化を無効化

Examples:
  bfi hello.bf                     プログラムを実行
  bfi --dump hello.bf              最適化後のOpCodeを表示
  bfi -e shift_jis comment.bf      Shift-JISのソースを実行
  bfi --log-level debug hello.bf   デバッグログ（テープの内容）を表示
`)
}
