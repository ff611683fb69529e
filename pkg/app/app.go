package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zurustar/bfi/pkg/cli"
	"github.com/zurustar/bfi/pkg/compiler"
	"github.com/zurustar/bfi/pkg/logger"
	"github.com/zurustar/bfi/pkg/opcode"
	"github.com/zurustar/bfi/pkg/vm"
)

// 実行後にデバッグログへ出力するテープの範囲
const (
	windowFrom = vm.TapeOrigin
	windowTo   = vm.TapeOrigin + 50
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	config *cli.Config
	log    *slog.Logger
	result *compiler.Result // コンパイル結果
	machine *vm.VM
}

// New Applicationを作成
// stdinとstdoutはプログラムの入出力、stderrはログとエラー表示に使う
func New(stdin io.Reader, stdout, stderr io.Writer) *Application {
	return &Application{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	// ソースファイルが指定されていない場合もヘルプを表示して正常終了
	if app.config.ShowHelp || app.config.SourcePath == "" {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	app.log.Info("Application started", "source", app.config.SourcePath)

	// 3. ソースの読み込みとコンパイル
	if err := app.compile(); err != nil {
		return fmt.Errorf("failed to compile program: %w", err)
	}

	// 4. 検査モード・ダンプモード
	if app.config.CheckOnly {
		return app.check()
	}
	if app.config.DumpOps {
		_, err := io.WriteString(app.stdout, opcode.Format(app.result.Program))
		return err
	}

	// 5. プログラムの実行
	if err := app.execute(); err != nil {
		return fmt.Errorf("program failed: %w", err)
	}

	if !app.config.Quiet {
		fmt.Fprint(app.stdout, "\nDone\n")
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	opts := logger.Options{
		Writer:  app.stderr,
		LogFile: app.config.LogFile,
	}
	if err := logger.InitLoggerWithOptions(app.config.LogLevel, opts); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// compile ソースファイルを読み込んでOpCodeを生成
func (app *Application) compile() error {
	opts := compiler.CompileOptions{
		Optimize: !app.config.NoOptimize,
		Encoding: app.config.Encoding,
	}

	result, err := compiler.CompilePath(app.config.SourcePath, opts)
	if err != nil {
		app.log.Error("Failed to load source", "path", app.config.SourcePath, "error", err)
		return err
	}
	app.result = result

	app.log.Info("Program compiled",
		"file", result.File,
		"source_bytes", result.Stats.SourceBytes,
		"lexed_ops", result.Stats.LexedOps,
		"emitted_ops", result.Stats.EmittedOps,
		"optimized", opts.Optimize,
	)
	app.log.Debug("OpCodes generated", "opcodes", opcode.Preview(result.Program, 10))
	return nil
}

// check 括弧の対応を検査し、問題があればすべてstderrに表示する
func (app *Application) check() error {
	errs := compiler.Check(app.result.Source)
	if len(errs) == 0 {
		fmt.Fprintf(app.stdout, "%s: brackets balanced\n", app.config.SourcePath)
		return nil
	}

	for _, err := range errs {
		fmt.Fprintln(app.stderr, err)
	}
	return fmt.Errorf("%s: %d bracket error(s)", app.config.SourcePath, len(errs))
}

// execute VMでプログラムを実行
func (app *Application) execute() error {
	app.machine = vm.New(app.result.Program,
		vm.WithInput(app.stdin),
		vm.WithOutput(app.stdout),
		vm.WithLogger(app.log),
	)

	err := app.machine.Run()

	// 失敗した場合もテープの状態はデバッグに役立つ
	app.log.Debug("Memory dump",
		"from", windowFrom,
		"to", windowTo,
		"pointer", app.machine.Pointer(),
		"steps", app.machine.Steps(),
	)
	if app.log.Enabled(context.Background(), slog.LevelDebug) {
		fmt.Fprintln(app.stderr, app.machine.Window(windowFrom, windowTo))
	}

	return err
}
