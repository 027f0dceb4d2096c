package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/tartampluch/go-wv58a/internal/config"
)

// CLI is the command-line surface. Running without a command shows the face.
var CLI struct {
	Debug bool `help:"${help_debug}"`

	Run     RunCmd     `cmd:"" default:"1" help:"${help_cmd_run}"`
	Render  RenderCmd  `cmd:"" help:"${help_cmd_render}"`
	Push    PushCmd    `cmd:"" help:"${help_cmd_push}"`
	Version VersionCmd `cmd:"" help:"${help_cmd_version}"`
}

// runContext carries process-wide state into every command.
type runContext struct {
	Ctx context.Context
}

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	kctx := kong.Parse(&CLI,
		kong.Name(config.CLIName),
		kong.Description(config.CLIDescription),
		kong.UsageOnError(),
		cliVars(),
	)

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(CLI.Debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Command Dispatch
	// -------------------------------------------------------------------------
	if err := kctx.Run(&runContext{Ctx: ctx}); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintf(os.Stderr, config.MsgCLIError, err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// cliVars exposes help strings and defaults to the struct tags.
func cliVars() kong.Vars {
	return kong.Vars{
		"help_debug":       config.FlagDescDebug,
		"help_cmd_run":     config.CmdDescRun,
		"help_cmd_render":  config.CmdDescRender,
		"help_cmd_push":    config.CmdDescPush,
		"help_cmd_version": config.CmdDescVersion,
		"help_listen":      config.FlagDescListen,
		"help_port":        config.FlagDescPort,
		"help_nats_url":    config.FlagDescNATSURL,
		"help_nats_subj":   config.FlagDescNATSSubject,
		"help_power_root":  config.FlagDescPowerRoot,
		"help_out":         config.FlagDescOut,
		"help_at":          config.FlagDescAt,
		"help_url":         config.FlagDescURL,
		"help_token":       config.FlagDescToken,
		"help_format":      config.FlagDescFormat,
		"help_invert":      config.FlagDescInvert,
		"help_vibrate":     config.FlagDescVibrate,
		"help_24h":         config.FlagDesc24h,
		"help_battery":     config.FlagDescBattery,
		"help_charging":    config.FlagDescCharging,
		"help_connected":   config.FlagDescConnected,

		"default_listen":  config.LocalhostBindAddr,
		"default_subject": config.DefaultNATSSubject,
		"default_root":    config.DefaultPowerRoot,
		"default_out":     config.DefaultRenderOut,
		"default_url":     config.DefaultWatchURL,
		"default_format":  config.WireUSA2,
		"default_battery": strconv.Itoa(config.BatteryFullPercent),
		"formats":         config.WireUSA1 + "," + config.WireUSA2 + "," + config.WireENG + "," + config.WireGER + "," + config.WireFRA,
	}
}

// printVersion outputs the build information to stdout.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	// 1. Always write to Stdout.
	writers = append(writers, os.Stdout)

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
