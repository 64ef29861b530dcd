package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"codeberg.org/snonux/chapmark/internal/app"
	"codeberg.org/snonux/chapmark/internal/chapters"
	"codeberg.org/snonux/chapmark/internal/config"
	"codeberg.org/snonux/chapmark/internal/fsutil"
	"codeberg.org/snonux/chapmark/internal/meta"
)

const (
	defaultRoot = "."
	envLog      = "CHAPMARK_LOG"
)

var (
	runApp  = app.Run
	exit    = os.Exit
	envFile = ".env"
)

func main() {
	exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("chapmark", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rootFlag := fs.String("root", "", "Video file to edit or directory to browse (default: last video, else .)")
	configFlag := fs.String("config", "", "Config file (default $CHAPMARK_CONFIG or the user config dir)")
	logFlag := fs.String("log", "", "Write debug log to this file (default $CHAPMARK_LOG)")
	noPlayerFlag := fs.Bool("no-player", false, "Use the simulated player instead of mpv")
	exportFlag := fs.String("export", "", "Print the chapters of --root as ffmetadata or yaml and exit")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *versionFlag {
		fmt.Fprintf(stdout, "chapmark version %s\n", meta.Version)
		return 0
	}
	if err := loadEnv(); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	closeLog, err := setupLog(*logFlag)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer closeLog()

	if *exportFlag != "" {
		return export(*rootFlag, *exportFlag, stdout, stderr)
	}

	cfgPath, err := configPath(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("load config: %v", err)
		fmt.Fprintf(stderr, "warning: %v, using defaults\n", err)
	}
	rootInput := *rootFlag
	if strings.TrimSpace(rootInput) == "" && fsutil.Exists(cfg.LastVideo) {
		rootInput = cfg.LastVideo
	}
	target, err := fsutil.ResolveTarget(rootInput, defaultRoot)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	opts := app.Options{
		Root:       target.Path,
		SingleFile: target.IsFile,
		Config:     cfg,
		ConfigPath: cfgPath,
		NoPlayer:   *noPlayerFlag,
	}
	if err := runApp(opts); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// loadEnv reads the .env file in the working directory, if there is one.
func loadEnv() error {
	err := godotenv.Load(envFile)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", envFile, err)
}

// setupLog routes the log package to a file, or discards it. The returned
// func closes the file.
func setupLog(path string) (func(), error) {
	if path == "" {
		path = os.Getenv(envLog)
	}
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "chapmark")
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return func() { _ = f.Close() }, nil
}

func configPath(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return fsutil.AbsPath(flagValue)
	}
	return config.DefaultPath()
}

func export(root, format string, stdout, stderr io.Writer) int {
	target, err := fsutil.ResolveTarget(root, "")
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if !target.IsFile {
		fmt.Fprintf(stderr, "--export needs --root to name a video file\n")
		return 2
	}
	project, err := chapters.ReadProject(chapters.PathFor(target.Path))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if err := chapters.Export(stdout, project, format); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
