// Command tandem-demo runs a host and a guest workspace side by side over an
// in-process portal network.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tandem"
	"github.com/iw2rmb/tandem/config"
	"github.com/iw2rmb/tandem/internal/logging"
)

var (
	configName  = flag.String("config", "tandem", "config file name, without extension, looked up in the working directory")
	hostLogin   = flag.String("host", "", "host login (defaults to identity.login, then \"host\")")
	guestLogin  = flag.String("guest", "guest", "guest login")
	logFile     = flag.String("log", "", "write logs to this file")
	showVersion = flag.Bool("version", false, "print the version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(tandem.VersionTag())
		return
	}
	if err := run(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	var w io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}

	cfg, err := config.Load(logging.New(w, slog.LevelInfo), *configName)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.New(w, level)
	logger.Info("starting", slog.String("version", tandem.Version()))

	login := *hostLogin
	if login == "" {
		login = cfg.Identity.Login
	}
	if login == "" {
		login = "host"
	}

	m := newModel(options{HostLogin: login, GuestLogin: *guestLogin, Config: cfg, Logger: logger})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
