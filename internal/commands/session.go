package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mitchellh/go-homedir"

	"github.com/sadopc/matcha/internal/config"
	"github.com/sadopc/matcha/internal/gateway"
	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/store"
)

// session is the opened state every command works on.
type session struct {
	cfg     *config.Config
	store   *store.Store
	journal *journal.Journal
	logFile *os.File
}

// openSession loads the configuration, opens the store and bootstraps the
// journal. Without an API key the journal runs without an assistant.
func openSession(ro *rootOptions, fullscreen bool) (*session, error) {
	cfg, err := config.Load(config.Options{ConfigFile: ro.ConfigFile, EnvFile: ro.EnvFile})
	if err != nil {
		return nil, err
	}
	if ro.DBPath != "" {
		if cfg.DBPath, err = homedir.Expand(ro.DBPath); err != nil {
			return nil, fmt.Errorf("expand db path: %w", err)
		}
	}

	sess := &session{cfg: cfg}
	if sess.logFile, err = setupLogging(cfg, fullscreen); err != nil {
		return nil, err
	}

	sess.store, err = store.New(cfg.DBPath)
	if err != nil {
		sess.Close()
		return nil, err
	}

	var assistant journal.Assistant
	if cfg.APIKey != "" {
		c, err := gateway.New(cfg.Gateway())
		if err != nil {
			sess.Close()
			return nil, err
		}
		assistant = c
	}

	sess.journal, err = journal.New(sess.store, assistant)
	if err != nil {
		sess.Close()
		return nil, err
	}
	if err := sess.journal.Bootstrap(); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// setupLogging sends the standard logger to cfg.LogFile when set. A
// fullscreen program owns the terminal, so without a log file its logs are
// discarded.
func setupLogging(cfg *config.Config, fullscreen bool) (*os.File, error) {
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "matcha")
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	}
	if fullscreen {
		log.SetOutput(io.Discard)
	}
	return nil, nil
}

func (s *session) Close() error {
	var err error
	if s.store != nil {
		err = s.store.Close()
	}
	if s.logFile != nil {
		s.logFile.Close()
	}
	return err
}
