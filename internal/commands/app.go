package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/edificio-dev/edificio/internal/config"
	"github.com/edificio-dev/edificio/internal/evidence"
	"github.com/edificio-dev/edificio/internal/ledger"
	"github.com/edificio-dev/edificio/internal/oplog"
	"github.com/edificio-dev/edificio/internal/store"
)

// app bundles everything an open workspace gives a command: the loaded
// config, logger, store and ledger service.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	store  *store.Store
	ledger *ledger.Service
}

// openApp loads the config file and opens the database. Callers must
// Close.
func openApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger()

	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		ledger: ledger.NewService(st, log),
	}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// evidence opens the workspace's proof-of-payment file store.
func (a *app) evidence() (*evidence.Store, error) {
	return evidence.NewStore(filepath.Join(a.cfg.Data.Directory, "evidence"))
}

// storeEvidence puts a local file into the evidence store and returns
// its reference. An empty path stores nothing.
func (a *app) storeEvidence(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	ev, err := a.evidence()
	if err != nil {
		return "", err
	}
	return ev.Put(path)
}

// audit appends one operations-log entry. Audit failures are logged
// and never fail the operation they describe.
func (a *app) audit(op oplog.Operation, reference, details string) {
	if err := oplog.Append(a.cfg.Data.Directory, []oplog.Entry{oplog.New(op, reference, details)}); err != nil {
		a.log.WithError(err).Warn("could not write operations log")
	}
}
