package bootstrap

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	choreoinadapter "gazette/internal/modules/choreo/adapter/in"
	choreooutadapter "gazette/internal/modules/choreo/adapter/out"
	choreoservice "gazette/internal/modules/choreo/service"
	choreousecase "gazette/internal/modules/choreo/usecase"
	issueinadapter "gazette/internal/modules/issue/adapter/in"
	issueoutadapter "gazette/internal/modules/issue/adapter/out"
	issueservice "gazette/internal/modules/issue/service"
	issueusecase "gazette/internal/modules/issue/usecase"
	motifinadapter "gazette/internal/modules/motif/adapter/in"
	motifoutadapter "gazette/internal/modules/motif/adapter/out"
	motifservice "gazette/internal/modules/motif/service"
	motifusecase "gazette/internal/modules/motif/usecase"
	"gazette/internal/platform/clock"
	"gazette/internal/platform/config"
	"gazette/internal/platform/id"
	"gazette/internal/platform/logging"
	uiapp "gazette/internal/ui/app"
)

type App struct {
	IssueCLI  issueinadapter.CLIHandler
	IssueTUI  issueinadapter.TUIHandler
	ChoreoCLI choreoinadapter.CLIHandler
	ChoreoTUI choreoinadapter.TUIHandler
	MotifCLI  motifinadapter.CLIHandler
	MotifTUI  motifinadapter.TUIHandler
	Logger    hclog.Logger

	closers []io.Closer
}

func New(cfg config.Config) (*App, error) {
	logger, closer, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	projector, err := issueoutadapter.NewSQLiteIssueProjector(cfg.DBPath)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("new issue projector: %w", err)
	}
	issueUC := issueusecase.NewInteractor(issueservice.NewIssueService(
		clk,
		ids,
		issueoutadapter.NewVaultIssueStore(cfg.VaultPath),
		projector,
		issueoutadapter.NewMarkdownImporter(tuning.BlockDelay()),
		issueoutadapter.NewPDFImporter(tuning.BlockDelay()),
		logger,
	))

	choreoUC := choreousecase.NewInteractor(choreoservice.NewStageService(
		clk,
		ids,
		choreooutadapter.NewIssueSourceAdapter(issueUC),
		choreooutadapter.NewIssuePositionAdapter(issueUC),
		tuning,
		logger,
	))

	motifUC := motifusecase.NewInteractor(motifservice.NewMotifService(
		motifoutadapter.NewFileManifestStore(cfg.MotifsPath),
		motifoutadapter.NewGRPCHost(logger),
		logger,
	))

	logger.Debug("gazette started", "vault", cfg.VaultPath, "db", cfg.DBPath)
	return &App{
		IssueCLI:  issueinadapter.NewCLIHandler(issueUC),
		IssueTUI:  issueinadapter.NewTUIHandler(issueUC),
		ChoreoCLI: choreoinadapter.NewCLIHandler(choreoUC),
		ChoreoTUI: choreoinadapter.NewTUIHandler(choreoUC),
		MotifCLI:  motifinadapter.NewCLIHandler(motifUC),
		MotifTUI:  motifinadapter.NewTUIHandler(motifUC),
		Logger:    logger,
		closers:   collectClosers(projector, closer),
	}, nil
}

// Close releases the index database, then the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func collectClosers(values ...any) []io.Closer {
	out := make([]io.Closer, 0, len(values))
	for _, v := range values {
		if c, ok := v.(io.Closer); ok {
			out = append(out, c)
		}
	}
	return out
}

// RunTUI runs the terminal UI. A non-empty issueID opens that issue at its
// saved position.
func RunTUI(app *App, issueID string) error {
	model := uiapp.NewModel(app.IssueTUI, app.ChoreoTUI, app.MotifTUI, issueID)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}
