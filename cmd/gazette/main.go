package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"gazette/internal/bootstrap"
	"gazette/internal/platform/config"
)

type rootOptions struct {
	vaultPath string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "gazette",
		Short:         "Scroll-choreographed reading in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.vaultPath, "vault", ".", "vault path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: trace|debug|info|warn|error")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newReadCmd(opts))
	root.AddCommand(newIssueCmd(opts))
	root.AddCommand(newSimulateCmd(opts))
	root.AddCommand(newMotifCmd(opts))
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.New(opts.vaultPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg.WithLogLevel(opts.logLevel))
}

// withApp builds the app for one command run and closes it afterwards.
func withApp(opts *rootOptions, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the gazette terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(app, "")
			})
		},
	}
}

func newReadCmd(opts *rootOptions) *cobra.Command {
	var issueID string
	cmd := &cobra.Command{
		Use:   "read --issue <id>",
		Short: "Open an issue in the reader at its saved position",
		RunE: func(_ *cobra.Command, _ []string) error {
			if strings.TrimSpace(issueID) == "" {
				return fmt.Errorf("--issue is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				if _, err := app.IssueCLI.Get(context.Background(), issueID); err != nil {
					return err
				}
				return bootstrap.RunTUI(app, issueID)
			})
		},
	}
	cmd.Flags().StringVar(&issueID, "issue", "", "issue id or slug")
	return cmd
}

func newIssueCmd(opts *rootOptions) *cobra.Command {
	issue := &cobra.Command{Use: "issue", Short: "Issue catalog commands"}

	issue.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List imported issues",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				issues, err := app.IssueCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(issues) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no issues")
					return nil
				}
				for _, is := range issues {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d sections\t%d blocks\n", is.ID, is.Slug, is.Title, is.Sections, is.Blocks)
				}
				return nil
			})
		},
	})

	var showID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show an issue and its sections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(showID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				d, err := app.IssueCLI.Get(context.Background(), showID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "id: %s\nslug: %s\ntitle: %s\nsubtitle: %s\nsource: %s\nfile: %s\n", d.ID, d.Slug, d.Title, d.Subtitle, d.Source, d.Path)
				pos, err := app.IssueCLI.Position(context.Background(), d.ID)
				if err != nil {
					return err
				}
				if pos.Found {
					_, _ = fmt.Fprintf(out, "position: %.0f (%.1f%%)\n", pos.ScrollY, pos.Percent)
				}
				for _, s := range d.Sections {
					_, _ = fmt.Fprintf(out, "- %s\t%s\t%q\tblocks=%d cards=%d terms=%d", s.ID, s.Kind, s.Title, len(s.Blocks), len(s.Cards), len(s.Terms))
					if s.Motif != "" {
						_, _ = fmt.Fprintf(out, " motif=%s", s.Motif)
					}
					if s.Hold {
						_, _ = fmt.Fprint(out, " hold")
					}
					_, _ = fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
	show.Flags().StringVar(&showID, "id", "", "issue id or slug")

	importCmd := &cobra.Command{Use: "import", Short: "Import an issue from a document"}
	var title string
	md := &cobra.Command{
		Use:   "md <path>",
		Short: "Import a markdown document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.IssueCLI.ImportMarkdown(context.Background(), args[0], title)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s) sections=%d file=%s\n", out.Title, out.ID, out.Sections, out.Path)
				return nil
			})
		},
	}
	md.Flags().StringVar(&title, "title", "", "issue title (optional)")
	pdf := &cobra.Command{
		Use:   "pdf <path>",
		Short: "Import a PDF document, one article per page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.IssueCLI.ImportPDF(context.Background(), args[0], title)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s) sections=%d file=%s\n", out.Title, out.ID, out.Sections, out.Path)
				return nil
			})
		},
	}
	pdf.Flags().StringVar(&title, "title", "", "issue title (optional)")
	importCmd.AddCommand(md, pdf)

	reindex := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the issue catalog from the vault",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				if err := app.IssueCLI.Reindex(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindex complete")
				return nil
			})
		},
	}

	issue.AddCommand(show, importCmd, reindex)
	return issue
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var issueID string
	var width, height int
	var step float64
	cmd := &cobra.Command{
		Use:   "simulate --issue <id>",
		Short: "Scroll through an issue headlessly and print each section's progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(issueID) == "" {
				return fmt.Errorf("--issue is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				rows, err := app.ChoreoCLI.Simulate(context.Background(), issueID, width, height, step)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range rows {
					_, _ = fmt.Fprintf(out, "%6.0f\t%-12s\t%-8s\t%.3f\t%-10s\t%.3f", r.ScrollY, r.SectionID, r.Kind, r.Progress, r.PhaseName, r.Local)
					for _, name := range slices.Sorted(maps.Keys(r.Params)) {
						_, _ = fmt.Fprintf(out, "\t%s=%.3f", name, r.Params[name])
					}
					_, _ = fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&issueID, "issue", "", "issue id or slug")
	cmd.Flags().IntVar(&width, "width", 80, "viewport width in cells")
	cmd.Flags().IntVar(&height, "height", 24, "viewport height in rows")
	cmd.Flags().Float64Var(&step, "step", 0, "scroll step in rows (default a quarter viewport)")
	return cmd
}

func newMotifCmd(opts *rootOptions) *cobra.Command {
	motif := &cobra.Command{Use: "motif", Short: "Motif plugin commands"}

	motif.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered motif plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				plugins, err := app.MotifCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no motif plugins")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\tmotifs=%s\n", p.Name, p.Version, p.Enabled, strings.Join(p.Motifs, ","))
				}
				return nil
			})
		},
	})

	motif.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check motif plugin binaries, checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				results, err := app.MotifCLI.Doctor(context.Background())
				if err != nil {
					return err
				}
				failed := 0
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t\tchecksum=%t\tlifecycle=%t\t%s\n", r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK, r.Error)
					if r.Error != "" {
						failed++
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d motif plugin(s) unhealthy", failed)
				}
				return nil
			})
		},
	})

	var width, height int
	var seed uint64
	render := &cobra.Command{
		Use:   "render <motif>",
		Short: "Render a motif pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.MotifCLI.Render(context.Background(), args[0], width, height, seed)
				if err != nil {
					return err
				}
				for _, line := range out.Lines {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
	render.Flags().IntVar(&width, "width", 60, "pattern width")
	render.Flags().IntVar(&height, "height", 12, "pattern height")
	render.Flags().Uint64Var(&seed, "seed", 1, "pattern seed")
	motif.AddCommand(render)
	return motif
}
