package mktree

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type CLIConfig struct {
	OutDir      string
	DryRun      bool
	InferDirs   bool
	IndentWidth int
	NoAnimation bool
	Open        bool
	Verbose     bool
	Completion  string

	Enhanced bool
	Copy     bool
	Build    bool
	Limit    int
}

var cfg = &CLIConfig{}

var rootCmd = &cobra.Command{
	Use:   "mktree [file]",
	Short: "Create folders and empty files from a tree drawing.",
	Long: `Create folders and empty files from a tree drawing or an indented list.

The structure is read from the file argument, "-" or a stdin pipe, or the
clipboard. Markdown replies are accepted: the tree is taken from the fenced
code block.

Example: pbpaste | mktree -o ./myproject`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Completion != "" {
			return handleCompletion(cmd)
		}

		settings, closeLog, err := loadSettings(cmd, args)
		if err != nil {
			return err
		}
		defer closeLog()

		app, err := NewApp(&settings, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		manifest, err := NewTUI(app, settings.NoAnimation).Run()
		if err != nil {
			return err
		}
		rememberOutDir(settings)
		return failureError(manifest)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest DESCRIPTION...",
	Short: "Pick a project template from a description.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, closeLog, err := loadSettings(cmd, nil)
		if err != nil {
			return err
		}
		defer closeLog()

		selector, err := newSelector(settings)
		if err != nil {
			return err
		}
		analysis := selector.Analyze(strings.Join(args, " "))
		fmt.Print(FormatAnalysis(analysis))

		if cfg.Copy {
			if err := CopyToClipboard(analysis.Structure); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Println(mutedStyle.Render("Structure copied to clipboard."))
		}
		if !cfg.Build {
			return nil
		}

		app, err := NewApp(&settings, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		manifest, err := app.BuildText(analysis.Structure)
		if err != nil {
			return err
		}
		fmt.Print("\n" + FormatManifest(manifest, app.Session().Resolver().Rel))
		rememberOutDir(settings)
		return failureError(manifest)
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the project templates in match order.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, closeLog, err := loadSettings(cmd, nil)
		if err != nil {
			return err
		}
		defer closeLog()

		catalog, err := loadCatalog(settings)
		if err != nil {
			return err
		}
		for _, t := range catalog.Templates() {
			fmt.Printf("%s %s\n", headerStyle.Render(t.ID), mutedStyle.Render("("+t.Title+")"))
			fmt.Printf("  %s\n", strings.Join(t.Keywords, ", "))
		}
		fmt.Printf("%s %s\n", headerStyle.Render(catalog.General().ID), mutedStyle.Render("(fallback)"))
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Show counters and the decorated tree without building.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, closeLog, err := loadSettings(cmd, args)
		if err != nil {
			return err
		}
		defer closeLog()

		content, err := NewSourceProvider(settings.Input).GetContent()
		if err != nil {
			return err
		}
		fmt.Print(BuildPreview(ExtractStructure(content), settings.ParseOptions(), PreviewLimit).String())
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Edit a structure interactively with a live preview.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, closeLog, err := loadSettings(cmd, args)
		if err != nil {
			return err
		}
		defer closeLog()

		var initial string
		if settings.Input != "" {
			data, err := os.ReadFile(settings.Input)
			if err != nil {
				return err
			}
			initial = ExtractStructure(string(data))
		}

		selector, err := newSelector(settings)
		if err != nil {
			return err
		}
		app, err := NewApp(&settings, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		editor, err := RunEditor(app.Session(), selector, settings.ParseOptions(), initial)
		if err != nil {
			return err
		}
		if editor.Built() && !settings.DryRun {
			settings.OutDir = editor.OutDir()
			rememberOutDir(settings)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent builds.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := DefaultHistoryPath()
		if err != nil {
			return err
		}
		h, err := NewHistory(path)
		if err != nil {
			return err
		}
		entries := h.Recent(cfg.Limit)
		if len(entries) == 0 {
			fmt.Println(mutedStyle.Render("No builds yet."))
			return nil
		}
		for _, e := range entries {
			folders, files, failed := e.Counts()
			line := fmt.Sprintf("%s  %s  📁 %d  📄 %d", e.Time().Local().Format(time.DateTime), e.Base, folders, files)
			if failed > 0 {
				line += errorStyle.Render(fmt.Sprintf("  ❌ %d", failed))
			}
			fmt.Println(line)
		}
		return nil
	},
}

// loadSettings merges the stored config with the flags the user set.
func loadSettings(cmd *cobra.Command, args []string) (Config, func() error, error) {
	settings, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring config: %v\n", err)
		settings = DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		settings.OutDir = cfg.OutDir
	}
	if flags.Changed("indent") {
		if cfg.IndentWidth <= 0 {
			return settings, nil, fmt.Errorf("--indent must be positive, got %d", cfg.IndentWidth)
		}
		settings.IndentWidth = cfg.IndentWidth
	}
	if flags.Changed("infer-dirs") {
		settings.InferDirs = cfg.InferDirs
	}
	if flags.Changed("no-animation") {
		settings.NoAnimation = cfg.NoAnimation
	}
	if flags.Changed("enhanced") {
		settings.Enhanced = cfg.Enhanced
	}
	settings.DryRun = cfg.DryRun
	settings.Open = cfg.Open
	settings.Verbose = cfg.Verbose
	if len(args) > 0 {
		settings.Input = args[0]
	}

	logPath, err := DefaultLogPath()
	if err != nil {
		logPath = ""
	}
	_, closeLog := SetupLogging(logPath, settings.Verbose)
	SetTheme(settings.Theme)
	return settings, closeLog, nil
}

func loadCatalog(settings Config) (*Catalog, error) {
	if settings.CatalogPath == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalog(settings.CatalogPath)
}

func newSelector(settings Config) (*Selector, error) {
	catalog, err := loadCatalog(settings)
	if err != nil {
		return nil, err
	}
	return NewSelector(catalog, settings.Enhanced), nil
}

func rememberOutDir(settings Config) {
	if settings.DryRun || settings.OutDir == "" {
		return
	}
	stored, err := LoadConfig()
	if err != nil {
		return
	}
	if stored.OutDir == settings.OutDir {
		return
	}
	stored.OutDir = settings.OutDir
	if err := SaveConfig(stored); err != nil {
		slog.Warn("could not save config", slog.String("err", err.Error()))
	}
}

var errItemsFailed = errors.New("some items could not be created")

func failureError(m Manifest) error {
	if n := len(m.Failures()); n > 0 {
		return fmt.Errorf("%w: %d of %d", errItemsFailed, n, len(m.Items))
	}
	return nil
}

func handleCompletion(cmd *cobra.Command) error {
	switch cfg.Completion {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell for completion: %s", cfg.Completion)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfg.OutDir, "out", "o", ".", "Output folder")
	pf.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Show what would be created")
	pf.BoolVar(&cfg.InferDirs, "infer-dirs", false, "Treat entries with children as folders")
	pf.IntVar(&cfg.IndentWidth, "indent", DefaultIndentWidth, "Columns per level for indented input")
	pf.BoolVar(&cfg.Open, "open", false, "Open created files in the running Neovim")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.Flags().StringVar(&cfg.Completion, "completion", "", "Generate completion script")
	rootCmd.Flags().BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable spinner")

	suggestCmd.Flags().BoolVar(&cfg.Enhanced, "enhanced", false, "Weighted scoring with technology hints")
	suggestCmd.Flags().BoolVar(&cfg.Copy, "copy", false, "Copy the structure to the clipboard")
	suggestCmd.Flags().BoolVar(&cfg.Build, "build", false, "Create the structure right away")
	editCmd.Flags().BoolVar(&cfg.Enhanced, "enhanced", false, "Weighted scoring with technology hints")
	historyCmd.Flags().IntVar(&cfg.Limit, "limit", 10, "Number of builds to show")

	rootCmd.AddCommand(suggestCmd, templatesCmd, previewCmd, editCmd, historyCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func Execute() error {
	return rootCmd.Execute()
}
