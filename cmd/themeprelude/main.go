package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jsvensson/themeprelude"
	"github.com/jsvensson/themeprelude/internal/config"
	"github.com/jsvensson/themeprelude/internal/format"
)

var (
	flagVerbose   int
	flagConfig    string
	flagRoot      string
	flagTheme     string
	flagDir       string
	flagIncludeAs string
	flagModule    string
	flagSet       []string
	flagAppend    string
	flagCheck     bool
	flagCheckCfg  string
	version       = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:     "themeprelude",
	Short:   "Generate the SCSS prelude that wires stylesheets to a shared theme",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
	SilenceUsage: true,
}

var renderCmd = &cobra.Command{
	Use:   "render [stylesheets...]",
	Short: "Print the prelude-wrapped content of each stylesheet",
	Long: "Render each stylesheet the way the build pipeline would: the theme prelude,\n" +
		"the original content and any chained prelude. Settings come from --config\n" +
		"when given, otherwise from the theme flags; the two cannot be combined.",
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a prelude config file and its theme file",
	RunE:  runCheck,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format HCL prelude config files",
	Long:  "Format one or more HCL prelude config files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	wd, _ := os.Getwd()

	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")

	renderCmd.Flags().StringVar(&flagConfig, "config", "", "path to prelude config file (HCL or YAML); cannot be combined with the theme flags")
	renderCmd.Flags().StringVar(&flagRoot, "root", wd, "project root the stylesheets are compiled from")
	renderCmd.Flags().StringVar(&flagTheme, "theme", themeprelude.DefaultThemeName, "theme file name without extension")
	renderCmd.Flags().StringVar(&flagDir, "dir", wd, "directory holding the theme file")
	renderCmd.Flags().StringVar(&flagIncludeAs, "include-as", "*", "alias of the shared theme module")
	renderCmd.Flags().StringVar(&flagModule, "module", "", "shared theme module specifier (default \"ungic-sass-theme\")")
	renderCmd.Flags().StringArrayVar(&flagSet, "set", nil, "theme option override as key=value (can be repeated)")
	renderCmd.Flags().StringVar(&flagAppend, "append", "", "literal text to chain after the prelude")

	for _, name := range []string{"theme", "dir", "include-as", "module", "set"} {
		renderCmd.MarkFlagsMutuallyExclusive("config", name)
	}

	checkCmd.Flags().StringVar(&flagCheckCfg, "config", "prelude.hcl", "path to prelude config file (HCL or YAML)")

	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}

func buildPrelude() (themeprelude.Prelude, error) {
	prev := themeprelude.None()
	if flagAppend != "" {
		prev = themeprelude.Literal(flagAppend)
	}

	if flagConfig != "" {
		return themeprelude.Load(flagConfig, prev)
	}

	overrides := &themeprelude.Overrides{}
	for _, kv := range flagSet {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return themeprelude.Prelude{}, fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		overrides.SetString(key, value)
	}

	dir, err := filepath.Abs(flagDir)
	if err != nil {
		return themeprelude.Prelude{}, fmt.Errorf("resolving theme directory: %w", err)
	}

	return themeprelude.New(themeprelude.Options{
		ThemeName:    flagTheme,
		Dir:          dir,
		ThemeOptions: overrides,
		IncludeAs:    flagIncludeAs,
		ThemeModule:  flagModule,
	}, prev)
}

func runRender(cmd *cobra.Command, args []string) error {
	p, err := buildPrelude()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(flagRoot)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	for i, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("reading stylesheet: %w", err)
		}

		out, err := p.RenderBytes(data, themeprelude.FileContext{
			ResourcePath: abs,
			RootContext:  root,
		})
		if err != nil {
			return fmt.Errorf("rendering %s: %w", path, err)
		}

		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}

	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := config.Load(flagCheckCfg)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if _, err := themeprelude.FromFile(f, themeprelude.None()); err != nil {
		return err
	}

	name := f.Theme.Name
	if name == "" {
		name = themeprelude.DefaultThemeName
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (theme %s, %d options)\n",
		flagCheckCfg, filepath.Join(f.Theme.Dir, name+".scss"), f.Options.Len())
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		content := string(data)
		if err := format.Validate(path, content); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		formatted := format.Format(content)
		if formatted == content {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
