package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/duyhunghd6/gdref-cli/internal/config"
	"github.com/duyhunghd6/gdref-cli/internal/model"
	"github.com/duyhunghd6/gdref-cli/internal/orchestrator"
)

var version = "0.1.0-dev"

// fileConfig is the global config loaded in main; flags override it.
var fileConfig = &config.GdrefConfig{}

func main() {
	// Load global config from ~/.gdref/config.yaml first
	if cfg, err := config.Load(); err != nil {
		log.Printf("warning: config load: %v", err)
	} else {
		fileConfig = cfg
	}
	// Then load local .env (overrides YAML since env vars take precedence)
	_ = godotenv.Load()

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// buildRootCmd creates the root cobra command with all subcommands.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gdref",
		Short: "GDScript class reference model builder",
		Long: `gdref reads the JSON reflection dump of a Godot project's GDScript classes,
filters it down to the public API, and builds the class model, category
groups and cross-reference index used to generate linked documentation.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Shared flags
	var referencePath string
	var cacheDir string
	var noCache bool
	var include []string

	rootCmd.PersistentFlags().StringVarP(&referencePath, "reference", "r", "", "Reflection dump or project directory (default: $GDREF_REFERENCE)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Cache directory (default: ~/.gdref/cache)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Always decode the dump, never read or write the cache")
	rootCmd.PersistentFlags().StringSliceVar(&include, "include", nil, "Only keep classes matching these glob patterns")

	buildConfig := func() orchestrator.Config {
		cfg := orchestrator.DefaultConfig()
		if cacheDir != "" {
			cfg.CacheDir = cacheDir
		}
		cfg.NoCache = noCache || fileConfig.NoCache
		cfg.Include = fileConfig.Include
		if len(include) > 0 {
			cfg.Include = include
		}
		return cfg
	}

	// load builds an engine and loads the dump named by args[0], the
	// --reference flag or the environment, in that order.
	load := func(args []string, force bool) (*orchestrator.Engine, *orchestrator.LoadResult, error) {
		path := referencePath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			path = os.Getenv(config.EnvReference)
		}
		if path == "" {
			return nil, nil, fmt.Errorf("no reflection dump given: pass a path, --reference or set %s", config.EnvReference)
		}

		engine, err := orchestrator.NewEngine(buildConfig())
		if err != nil {
			return nil, nil, err
		}
		result, err := engine.Load(path, force)
		if err != nil {
			return nil, nil, fmt.Errorf("loading failed: %w", err)
		}
		return engine, result, nil
	}

	var jsonOutput bool

	// --- index command ---
	var force bool

	indexCmd := &cobra.Command{
		Use:   "index [reference]",
		Short: "Build the class model and print the symbol index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, result, err := load(args, force)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			index := engine.Classes().ClassIndex()

			if jsonOutput {
				symbols := make(map[string][]string, len(index))
				for name, set := range index {
					symbols[name] = set.Sorted()
				}
				return writeJSON(out, map[string]any{"result": result, "index": symbols})
			}

			fmt.Fprintf(out, "%s %s\n", result.Project, result.Version)
			fmt.Fprintf(out, "   Classes:  %d\n", result.TotalClasses)
			fmt.Fprintf(out, "   Symbols:  %d\n", result.TotalSymbols)
			fmt.Fprintf(out, "   Groups:   %d\n", result.Groups)
			if result.Cached {
				fmt.Fprintln(out, "   Source:   cache (use --force to decode again)")
			}
			for _, name := range engine.Classes().Names() {
				fmt.Fprintf(out, "%s: %s\n", name, strings.Join(index[name].Sorted(), ", "))
			}
			return nil
		},
	}
	indexCmd.Flags().BoolVar(&force, "force", false, "Ignore the cache")
	rootCmd.AddCommand(indexCmd)

	// --- classes command ---
	classesCmd := &cobra.Command{
		Use:   "classes [reference]",
		Short: "List documented classes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := load(args, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, engine.Classes().Classes())
			}
			for _, c := range engine.Classes().Classes() {
				fmt.Fprintf(out, "%s", c.Name)
				if len(c.Extends) > 0 {
					fmt.Fprintf(out, " < %s", c.ExtendsString())
				}
				fmt.Fprintf(out, "  [%d functions, %d members, %d signals, %d enums]\n",
					len(c.Functions), len(c.Members), len(c.Signals), len(c.Enums))
			}
			return nil
		},
	}
	rootCmd.AddCommand(classesCmd)

	// --- groups command ---
	groupsCmd := &cobra.Command{
		Use:   "groups [reference]",
		Short: "Group classes by category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := load(args, false)
			if err != nil {
				return err
			}
			return printGroups(cmd.OutOrStdout(), engine.Classes().GroupedByCategory(), jsonOutput)
		},
	}
	rootCmd.AddCommand(groupsCmd)

	// --- resolve command ---
	var from string

	resolveCmd := &cobra.Command{
		Use:   "resolve <target>...",
		Short: "Resolve Class.symbol link targets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := load(nil, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, target := range args {
				link, ok := engine.Resolver().Resolve(target, from)
				if jsonOutput {
					if err := writeJSON(out, map[string]any{"target": target, "resolved": ok, "link": link}); err != nil {
						return err
					}
				} else if !ok {
					fmt.Fprintf(out, "%s: unresolved\n", target)
				} else if link.Inherited {
					fmt.Fprintf(out, "%s: %s (inherited from %s)\n", target, link.Class, link.Owner)
				} else {
					fmt.Fprintf(out, "%s: %s\n", target, link.Owner)
				}
				if !ok {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d targets unresolved", failed, len(args))
			}
			return nil
		},
	}
	resolveCmd.Flags().StringVar(&from, "from", "", "Class whose documentation contains the targets")
	rootCmd.AddCommand(resolveCmd)

	// --- check command ---
	checkCmd := &cobra.Command{
		Use:   "check [reference]",
		Short: "Report description references that do not resolve",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := load(args, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			unresolved := engine.Resolver().CheckAll(engine.Classes())
			if jsonOutput {
				if err := writeJSON(out, unresolved); err != nil {
					return err
				}
			} else {
				for _, u := range unresolved {
					where := u.Class
					if u.Element != "" {
						where += "." + u.Element
					}
					fmt.Fprintf(out, "%s: [%s]\n", where, u.Reference)
				}
			}
			if len(unresolved) > 0 {
				return fmt.Errorf("%d unresolved references", len(unresolved))
			}
			return nil
		},
	}
	rootCmd.AddCommand(checkCmd)

	// --- tree command ---
	treeCmd := &cobra.Command{
		Use:   "tree <class>",
		Short: "Show the ancestors and descendants of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := load(nil, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			g := engine.Graph()
			ancestors, descendants := g.Ancestors(args[0]), g.Descendants(args[0])
			if jsonOutput {
				return writeJSON(out, map[string]any{"class": args[0], "ancestors": ancestors, "descendants": descendants})
			}
			fmt.Fprintf(out, "%s\n", strings.Join(append([]string{args[0]}, ancestors...), " < "))
			for _, d := range descendants {
				fmt.Fprintf(out, "  %s\n", d)
			}
			return nil
		},
	}
	rootCmd.AddCommand(treeCmd)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	// --- serve-mcp command ---
	serveMCPCmd := &cobra.Command{
		Use:   "serve-mcp [reference]",
		Short: "Start MCP (Model Context Protocol) server on stdio",
		Long:  "Serve the class model to MCP clients over stdio: class listing, class details, link resolution and the symbol index.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := load(args, false)
			if err != nil {
				return err
			}
			return serveMCP(cmd.Context(), engine)
		},
	}
	rootCmd.AddCommand(serveMCPCmd)

	// --- completion command ---
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gdref.

To load completions:

Bash:
  $ source <(gdref completion bash)

Zsh:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc  # once
  $ gdref completion zsh > "${fpath[1]}/_gdref"
  $ exec zsh

Fish:
  $ gdref completion fish | source
  $ gdref completion fish > ~/.config/fish/completions/gdref.fish

PowerShell:
  PS> gdref completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	rootCmd.AddCommand(completionCmd)

	return rootCmd
}

func printGroups(out io.Writer, groups [][]*model.Class, asJSON bool) error {
	if asJSON {
		view := make([]map[string]any, 0, len(groups))
		for _, group := range groups {
			names := make([]string, 0, len(group))
			for _, c := range group {
				names = append(names, c.Name)
			}
			view = append(view, map[string]any{"category": group[0].Category(), "classes": names})
		}
		return writeJSON(out, view)
	}

	for _, group := range groups {
		category := group[0].Category()
		if category == "" {
			category = "(uncategorized)"
		}
		fmt.Fprintf(out, "%s\n", category)
		for _, c := range group {
			fmt.Fprintf(out, "  %s\n", c.Name)
		}
	}
	return nil
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
