package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/qezhu/medqc/internal/catalog"
	"github.com/qezhu/medqc/internal/logging"
	"github.com/qezhu/medqc/internal/metrics"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate the knowledge base",
	Long: `Catalog inspects the knowledge base directory that drives term
matching and rule evaluation.

The directory holds four files:
  terms.yaml     canonical symptom terms with aliases and metadata
  typos.yaml     typo corrections applied before lookup
  synonyms.yaml  synonym folding applied before lookup
  rules.json     document-type specific content rules`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate a knowledge base directory",
	Long: `Validate loads the knowledge base the same way the pipeline does and
reports the first error it hits. A valid directory loads atomically: terms
build into a catalog without name collisions, every rule parses, and every
rule condition is structurally sound.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		cat, rules, err := catalog.Load(dir)
		if err != nil {
			return fmt.Errorf("knowledge base invalid: %w", err)
		}

		fmt.Printf("✓ Knowledge base valid: %s\n", dir)
		fmt.Printf("  Terms:   %d\n", cat.Len())
		fmt.Printf("  Aliases: %d\n", len(cat.Aliases()))
		fmt.Printf("  Rules:   %d\n", len(rules))

		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <dir>",
	Short: "Show the contents of a knowledge base directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		cat, rules, err := catalog.Load(dir)
		if err != nil {
			return fmt.Errorf("load knowledge base: %w", err)
		}

		fmt.Printf("Knowledge base: %s\n\n", dir)

		fmt.Printf("Aliases (%d, longest first):\n", len(cat.Aliases()))
		for _, alias := range cat.Aliases() {
			entry, ok := cat.AliasEntry(alias)
			if !ok {
				continue
			}
			fmt.Printf("  %s -> %s (%s)\n", alias, entry.Name, entry.Category)
		}

		fmt.Printf("\nRules (%d):\n", len(rules))
		for _, rule := range rules {
			active := ""
			if !rule.IsActive {
				active = " [inactive]"
			}
			fmt.Printf("  %s: %s/%s %s (%s)%s\n",
				rule.ID, rule.DocumentType, rule.Section, rule.CheckType, rule.Severity, active)
		}

		return nil
	},
}

var catalogWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a knowledge base directory and revalidate on change",
	Long: `Watch loads the knowledge base, then revalidates and swaps in a new
snapshot whenever a file in the directory changes. Useful while editing
terms or rules: a broken edit is reported and the last good snapshot stays
active. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		cfg, err := buildConfig()
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		store := catalog.NewStore()
		snap, err := catalog.LoadIntoStore(store, dir)
		if err != nil {
			return fmt.Errorf("load knowledge base: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Loaded %d terms, %d rules (version %d)\n", snap.Catalog.Len(), len(snap.Rules), snap.Version)
		fmt.Fprintf(os.Stderr, "Watching %s for changes, Ctrl-C to stop\n", dir)

		collector := metrics.NewCollector(prometheus.NewRegistry())
		watcher := catalog.NewWatcher(store, dir, logger)
		watcher.CountReloads(collector.KnowledgeReloads)
		watcher.OnReload(func(s *catalog.Snapshot) {
			fmt.Fprintf(os.Stderr, "✓ Reloaded %d terms, %d rules (version %d)\n", s.Catalog.Len(), len(s.Rules), s.Version)
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watcher.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogWatchCmd)
}
