package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/drafterhq/drafter/internal/dict"
	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/generate"
	"github.com/drafterhq/drafter/internal/schema"
	"github.com/drafterhq/drafter/internal/storage"
)

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate <opportunity.json>",
	Short: "Generate a draft bundle for a single opportunity",
	Long: `Generate a draft bundle for a single opportunity.

Runs the full pipeline offline, without the API server or a database.
The four artifacts (structure.json, wire.json, estimate.json, summary.md)
are written under --out; without --out the summary is printed to stdout.

Examples:
  drafter generate ./opportunity.json
  drafter generate ./opportunity.json --out ./artifacts
  drafter generate ./opportunity.json --dict ./dictionary.yaml --out ./artifacts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dictPath, _ := cmd.Flags().GetString("dict")
		outDir, _ := cmd.Flags().GetString("out")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading opportunity file: %w", err)
		}
		opp, err := schema.ValidateOpportunity(data)
		if err != nil {
			return err
		}

		handle, err := loadDictionary(dictPath)
		if err != nil {
			return err
		}

		outputs, err := generate.New(handle).Generate(opp)
		if err != nil {
			return err
		}

		if outDir == "" {
			fmt.Fprint(os.Stdout, outputs.Summary)
			return nil
		}

		store, err := storage.NewArtifactStore(outDir)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		job := &domain.Job{
			ID:        bundleID(opp.ID),
			Source:    "cli",
			RecordID:  opp.ID,
			Status:    domain.JobStatusCompleted,
			Progress:  1,
			Outputs:   outputs,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Save(cmd.Context(), job); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "bundle written to %s\n", filepath.Join(outDir, job.ID))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("dict", "", "path to a dictionary YAML file (default: built-in dictionary)")
	generateCmd.Flags().String("out", "", "directory to write the artifact bundle into (default: print summary to stdout)")
}

// --- dict ---

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect dictionary files",
}

var dictValidateCmd = &cobra.Command{
	Use:   "validate <dictionary.yaml>",
	Short: "Validate a dictionary file without running a pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dict.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "ok: version %s, %d section kinds, %d presets, %d coefficients\n",
			d.Version, len(d.Sections), len(d.Presets), len(d.Coefficients))
		return nil
	},
}

var dictShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective dictionary as a summary table",
	RunE: func(cmd *cobra.Command, args []string) error {
		dictPath, _ := cmd.Flags().GetString("dict")
		handle, err := loadDictionary(dictPath)
		if err != nil {
			return err
		}
		d := handle.Current()

		fmt.Fprintf(os.Stdout, "version: %s\n", d.Version)
		kinds := make([]string, 0, len(d.Sections))
		for kind := range d.Sections {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		fmt.Fprintln(os.Stdout, "sections:")
		for _, kind := range kinds {
			s := d.Sections[kind]
			fmt.Fprintf(os.Stdout, "  %-12s %-8s %4.1fh  h=%d\n", s.Kind, s.Variant, s.DesignHours, s.Height)
		}
		siteTypes := make([]string, 0, len(d.Presets))
		for st := range d.Presets {
			siteTypes = append(siteTypes, string(st))
		}
		sort.Strings(siteTypes)
		fmt.Fprintln(os.Stdout, "presets:")
		for _, st := range siteTypes {
			for _, page := range d.Presets[domain.SiteType(st)] {
				fmt.Fprintf(os.Stdout, "  %-16s %-8s %s\n", st, page.PageID, strings.Join(page.Sections, ", "))
			}
		}
		fmt.Fprintln(os.Stdout, "coefficients:")
		for _, c := range d.Coefficients {
			fmt.Fprintf(os.Stdout, "  %-20s x%.2f  %s\n", c.Name, c.Multiplier, c.Reason)
		}
		return nil
	},
}

func init() {
	dictShowCmd.Flags().String("dict", "", "path to a dictionary YAML file (default: built-in dictionary)")
	dictCmd.AddCommand(dictValidateCmd)
	dictCmd.AddCommand(dictShowCmd)
}

func loadDictionary(path string) (*dict.Handle, error) {
	if path == "" {
		return dict.NewHandle(dict.Default())
	}
	d, err := dict.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return dict.NewHandle(d)
}

// bundleID keeps CLI bundle directories readable while staying unique
// enough for repeated runs against the same opportunity.
func bundleID(recordID string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, recordID)
	return "draft_" + strings.Trim(cleaned, "-")
}
