package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/nyrakai/nyrakai"
	"github.com/nyrakai/nyrakai/audit"
	"github.com/nyrakai/nyrakai/dictionary"
)

func validateCmd(a *app) *cobra.Command {
	var normalize bool

	cmd := &cobra.Command{
		Use:   "validate WORD...",
		Short: "Check words against the phonotactic rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fold := normalize || a.cfg.Rules.Normalize
			out := cmd.OutOrStdout()
			invalid := 0
			for _, word := range args {
				if fold {
					word = nyrakai.Normalize(word)
				}
				v := a.engine.Validate(word)
				if v.Legal {
					fmt.Fprintf(out, "%s\tok\t%s\t%s\n", v.Word, v.Syllabified(), v.Structure())
					continue
				}
				invalid++
				fmt.Fprintf(out, "%s\t%s\t%s\n", v.Word, v.Violation, v.Detail)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d words invalid", invalid, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Fold ASCII romanizations (ai, aa, tch, ...) first")
	return cmd
}

func segmentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "segment WORD...",
		Short: "Split words into syllables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var errs []error
			for _, word := range args {
				syls, err := a.engine.Segment(word)
				if err != nil {
					errs = append(errs, err)
					fmt.Fprintf(out, "%s\t-\t%v\n", word, err)
					continue
				}
				texts := make([]string, len(syls))
				shapes := make([]string, len(syls))
				for i, s := range syls {
					texts[i] = s.String()
					shapes[i] = s.Structure()
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", word, strings.Join(texts, "."), strings.Join(shapes, "."))
			}
			return errors.Join(errs...)
		},
	}
}

func composeCmd(a *app) *cobra.Command {
	var (
		pos      string
		gender   string
		with     []string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "compose ROOT",
		Short: "Attach affixes to a root",
		Long: `Attach affixes to a root in slot order. Affixes are named slot:name,
for example gender:feminine or case:genitive; run with --list to see them all.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list"); list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list, _ := cmd.Flags().GetBool("list"); list {
				for _, m := range a.engine.Morphemes() {
					fmt.Fprintln(out, m)
				}
				return nil
			}

			p, ok := nyrakai.ParsePartOfSpeech(pos)
			if !ok {
				return fmt.Errorf("unknown part of speech %q", pos)
			}
			if gender == "" && p == nyrakai.POSNoun {
				gender = string(nyrakai.GenderFlexible)
			}
			g, ok := nyrakai.ParseGender(gender)
			if !ok {
				return fmt.Errorf("unknown gender %q", gender)
			}

			ms := make([]nyrakai.Morpheme, 0, len(with))
			for _, key := range with {
				m, err := a.engine.Lookup(key)
				if err != nil {
					return err
				}
				ms = append(ms, m)
			}

			root := nyrakai.Word{Form: args[0], POS: p, Gender: g}
			word, steps := a.engine.ComposeSteps(root, ms...)
			for _, st := range steps {
				switch {
				case st.Decision.Action == nyrakai.Skip:
					fmt.Fprintf(out, "  skip   %s: %s\n", st.Morpheme, st.Decision.Reason)
				case st.Interfix != "":
					fmt.Fprintf(out, "  attach %s +%s  %s\n", st.Morpheme, st.Interfix, st.Form)
				default:
					fmt.Fprintf(out, "  attach %s  %s\n", st.Morpheme, st.Form)
				}
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", word.Form, word.POS, word.Gender)

			if validate || a.cfg.Rules.ValidateCompositions {
				return a.engine.Validate(word.Form).Err()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pos, "pos", "noun", "Part of speech of the root")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender of the root (flexible, masculine, feminine, sacred, none)")
	cmd.Flags().StringSliceVarP(&with, "with", "w", nil, "Affix to attach, as slot:name (repeatable)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate the composed word")
	cmd.Flags().Bool("list", false, "List the known affixes")
	return cmd
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize WORD...",
		Short: "Fold ASCII romanizations into Nyrakai spelling",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, word := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", word, nyrakai.Normalize(word))
			}
		},
	}
}

func auditCmd(a *app) *cobra.Command {
	var (
		dicts      []string
		outputJSON bool
		workers    int
		distance   int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check a dictionary for invalid, duplicate and misplaced words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if len(dicts) == 0 {
				dicts = a.cfg.Dictionary.Paths
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Audit.Workers
			}
			if !cmd.Flags().Changed("distance") {
				distance = a.cfg.Audit.SimilarDistance
			}

			d, err := dictionary.LoadGlob(dicts...)
			if err != nil {
				return err
			}
			a.logger.Info("Dictionary loaded", "words", len(d.Words), "patterns", dicts)

			report, err := audit.Run(ctx, a.engine, d.Words, audit.Options{
				Workers:         workers,
				SimilarDistance: distance,
				Normalize:       a.cfg.Rules.Normalize,
				Logger:          a.logger,
			})
			if err != nil {
				return err
			}

			if outputJSON {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				printReport(cmd.OutOrStdout(), report)
			}

			if !report.Clean() {
				return errors.New("dictionary has problems")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&dicts, "dict", nil, "Dictionary glob pattern (repeatable, default from config)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the report as JSON")
	cmd.Flags().IntVar(&workers, "workers", 0, "Validation workers (0 = one per CPU)")
	cmd.Flags().IntVar(&distance, "distance", audit.DefaultSimilarDistance, "Report spellings closer than this edit distance")
	return cmd
}

func printReport(w io.Writer, r *audit.Report) {
	fmt.Fprintf(w, "Words:   %d\n", r.Total)
	fmt.Fprintf(w, "Valid:   %d\n", r.Valid)
	fmt.Fprintf(w, "Invalid: %d\n", r.Invalid)
	for _, iw := range r.InvalidWords {
		fmt.Fprintf(w, "  %s (%s): %s, %s\n", iw.Word, iw.English, iw.Violation, iw.Detail)
	}

	if len(r.Duplicates) > 0 {
		fmt.Fprintf(w, "\nDuplicates: %d\n", len(r.Duplicates))
		for _, d := range r.Duplicates {
			fmt.Fprintf(w, "  %s %q: %s\n", d.Kind, d.Key, strings.Join(d.Words, ", "))
		}
	}
	if len(r.Similar) > 0 {
		fmt.Fprintf(w, "\nSimilar spellings: %d\n", len(r.Similar))
		for _, p := range r.Similar {
			fmt.Fprintf(w, "  %s (%s) ~ %s (%s)\n", p.A, p.AGloss, p.B, p.BGloss)
		}
	}
	if len(r.DomainMismatches) > 0 {
		fmt.Fprintf(w, "\nDomain mismatches: %d\n", len(r.DomainMismatches))
		for _, m := range r.DomainMismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
}

func domainCmd(a *app) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "domain WORD [DOMAIN]",
		Short: "Show the semantic domain marked by a word's onset",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, d := range a.engine.Domains() {
					fmt.Fprintf(out, "%s-\t%s\n", d.Onset, d)
				}
				return nil
			}

			word := args[0]
			if len(args) == 1 {
				d, ok := a.engine.DomainOf(word)
				if !ok {
					fmt.Fprintf(out, "%q (%s-) has no domain mapping\n", word, d.Onset)
					return nil
				}
				fmt.Fprintf(out, "%q (%s-) is %s\n", word, d.Onset, d)
				return nil
			}

			c := a.engine.CheckDomain(word, args[1])
			fmt.Fprintln(out, c)
			if !c.Match {
				if onsets := a.engine.OnsetsFor(args[1]); len(onsets) > 0 {
					fmt.Fprintf(out, "onsets for %s: %s\n", args[1], strings.Join(onsets, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List the onset domain table")
	return cmd
}
