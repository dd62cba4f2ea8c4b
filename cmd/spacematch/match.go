package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/HerbHall/spacematch/internal/catalog"
	"github.com/HerbHall/spacematch/internal/match"
	"github.com/HerbHall/spacematch/internal/validation"
	pkgcatalog "github.com/HerbHall/spacematch/pkg/catalog"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	capacity    string
	privacy     string
	equipment   []string
	configPath  string
	catalogPath string
	explain     bool
	asJSON      bool
}

func newMatchCmd() *cobra.Command {
	var opts matchOptions
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank the catalog against a selection",
		Long:  "Ranks catalog spaces against a capacity (bucket label such as \"4 a 8\" or a range such as \"8-20\"), a privacy level and required equipment.",
		Example: `  spacematch match --capacity "8-20" --privacy privado --equipment proyector,tv
  spacematch match --capacity "Más de 20" --privacy público --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.capacity, "capacity", "", "Group size: bucket label, range or single value (required)")
	cmd.Flags().StringVar(&opts.privacy, "privacy", "", "Privacy level: público, semi or privado (required)")
	cmd.Flags().StringSliceVar(&opts.equipment, "equipment", nil, "Required equipment, comma separated")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (match thresholds, catalog.path)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to a YAML or JSON catalog (default: catalog.path, else embedded)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Show the score of every catalog space")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")

	if err := cmd.MarkFlagRequired("capacity"); err != nil {
		panic(fmt.Sprintf("failed to mark capacity flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("privacy"); err != nil {
		panic(fmt.Sprintf("failed to mark privacy flag as required: %v", err))
	}
	return cmd
}

func runMatch(out io.Writer, opts matchOptions) error {
	capacity := pkgcatalog.ParseCapacity(opts.capacity)
	req := catalog.MatchRequest{Capacity: &capacity, Privacy: opts.privacy, Equipment: opts.equipment}
	if err := validation.New().Validate(req); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			return fmt.Errorf("invalid selection: %w", fields)
		}
		return err
	}

	cfg, engine, err := cliEngine(opts.configPath)
	if err != nil {
		return err
	}
	spaces, err := loadCatalog(catalogPath(cfg, opts.catalogPath))
	if err != nil {
		return err
	}

	resp, _ := catalog.Respond(engine, spaces, req.Selection(), opts.explain)

	if opts.asJSON {
		return writeJSON(out, resp)
	}
	return printMatches(out, resp)
}

func printMatches(out io.Writer, resp catalog.MatchResponse) error {
	switch resp.Mode {
	case match.ModeExact:
		fmt.Fprintf(out, "%d espacio(s) coinciden con tu búsqueda:\n\n", resp.Count)
	case match.ModeNear:
		fmt.Fprintf(out, "Ningún espacio coincide del todo. %d opción(es) cercana(s):\n\n", resp.Count)
	default:
		fmt.Fprintln(out, "No encontramos espacios para esa búsqueda.")
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if resp.Count > 0 {
		fmt.Fprintln(tw, "ESPACIO\tCAPACIDAD\tPRIVACIDAD\tEQUIPAMIENTO")
		for i := range resp.Spaces {
			s := &resp.Spaces[i]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.CapacityLabel(), s.PrivacyLabel(), s.EquipmentLabel())
		}
	}
	if len(resp.Scores) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ESPACIO\tPUNTAJE\tCERCANÍA\tCAPACIDAD\tPRIVACIDAD\tEQUIPO")
		for _, r := range resp.Scores {
			fmt.Fprintf(tw, "%s\t%d/%d\t%.1f\t%s\t%s\t%s (%d)\n",
				r.Name, r.Score, match.MaxScore, r.NearScore,
				yesNo(r.CapacityOverlap), yesNo(r.PrivacyMatch), yesNo(r.EquipmentCovered), r.EquipmentMatched)
		}
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
