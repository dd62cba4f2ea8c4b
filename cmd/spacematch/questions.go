package main

import (
	"fmt"
	"io"

	"github.com/HerbHall/spacematch/internal/questions"
	"github.com/spf13/cobra"
)

func newQuestionsCmd() *cobra.Command {
	var (
		catalogPath string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the questionnaire",
		Long:  "Prints the capacity, privacy and equipment questions. Equipment options are taken from the catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spaces, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			qs := questions.Build(spaces)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), qs)
			}
			printQuestions(cmd.OutOrStdout(), qs)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML or JSON catalog (default: embedded)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the questions as JSON")
	return cmd
}

func printQuestions(out io.Writer, qs []questions.Question) {
	for i, q := range qs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%d. %s [%s]\n", i+1, q.Text, q.ID)
		printOptions(out, q)
	}
}

func printOptions(out io.Writer, q questions.Question) {
	if len(q.Options) == 0 {
		fmt.Fprintln(out, "   (sin opciones)")
		return
	}
	for i, o := range q.Options {
		fmt.Fprintf(out, "   %d) %s\n", i+1, o)
	}
	if q.Kind == questions.KindMultiple {
		fmt.Fprintln(out, "   (podés elegir varias, separadas por coma)")
	}
}
