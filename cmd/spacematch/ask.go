package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HerbHall/spacematch/internal/catalog"
	"github.com/HerbHall/spacematch/internal/match"
	"github.com/HerbHall/spacematch/internal/questions"
	"github.com/HerbHall/spacematch/internal/wizard"
	pkgcatalog "github.com/HerbHall/spacematch/pkg/catalog"
	"github.com/HerbHall/spacematch/pkg/textnorm"
	"github.com/spf13/cobra"
)

// errInputClosed is returned when input ends before the last answer.
var errInputClosed = errors.New("input closed before the questionnaire was finished")

func newAskCmd() *cobra.Command {
	var configPath, catalogFlag string
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer the questionnaire interactively",
		Long: `Asks the three questions one at a time and prints the spaces that fit.
Answer with option numbers or names. Type "atrás" to go back or "reiniciar" to start over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, engine, err := cliEngine(configPath)
			if err != nil {
				return err
			}
			spaces, err := loadCatalog(catalogPath(cfg, catalogFlag))
			if err != nil {
				return err
			}
			return runAsk(cmd.InOrStdin(), cmd.OutOrStdout(), engine, spaces)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (match thresholds, catalog.path)")
	cmd.Flags().StringVar(&catalogFlag, "catalog", "", "Path to a YAML or JSON catalog (default: catalog.path, else embedded)")
	return cmd
}

func runAsk(in io.Reader, out io.Writer, engine *match.Engine, spaces []pkgcatalog.Space) error {
	state := wizard.New(questions.Build(spaces))
	sc := bufio.NewScanner(in)

	for !state.Done() {
		q, _ := state.Current()
		fmt.Fprintf(out, "\n%s\n", q.Text)
		printOptions(out, q)
		fmt.Fprint(out, "> ")

		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
			return errInputClosed
		}
		line := strings.TrimSpace(sc.Text())

		switch textnorm.Normalize(line) {
		case "atras":
			state = state.Back()
			continue
		case "reiniciar":
			state = state.Reset()
			continue
		}

		next, err := state.Answer(answerValues(q, line)...)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		state = next
	}

	fmt.Fprintln(out)
	resp, _ := catalog.Respond(engine, spaces, state.Selection(), false)
	return printMatches(out, resp)
}

// answerValues splits a typed answer into option values. Multiple-choice
// answers are comma separated; a number picks the option at that position.
func answerValues(q questions.Question, line string) []string {
	parts := []string{line}
	if q.Kind == questions.KindMultiple {
		parts = strings.Split(line, ",")
	}

	values := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil && n >= 1 && n <= len(q.Options) {
			p = q.Options[n-1]
		}
		values = append(values, p)
	}
	return values
}
