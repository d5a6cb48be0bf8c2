package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/emolabel/pkg/agreement"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
)

var (
	ratingsA string
	ratingsB string
)

var agreementCmd = &cobra.Command{
	Use:   "agreement",
	Short: "Measure inter-annotator agreement with Cohen's kappa",
}

var agreementRatingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Compute kappa for two comma-separated rating lists",
	Long: `Compute unweighted Cohen's kappa for two equally long lists of ratings. Ratings are
compared as strings, so any category names work.

Example:
  emolabel agreement ratings --a joy,fear,joy --b joy,anger,joy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := agreement.CohenKappa(splitRatings(ratingsA), splitRatings(ratingsB))
		if err != nil {
			return err
		}
		printAgreement(cmd.OutOrStdout(), res)
		return nil
	},
}

var agreementFilesCmd = &cobra.Command{
	Use:   "files <a.csv> <b.csv>",
	Short: "Compute kappa between two annotators' CSV exports",
	Long: `Compare two text,label exports of the same texts. Row n of both files must carry
the same text; the labels are the two annotators' ratings.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := readRecords(args[0])
		if err != nil {
			return err
		}
		b, err := readRecords(args[1])
		if err != nil {
			return err
		}

		res, err := agreement.CompareRecords(a, b)
		if err != nil {
			return err
		}
		printAgreement(cmd.OutOrStdout(), res)
		return nil
	},
}

func readRecords(path string) ([]labels.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()

	records, err := export.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return records, nil
}

func printAgreement(w io.Writer, res agreement.Result) {
	fmt.Fprintf(w, "Cohen's kappa:      %.4f (%s)\n", res.Kappa, agreement.Interpret(res.Kappa))
	fmt.Fprintf(w, "Observed agreement: %.4f\n", res.Observed)
	fmt.Fprintf(w, "Expected agreement: %.4f\n", res.Expected)
	fmt.Fprintf(w, "Items:              %d\n", res.Items)
}

func initAgreementCmd() {
	agreementRatingsCmd.Flags().StringVar(&ratingsA, "a", "1,2,3,4,5,6,7,8,9", "Ratings of the first annotator")
	agreementRatingsCmd.Flags().StringVar(&ratingsB, "b", "2,2,4,4,4,6,9,1,9", "Ratings of the second annotator")

	agreementCmd.AddCommand(agreementRatingsCmd, agreementFilesCmd)
}
