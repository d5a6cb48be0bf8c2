package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the allowed emotion labels",
	Run: func(cmd *cobra.Command, args []string) {
		for i, l := range labels.AllowedLabels() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, l)
		}
	},
}
