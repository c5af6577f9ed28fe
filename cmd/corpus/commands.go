package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tripbudget/internal/classifier"
	"tripbudget/internal/logger"
)

// loadClassifier builds a classifier over the selected corpus with every
// corpus category treated as present.
func loadClassifier(cmd *cobra.Command) (*classifier.Corpus, *classifier.Classifier, error) {
	path, _ := cmd.Flags().GetString("file")
	methodName, _ := cmd.Flags().GetString("method")

	corpus, err := classifier.LoadCorpus(path)
	if err != nil {
		return nil, nil, err
	}
	method, err := classifier.MethodByName(methodName)
	if err != nil {
		return nil, nil, err
	}

	c := classifier.New(corpus, classifier.LookupFromCorpus(corpus), method, logger.Named("classifier"))
	return corpus, c, nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a corpus and train on it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			corpus, c, err := loadClassifier(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tKEYWORDS")
			for _, cat := range corpus.Categories {
				fmt.Fprintf(w, "%s\t%d\n", cat.Name, len(cat.Keywords))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			result := c.Train(cmd.Context())
			if !result.Trained {
				return fmt.Errorf("training with %s produced no model", result.Method)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s model trained on %d documents across %d categories\n",
				result.Method, result.Documents, len(result.Categories))
			return nil
		},
	}
}

func predictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict <description>...",
		Short: "Show the category each description would be filed under",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := loadClassifier(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DESCRIPTION\tCATEGORY")
			for _, description := range args {
				category := "-"
				if ref := c.Classify(cmd.Context(), description); ref != nil {
					category = ref.Name
				}
				fmt.Fprintf(w, "%s\t%s\n", strings.TrimSpace(description), category)
			}
			return w.Flush()
		},
	}
}
