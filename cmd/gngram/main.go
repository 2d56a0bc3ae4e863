// Package main implements the gngram command-line interface for querying
// word-frequency statistics from the locally installed ngram data set.
//
// Commands:
//   - exists <word>        - check whether a word appears in the corpus
//   - freq <word>...       - print frequency statistics (many words use the
//     batch lookup path, one shard load per touched bucket)
//   - status               - report whether the 256 shard files are installed
//   - path <bucket>        - print the shard file path for a bucket id
//
// Configuration:
//   - --data-dir flag or GNGRAM_DATA_DIR: directory holding the shard files
//     (default: <user cache dir>/gngram/hashes)
//
// Exit codes:
//   - 0: success; the word was found (exists/freq), or data is installed
//     (status)
//   - 1: the word was not found, or data is not installed; not an error
//   - 2: operational error: data files missing or corrupt, bad usage
//
// Example usage:
//
//	gngram exists computer          # exit 0
//	gngram exists xyznotaword      # "xyznotaword: not found", exit 1
//	gngram freq computer apple     # one line of statistics per word
//	GNGRAM_DATA_DIR=/srv/ngrams gngram status
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamware/gngram"
)

// Exit codes of the process, distinguishing "the corpus has no such word"
// from true operational failures.
const (
	exitOK       = 0
	exitNotFound = 1
	exitError    = 2
)

// errNotFound signals the not-found outcome through cobra's error return so
// it can be mapped to exitNotFound instead of exitError.
var errNotFound = errors.New("not found")

func main() {
	log.SetFlags(0)

	err := newRootCommand().Execute()
	if err != nil && !errors.Is(err, errNotFound) {
		log.Printf("gngram: %v", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps the outcome of a command to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNotFound):
		return exitNotFound
	default:
		return exitError
	}
}

// newRootCommand builds the gngram command tree.
func newRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "gngram",
		Short:         "Query word-frequency statistics from the hashed ngram data set",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("data-dir", "",
		"directory holding the 256 shard files (default: user cache dir)")
	cobra.CheckErr(v.BindPFlag("data-dir", root.PersistentFlags().Lookup("data-dir")))
	cobra.CheckErr(v.BindEnv("data-dir", "GNGRAM_DATA_DIR"))

	root.AddCommand(
		newExistsCommand(v),
		newFreqCommand(v),
		newStatusCommand(v),
		newPathCommand(v),
	)
	return root
}

// openCorpus constructs the corpus from the resolved data directory.
func openCorpus(v *viper.Viper) (*gngram.Corpus, error) {
	dir := v.GetString("data-dir")
	if dir == "" {
		var err error
		dir, err = gngram.DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	return gngram.New(dir), nil
}

// describeErr augments a lookup failure with an installation hint when the
// data set as a whole is absent rather than a single shard.
func describeErr(corpus *gngram.Corpus, err error) error {
	if errors.Is(err, gngram.ErrMissingData) && !corpus.IsDataInstalled() {
		return fmt.Errorf("%w (data directory %s; download the data set first)",
			err, corpus.DataDir())
	}
	return err
}

func newExistsCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <word>",
		Short: "Check whether a word appears in the corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := openCorpus(v)
			if err != nil {
				return err
			}

			ok, err := corpus.Exists(args[0])
			if err != nil {
				return describeErr(corpus, err)
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: not found\n", args[0])
				return errNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: found\n", args[0])
			return nil
		},
	}
}

func newFreqCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "freq <word>...",
		Short: "Print peak and total frequency statistics for words",
		Long: `Print peak and total frequency statistics for one or more words.

Multiple words are resolved with a single batch lookup, loading each touched
shard once. Words without corpus data print "no data"; if any queried word
had no data the command exits with code 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := openCorpus(v)
			if err != nil {
				return err
			}

			results, err := corpus.BatchFrequency(args)
			if err != nil {
				return describeErr(corpus, err)
			}

			missing := false
			for _, word := range args {
				freq := results[word]
				if freq == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tno data\n", word)
					missing = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s\tpeak_tf=%d peak_df=%d sum_tf=%d sum_df=%d\n",
					word, freq.PeakTF, freq.PeakDF, freq.SumTF, freq.SumDF)
			}
			if missing {
				return errNotFound
			}
			return nil
		},
	}
}

func newStatusCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the shard files are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := openCorpus(v)
			if err != nil {
				return err
			}

			if !corpus.IsDataInstalled() {
				fmt.Fprintf(cmd.OutOrStdout(), "data not installed (%s)\n", corpus.DataDir())
				return errNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "data installed (%s)\n", corpus.DataDir())
			return nil
		},
	}
}

func newPathCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "path <bucket>",
		Short: "Print the shard file path for a two-character bucket id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := openCorpus(v)
			if err != nil {
				return err
			}

			path, err := corpus.HashFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
