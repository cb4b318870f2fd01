package cli

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/satrarity/internal/model"
	"github.com/ppiankov/satrarity/internal/rarity"
	"github.com/ppiankov/satrarity/internal/sat"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var classifyTaproot bool

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <start> <end>",
	Short: "Classify the sat range [start, end) inside a single block",
	Long: `Classify prints the rarity report of the sats in [start, end) together
with the block height and the named rarity of the block's first sat.

Example:
  satrarity classify 0 1000
  satrarity classify 204589006000000 204589046000000`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyTaproot, "taproot", false, "report taproot sats")
}

func runClassify(cmd *cobra.Command, args []string) error {
	start, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid start %q: %w", args[0], err)
	}
	end, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid end %q: %w", args[1], err)
	}

	taproot := classifyTaproot || viper.GetBool("rarity.taproot")
	report, err := rarity.NewClassifier(rarity.WithTaproot(taproot)).Classify(start, end)
	if err != nil {
		return err
	}

	out := model.RangeReport{
		Start:       start,
		End:         end,
		Rarities:    report,
		BlockHeight: rarity.BlockHeight(start),
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "block %d, first sat %s\n",
			out.BlockHeight, sat.BlockStart(out.BlockHeight).Details().Name)
	}
	return writeJSON(cmd, out)
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
