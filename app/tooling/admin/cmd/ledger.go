package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/francefarms/bioestate/foundation/ledger"
	"github.com/francefarms/bioestate/foundation/nameservice"
	"github.com/spf13/cobra"
)

var (
	sender string
	text   string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and extend the ledger.",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every block in the ledger.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(lgr *ledger.Ledger) ([]ledger.Block, error) {
			return lgr.Blocks()
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Print the blocks where any column contains the term.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(lgr *ledger.Ledger) ([]ledger.Block, error) {
			return lgr.Search(args[0])
		})
	},
}

var findCmd = &cobra.Command{
	Use:   "find <prefix>",
	Short: "Print the blocks whose hash starts with the prefix.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, func(lgr *ledger.Ledger) ([]ledger.Block, error) {
			return lgr.Find(args[0])
		})
	},
}

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Record a typed sequence in the ledger.",
	Args:  cobra.NoArgs,
	RunE:  appendRun,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(listCmd, searchCmd, findCmd, appendCmd)

	appendCmd.Flags().StringVarP(&sender, "sender", "s", "admin", "Sender recorded with the block.")
	appendCmd.Flags().StringVarP(&text, "text", "t", "", "DNA sequence to record.")
	appendCmd.MarkFlagRequired("text")
}

func appendRun(cmd *cobra.Command, args []string) error {
	core, lgr, err := openCore()
	if err != nil {
		return err
	}
	defer lgr.Close()

	report, err := core.SubmitText(cmd.Context(), sender, text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Block: %s\n", report.Block.Short())
	fmt.Fprintf(out, "Result: %s RISK (%.1f%% GC)\n", report.Risk, report.GC)

	return nil
}

func query(cmd *cobra.Command, fn func(lgr *ledger.Ledger) ([]ledger.Block, error)) error {
	lgr, err := ledger.Open(ledgerPath)
	if err != nil {
		return err
	}
	defer lgr.Close()

	ns, err := nameservice.New(namesPath)
	if err != nil {
		return err
	}

	blks, err := fn(lgr)
	if err != nil {
		return err
	}

	printBlocks(cmd.OutOrStdout(), ns, blks)
	return nil
}

func printBlocks(w io.Writer, ns *nameservice.NameService, blks []ledger.Block) {
	for _, blk := range blks {
		when := blk.Timestamp
		if t, err := time.ParseInLocation(ledger.TimeFormat, blk.Timestamp, time.Local); err == nil {
			when = t.Format(time.DateTime)
		}

		fmt.Fprintf(w, "Block %d  %s  %s\n", blk.Number, when, ns.Lookup(blk.Sender))
		fmt.Fprintf(w, "  Data: %s\n", blk.Data)
		fmt.Fprintf(w, "  Prev: %s\n", blk.PrevHash)
		fmt.Fprintf(w, "  Hash: %s\n\n", blk.Hash)
	}

	fmt.Fprintf(w, "%d blocks\n", len(blks))
}
