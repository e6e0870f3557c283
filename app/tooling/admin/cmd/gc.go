package cmd

import (
	"fmt"
	"os"

	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/spf13/cobra"
)

var gcCmd = &cobra.Command{
	Use:   "gc <file>",
	Short: "Print the pathogen report for a FASTA file.",
	Args:  cobra.ExactArgs(1),
	RunE:  gcRun,
}

func init() {
	rootCmd.AddCommand(gcCmd)
}

func gcRun(cmd *cobra.Command, args []string) error {
	profiles, err := scan.LoadProfiles(profilesPath)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	core := scan.NewCore(scan.Config{Profiles: profiles})

	report, err := core.Analyze(cmd.Context(), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Length: %d\n", report.Length)
	fmt.Fprintf(out, "GC Content: %.2f%%\n", report.GC)
	fmt.Fprintf(out, "Risk: %s\n\n", report.Risk)

	for _, c := range report.Comparisons {
		fmt.Fprintf(out, "%-20s %6.2f%%\n", c.Name, c.GC)
	}

	return nil
}
