package main

import (
	"encoding/json"
	"fmt"

	"kam_backend/internal/performance"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		timeframe int
		threshold int
		output    string
	)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print account performance reports as JSON",
	}

	wellCmd := &cobra.Command{
		Use:   "well",
		Short: "Accounts with at least threshold orders in the timeframe",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.close()

			res, err := rt.performance.Analyzer().WellPerforming(cmd.Context(), timeframe, threshold)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	wellCmd.Flags().IntVar(&timeframe, "timeframe", performance.DefaultTimeframeDays, "Timeframe in days")
	wellCmd.Flags().IntVar(&threshold, "threshold", performance.DefaultThreshold, "Minimum orders in the timeframe")

	underCmd := &cobra.Command{
		Use:   "under",
		Short: "Accounts below their pro-rated expected order count",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.close()

			res, err := rt.performance.Analyzer().Underperforming(cmd.Context(), timeframe, threshold)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	underCmd.Flags().IntVar(&timeframe, "timeframe", performance.DefaultTimeframeDays, "Timeframe in days")
	underCmd.Flags().IntVar(&threshold, "threshold", performance.DefaultThreshold, "Expected orders per 30 days")

	patternsCmd := &cobra.Command{
		Use:   "patterns <leadId>",
		Short: "Order dates and average gap for one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leadID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid lead id %q: %w", args[0], err)
			}

			rt, err := openRuntime(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.close()

			res, err := rt.performance.Analyzer().OrderingPatterns(cmd.Context(), leadID, timeframe)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	patternsCmd.Flags().IntVar(&timeframe, "timeframe", performance.DefaultPatternTimeframeDays, "Timeframe in days")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write both classifications to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.close()

			analyzer := rt.performance.Analyzer()
			well, err := analyzer.WellPerforming(cmd.Context(), timeframe, threshold)
			if err != nil {
				return err
			}
			under, err := analyzer.Underperforming(cmd.Context(), timeframe, threshold)
			if err != nil {
				return err
			}

			book, err := performance.BuildWorkbook(well, under)
			if err != nil {
				return err
			}
			defer book.Close()

			if err := book.SaveAs(output); err != nil {
				return fmt.Errorf("save workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	exportCmd.Flags().IntVar(&timeframe, "timeframe", performance.DefaultTimeframeDays, "Timeframe in days")
	exportCmd.Flags().IntVar(&threshold, "threshold", performance.DefaultThreshold, "Order threshold")
	exportCmd.Flags().StringVarP(&output, "output", "o", "performance.xlsx", "Output file")

	reportCmd.AddCommand(wellCmd, underCmd, patternsCmd, exportCmd)
	return reportCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
