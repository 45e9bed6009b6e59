package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEstimateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate FILE",
		Short: "Оценить размер файла и рекомендуемый размер блока",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extractor, err := a.extractor()
			if err != nil {
				return err
			}
			stats, err := extractor.EstimateFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Размер: %d байт (%.2f MB)\n", stats.SizeBytes, stats.SizeMB)
			fmt.Fprintf(out, "Строк (оценка): %d\n", stats.EstimatedLines)
			fmt.Fprintf(out, "Большой файл: %t\n", stats.IsLarge)
			fmt.Fprintf(out, "Рекомендуемый блок: %d\n", stats.RecommendedChunkSize)
			return nil
		},
	}
}
