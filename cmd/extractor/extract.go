package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bank-phone-extractor/internal/entities"
	"bank-phone-extractor/internal/services"
)

type extractOptions struct {
	bank      string
	out       string
	chunkSize int
	workers   int
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Найти телефоны в строках с IBAN выбранного банка",
		Long: `Файлы читаются параллельно (не больше --workers одновременно).
Без --out номера печатаются по одному на строку. Ctrl-C прерывает обработку.

Пример:
  extractor extract --bank ES0049 --out telefonos.xlsx clientes.csv altas.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.bank, "bank", "b", "", "Префикс банка (ES0049, ES91 0049); пусто — любой банк")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Файл результатов: .xlsx, .txt или .csv")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "Размер блока строк (по умолчанию из CHUNK_SIZE)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 2, "Сколько файлов обрабатывать одновременно")
	return cmd
}

func runExtract(cmd *cobra.Command, a *app, opts *extractOptions, files []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := a.extractor()
	if err != nil {
		return err
	}
	if _, err := extractor.ResolveBank(opts.bank); err != nil {
		return err
	}

	chunkSize := opts.chunkSize
	if chunkSize <= 0 {
		chunkSize = a.cfg.Extraction.ChunkSize
	}

	perFile := make([][]entities.ExtractionResult, len(files))
	reports := make([]*entities.LoadReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.workers))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results, report, err := extractor.ProcessFile(gctx, opts.bank, path, services.ProcessOptions{
				ChunkSize: chunkSize,
				Progress: func(percent, processed, total int) {
					a.logger.Debug("Прогресс", zap.String("file", path), zap.Int("percent", percent), zap.Int("processed", processed), zap.Int("total", total))
				},
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			perFile[i] = results
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var merged []entities.ExtractionResult
	for i, path := range files {
		r := reports[i]
		fmt.Fprintf(out, "%s [%s, %s]: строк %d, пустых %d, пропущено %d, найдено %d, телефонов %d\n",
			path, r.Format, r.Encoding, r.Rows, r.Blank, r.Skipped, len(perFile[i]), entities.PhoneTotal(perFile[i]))
		merged = append(merged, perFile[i]...)
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Итого: строк с телефонами %d, номеров %d", len(merged), entities.PhoneTotal(merged))))

	if opts.out == "" {
		for _, r := range merged {
			for _, phone := range r.PhoneNumbers {
				fmt.Fprintln(out, phone)
			}
		}
		return nil
	}

	if err := services.NewExporterService(a.logger).Export(opts.out, merged); err != nil {
		return err
	}
	fmt.Fprintf(out, "Результаты сохранены в %s\n", opts.out)
	return nil
}
