// extractor — пакетное извлечение телефонов клиентов выбранного банка из CSV, XLSX и текстовых файлов.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/repositories"
	"bank-phone-extractor/internal/services"
	"bank-phone-extractor/pkg/config"
	applogger "bank-phone-extractor/pkg/logger"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// app — общее состояние команд: флаги корня, конфиг и логгер.
type app struct {
	verbose      bool
	registryPath string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "extractor",
		Short:         "Извлечение телефонов клиентов банка по IBAN",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.New()
			if a.registryPath == "" {
				a.registryPath = a.cfg.Registry.Path
			}

			level := a.cfg.Log.Level
			if a.verbose {
				level = "debug"
			}
			logger, err := applogger.NewStderrLogger(level, a.cfg.Log.File)
			if err != nil {
				return fmt.Errorf("не удалось создать логгер: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Подробный лог")
	root.PersistentFlags().StringVar(&a.registryPath, "registry", "", "CSV реестра банков (по умолчанию встроенный)")

	root.AddCommand(newExtractCmd(a))
	root.AddCommand(newBanksCmd(a))
	root.AddCommand(newEstimateCmd(a))
	return root
}

func (a *app) bankRepository() (*repositories.BankRepository, error) {
	return repositories.NewBankRepository(a.registryPath, a.logger)
}

func (a *app) extractor() (*services.ExtractorService, error) {
	repo, err := a.bankRepository()
	if err != nil {
		return nil, err
	}
	return services.NewExtractorService(repo, services.NewFileLoader(a.logger), a.logger), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}
