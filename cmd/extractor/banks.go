package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bank-phone-extractor/internal/entities"
)

func newBanksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "Справочник испанских банков",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Все банки реестра",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.bankRepository()
			if err != nil {
				return err
			}
			printBanks(cmd.OutOrStdout(), repo.All())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "major",
		Short: "Основные банки",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.bankRepository()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, b := range repo.Major() {
				fmt.Fprintf(w, "%s\t%s\n", b.IBANPrefix, b.DisplayName)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search TERM",
		Short: "Поиск по названию (от 2 символов, не больше 100 результатов)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.bankRepository()
			if err != nil {
				return err
			}
			found := repo.Search(args[0])
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Ничего не найдено")
				return nil
			}
			printBanks(cmd.OutOrStdout(), found)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "info PREFIX",
		Short: "Карточка банка по префиксу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.bankRepository()
			if err != nil {
				return err
			}
			bank, err := repo.FindByPrefix(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			printBank(cmd.OutOrStdout(), bank)
			return nil
		},
	})

	return cmd
}

func printBanks(out io.Writer, banks []entities.Bank) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, b := range banks {
		fmt.Fprintf(w, "%s\t%s\n", b.IBANPrefix, b.Name)
	}
	_ = w.Flush()
}

func printBank(out io.Writer, b *entities.Bank) {
	fmt.Fprintln(out, headerStyle.Render(b.Name))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Префикс\t%s\n", b.IBANPrefix)
	fmt.Fprintf(w, "Код\t%s\n", b.EntityCode)
	fmt.Fprintf(w, "Адрес\t%s\n", b.Address)
	for _, field := range []struct{ name, value string }{
		{"LEI", b.LEI},
		{"Оператор", b.Operator},
		{"Провайдер", b.Provider},
		{"Код надзора", b.SupervisorCode},
	} {
		if field.value != "" {
			fmt.Fprintf(w, "%s\t%s\n", field.name, field.value)
		}
	}
	_ = w.Flush()
}
