package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/authcorp/proptest/config"
	"github.com/authcorp/proptest/observability"
	"github.com/authcorp/proptest/property"
	"github.com/authcorp/proptest/store"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "proptest",
		Short:        "Inspect property check failures and configuration",
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		cfg, err := config.Load(a.configPath, nil)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger = observability.NewLogger(cfg.GetString("log.level"), cfg.GetString("log.format"), errOut)
		return nil
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML or JSON config file")

	failures := &cobra.Command{
		Use:   "failures",
		Short: "Manage recorded property failures",
	}
	failures.AddCommand(a.listCmd(), a.clearCmd())
	root.AddCommand(failures, a.configCmd())
	return root
}

func (a *app) openStore(ctx context.Context) (store.Store, func(), error) {
	s, err := store.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if closer, ok := s.(io.Closer); ok {
		closeFn = func() { _ = closer.Close() }
	}
	return s, closeFn, nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closeFn, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded failures")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROPERTY\tSEED\tTRIES\tFAILED AT\tSAMPLE")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
					rec.Property, rec.Seed, rec.Tries, rec.FailedAt.Format(time.RFC3339), rec.Sample)
			}
			return w.Flush()
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [property...]",
		Short: "Delete recorded failures, all of them if no property is named",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			names := args
			if len(names) == 0 {
				records, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, rec := range records {
					names = append(names, rec.Property)
				}
			}
			for _, name := range names {
				if err := s.Delete(cmd.Context(), name); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d failure record(s)\n", len(names))
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective check configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := property.ConfigFrom(a.cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
			rows := []struct {
				key   string
				value any
			}{
				{property.KeyTries, cfg.Tries},
				{property.KeySeed, cfg.Seed},
				{property.KeyMaxDiscardRatio, cfg.MaxDiscardRatio},
				{property.KeyGenSize, cfg.GenSize},
				{property.KeyShrinkingMode, cfg.Shrinking},
				{property.KeyShrinkingBound, cfg.ShrinkingBound},
				{property.KeyGenerationMode, cfg.Generation},
				{property.KeyEdgeCasesMode, cfg.EdgeCases},
				{property.KeyAfterFailureMode, cfg.AfterFailure},
			}
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%v\n", row.key, row.value)
			}
			return w.Flush()
		},
	}
}
