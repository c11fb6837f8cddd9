package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/spf13/cobra"
)

func newMigrateCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and list the applied ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeDB, err := rt.openApp()
			if err != nil {
				return err
			}
			defer closeDB()

			versions, err := a.DB.AppliedMigrations(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newResortCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "resort",
		Short: "Regenerate every stored sort key",
		Long: "Regenerate the sort keys of creators, publications, venues, works and\n" +
			"events after the naming rules change. Series keep their own keys.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeDB, err := rt.openApp()
			if err != nil {
				return err
			}
			defer closeDB()

			res, err := a.Resort(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "creators: %d\n", res.Creators)
			fmt.Fprintf(out, "reading:  %d\n", res.Reading)
			fmt.Fprintf(out, "events:   %d\n", res.Events)
			fmt.Fprintf(out, "total:    %d\n", res.Total())
			return nil
		},
	}
}

func newExportCmd(rt *cliEnv) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole catalogue as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeDB, err := rt.openApp()
			if err != nil {
				return err
			}
			defer closeDB()

			snap, err := a.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding export: %w", err)
			}
			data = append(data, '\n')

			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := atomic.WriteFile(outPath, bytes.NewReader(data)); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			rt.logger.Info("catalogue exported", "path", outPath,
				"creators", len(snap.Creators), "publications", len(snap.Publications), "events", len(snap.Events))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "file to write; stdout when empty")
	return cmd
}

func newSortKeyCmd() *cobra.Command {
	var person bool
	cmd := &cobra.Command{
		Use:     "sortkey NAME...",
		Short:   "Print the sort key generated for each name",
		Example: "  spectator sortkey \"The Long Blondes\"\n  spectator sortkey --person \"Daphne du Maurier\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := naturalsort.Thing
			if person {
				kind = naturalsort.Person
			}
			for _, name := range args {
				fmt.Fprintln(cmd.OutOrStdout(), naturalsort.Naturalize(strings.TrimSpace(name), kind))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&person, "person", "p", false, "treat names as people's names")
	return cmd
}

func newAPIKeyCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "apikey NAME",
		Short: "Create an API key for writes and HTTP MCP calls",
		Long:  "Create an API key. The token is printed once and only its hash is stored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeDB, err := rt.openApp()
			if err != nil {
				return err
			}
			defer closeDB()

			token, err := a.APIKeys.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
