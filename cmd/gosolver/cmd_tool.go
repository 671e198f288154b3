package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/speech"
)

func newSpeakCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "speak [text]",
		Short: "Read text aloud with the configured synthesizer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.speaker().Speak(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), speech.Warning(err))
			}
			return err
		},
	}
}

func newSchemaCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON tool schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), gosolver.ToolSpec())
			return err
		},
	}
}

func newToolCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tool [request-json]",
		Short: "Run one JSON tool call from the argument or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				r = strings.NewReader(args[0])
			}
			dec := json.NewDecoder(io.LimitReader(r, 1<<20))
			dec.DisallowUnknownFields()

			var req gosolver.ToolRequest
			if err := dec.Decode(&req); err != nil {
				return fmt.Errorf("tool: decode request: %w", err)
			}
			resp := gosolver.HandleToolCall(req)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return err
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			return nil
		},
	}
}
