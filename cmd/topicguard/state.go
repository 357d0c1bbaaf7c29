package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quailyquaily/topicguard/internal/clifmt"
	"github.com/quailyquaily/topicguard/internal/logutil"
	"github.com/quailyquaily/topicguard/internal/state"
	"github.com/quailyquaily/topicguard/internal/statepaths"
	"github.com/spf13/cobra"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the persisted verification state",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			store, err := openStore(logger)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), store)
			return nil
		},
	}
	return cmd
}

func printState(out io.Writer, store *state.Store) {
	prompt := "not posted"
	if id, ok := store.LastPromptID(); ok {
		prompt = strconv.FormatInt(id, 10)
	}
	data := store.BotData()
	keywords := strings.Join(data.VerificationKeywords, ", ")

	clifmt.PrintSection(out, clifmt.Section{
		Title: "State",
		Rows: []clifmt.Row{
			{Label: "state_dir", Value: statepaths.FileStateDir()},
			{Label: "bot_data", Value: statepaths.BotDataPath()},
			{Label: "prompt_message_id", Value: prompt},
			{Label: "keywords", Value: keywords},
			{Label: "reference_chars", Value: strconv.Itoa(len([]rune(data.VerificationReference)))},
		},
	})

	ids := store.VerifiedUserIDs()
	rows := make([]clifmt.Row, 0, len(ids))
	for i, id := range ids {
		rows = append(rows, clifmt.Row{Label: fmt.Sprintf("#%d", i+1), Value: strconv.FormatInt(id, 10)})
	}
	clifmt.PrintSection(out, clifmt.Section{
		Title:     "Verified users",
		Rows:      rows,
		EmptyText: "no verified users",
	})
}
