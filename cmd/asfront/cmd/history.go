package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/apache/royale-compiler-sub012/internal/store"
)

var (
	historyPath      string
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded parse sessions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show SESSION",
	Short: "Print the problems and offset cues of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().StringVar(&historyPath, "path", "", "only sessions of this file")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of sessions")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "age limit (default: store.retention)")
}

func openHistory() (*store.History, error) {
	return store.Open(store.Config{Path: projectConfig.Store.Path, Logger: logger})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	history, err := openHistory()
	if err != nil {
		return err
	}
	defer history.Close()

	sessions, err := history.ListSessions(cmd.Context(), store.SessionFilter{Path: historyPath, Limit: historyLimit})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, dimStyle.Render("no sessions recorded"))
		return nil
	}
	for _, s := range sessions {
		status := okStyle.Render("ok   ")
		if s.ErrorCount > 0 {
			status = errorStyle.Render("error")
		}
		fmt.Fprintf(out, "%s %s %s %3d problems %2d includes %s\n",
			s.ID, s.StartedAt.Local().Format("2006-01-02 15:04:05"), status,
			s.ProblemCount, s.IncludeCount, s.Path)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	history, err := openHistory()
	if err != nil {
		return err
	}
	defer history.Close()

	ctx := cmd.Context()
	session, err := history.GetSession(ctx, args[0])
	if err != nil {
		return err
	}
	problems, err := history.Problems(ctx, session.ID)
	if err != nil {
		return err
	}
	cues, err := history.Cues(ctx, session.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, map[string]interface{}{
			"session":  session,
			"problems": problemRows(problems),
			"cues":     cues,
		})
	}
	renderHeader(out, fmt.Sprintf("%s  %s  %s", session.Path, session.StartedAt.Local().Format(time.RFC3339), session.Duration))
	renderProblems(out, problems)
	if len(cues) > 0 {
		fmt.Fprintln(out)
		renderHeader(out, "cues")
		for _, c := range cues {
			fmt.Fprintf(out, "%10d %10d  %s\n", c.Absolute, c.Adjustment, c.Filename)
		}
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	history, err := openHistory()
	if err != nil {
		return err
	}
	defer history.Close()

	age := historyOlderThan
	if age == 0 {
		age = projectConfig.Store.Retention.Duration
	}
	deleted, err := history.Prune(cmd.Context(), age)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pruned %d sessions older than %s\n", deleted, age)
	return nil
}
