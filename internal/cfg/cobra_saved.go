package cfg

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ytdlnis/internal/domain/keys"
	"ytdlnis/internal/saved"
	"ytdlnis/internal/tui"
	"ytdlnis/internal/utils/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errSwipeDisabled = errors.New("swipe gestures are disabled (see --" + keys.SwipeGestures + ")")

// initSavedCmds is the entrypoint for initializing saved download commands.
func initSavedCmds(s *session) *cobra.Command {
	savedCmd := &cobra.Command{
		Use:   "saved",
		Short: "Saved download commands",
		Long:  "Browse, queue and delete downloads in the Saved state.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("please specify a subcommand. Use --help to see available subcommands")
		},
	}

	savedCmd.AddCommand(
		listSavedCmd(s),
		detailsSavedCmd(s),
		queueSavedCmd(s),
		bulkSavedCmd(s, "delete", "Delete the selected saved downloads", true, (*saved.Browser).DeleteSelected),
		bulkSavedCmd(s, "queue-selected", "Queue the selected saved downloads, or all of them", false, (*saved.Browser).QueueSelected),
		swipeLeftCmd(s),
		swipeRightCmd(s),
		undoCmd(s),
		browseCmd(s),
	)
	return savedCmd
}

// listSavedCmd prints one page of saved downloads.
func listSavedCmd(s *session) *cobra.Command {
	var (
		query string
		page  int
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.browser()
			if err != nil {
				return err
			}
			p, err := b.Page(cmd.Context(), page-1, query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if p.Total == 0 {
				fmt.Fprintln(out, "No saved downloads.")
				return nil
			}

			rows := make([][]string, 0, len(p.Items))
			for _, item := range p.Items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					truncate(item.DisplayTitle(), 50),
					truncate(item.Author, 25),
					item.Duration,
					item.Format.FormatID,
				})
			}
			printTable(out, []string{"ID", "Title", "Author", "Duration", "Format"}, rows)
			fmt.Fprintf(out, "Page %d/%d, %d saved\n", p.Page+1, p.Pages, p.Total)
			return nil
		},
	}

	listCmd.Flags().StringVar(&query, keys.SavedQuery, "", "Fuzzy filter on title and author")
	listCmd.Flags().IntVar(&page, keys.SavedPage, 1, "Page number, starting at 1")
	return listCmd
}

// detailsSavedCmd prints every stored field of one item.
func detailsSavedCmd(s *session) *cobra.Command {
	var id int64

	detCmd := &cobra.Command{
		Use:   "details",
		Short: "Show a saved download",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.browser()
			if err != nil {
				return err
			}
			item, err := b.Details(cmd.Context(), id)
			if err != nil {
				return err
			}

			printTable(cmd.OutOrStdout(), []string{"Field", "Value"}, [][]string{
				{"ID", strconv.FormatInt(item.ID, 10)},
				{"Title", item.Title},
				{"Author", item.Author},
				{"URL", item.URL},
				{"Duration", item.Duration},
				{"Type", string(item.Type)},
				{"Container", item.Container},
				{"Format", item.Format.FormatID},
				{"Path", item.DownloadPath},
				{"Template", item.CustomFileNameTemplate},
				{"Sections", item.DownloadSections},
				{"Extra", item.ExtraCommands},
				{"Status", string(item.Status)},
			})
			return nil
		},
	}

	detCmd.Flags().Int64Var(&id, "id", 0, "Download item ID")
	_ = detCmd.MarkFlagRequired("id")
	return detCmd
}

// queueSavedCmd queues one saved download.
func queueSavedCmd(s *session) *cobra.Command {
	var id int64

	qCmd := &cobra.Command{
		Use:   "queue",
		Short: "Queue a saved download",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.browser()
			if err != nil {
				return err
			}
			return b.Queue(cmd.Context(), id)
		},
	}

	qCmd.Flags().Int64Var(&id, "id", 0, "Download item ID")
	_ = qCmd.MarkFlagRequired("id")
	return qCmd
}

// bulkAction is a Browser operation over a selection.
type bulkAction func(b *saved.Browser, ctx context.Context, sel *saved.Selection) (int, error)

// bulkSavedCmd runs action over the selection built from the --ids, --inverted and --all flags.
func bulkSavedCmd(s *session, use, short string, needSelection bool, action bulkAction) *cobra.Command {
	var (
		ids           []int64
		inverted, all bool
	)

	bCmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". With --" + keys.SavedInverted + " or --" + keys.SavedAll + ", --ids lists the items left out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if needSelection && len(ids) == 0 && !inverted && !all {
				return errors.New("must enter --ids, --" + keys.SavedInverted + " or --" + keys.SavedAll)
			}

			sel := selectionFrom(ids, inverted || all)
			b, err := s.browser()
			if err != nil {
				return err
			}
			n, err := action(b, cmd.Context(), sel)
			if err != nil {
				return err
			}
			logging.S("%s: %d saved downloads", short, n)
			return nil
		},
	}

	bCmd.Flags().Int64SliceVar(&ids, "ids", nil, "Download item IDs")
	bCmd.Flags().BoolVar(&inverted, keys.SavedInverted, false, "Select everything except --ids")
	bCmd.Flags().BoolVar(&all, keys.SavedAll, false, "Select every saved download")
	return bCmd
}

// selectionFrom builds a selection of ids, or of everything but ids when inverted.
func selectionFrom(ids []int64, inverted bool) *saved.Selection {
	sel := saved.NewSelection()
	if inverted {
		sel.CheckAll()
	}
	for _, id := range ids {
		if sel.IsSelected(id) == inverted {
			sel.Toggle(id)
		}
	}
	return sel
}

// swipeLeftCmd deletes a saved download, printing an undo token.
func swipeLeftCmd(s *session) *cobra.Command {
	var id int64

	slCmd := &cobra.Command{
		Use:   "swipe-left",
		Short: "Delete a saved download, keeping it for undo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !viper.GetBool(keys.SwipeGestures) {
				return errSwipeDisabled
			}
			b, err := s.browser()
			if err != nil {
				return err
			}
			token, item, err := b.SwipeLeft(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q. Undo with: ytdlnis saved undo --token %s\n", item.DisplayTitle(), token)
			return nil
		},
	}

	slCmd.Flags().Int64Var(&id, "id", 0, "Download item ID")
	_ = slCmd.MarkFlagRequired("id")
	return slCmd
}

// swipeRightCmd queues a saved download.
func swipeRightCmd(s *session) *cobra.Command {
	var id int64

	srCmd := &cobra.Command{
		Use:   "swipe-right",
		Short: "Queue a saved download",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !viper.GetBool(keys.SwipeGestures) {
				return errSwipeDisabled
			}
			b, err := s.browser()
			if err != nil {
				return err
			}
			return b.SwipeRight(cmd.Context(), id)
		},
	}

	srCmd.Flags().Int64Var(&id, "id", 0, "Download item ID")
	_ = srCmd.MarkFlagRequired("id")
	return srCmd
}

// undoCmd restores a swiped download.
func undoCmd(s *session) *cobra.Command {
	var token string

	uCmd := &cobra.Command{
		Use:   "undo",
		Short: "Restore a download deleted with swipe-left",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.browser()
			if err != nil {
				return err
			}
			_, err = b.Undo(cmd.Context(), token)
			return err
		},
	}

	uCmd.Flags().StringVar(&token, "token", "", "Undo token printed by swipe-left")
	_ = uCmd.MarkFlagRequired("token")
	return uCmd
}

// browseCmd opens the interactive saved list.
func browseCmd(s *session) *cobra.Command {
	var query string

	brCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse saved downloads interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.browser()
			if err != nil {
				return err
			}
			m := tui.New(cmd.Context(), b, query, viper.GetBool(keys.SwipeGestures))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	brCmd.Flags().StringVar(&query, keys.SavedQuery, "", "Fuzzy filter on title and author")
	return brCmd
}
