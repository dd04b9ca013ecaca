package cfg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ytdlnis/internal/batch"
	"ytdlnis/internal/configure"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/spf13/cobra"
)

// initDownloadCmds is the entrypoint for initializing download commands.
func initDownloadCmds(s *session) *cobra.Command {
	dlCmd := &cobra.Command{
		Use:   "download",
		Short: "Download commands",
		Long:  "Configure audio downloads and run the download queue.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("please specify a subcommand. Use --help to see available subcommands")
		},
	}

	dlCmd.AddCommand(audioCmd(s), runQueueCmd(s))
	return dlCmd
}

// audioCmd configures an audio download, then saves or queues it.
func audioCmd(s *session) *cobra.Command {
	var (
		e     batch.Entry
		id    int64
		fetch bool
	)

	aCmd := &cobra.Command{
		Use:   "audio",
		Short: "Configure an audio download",
		Long:  "Configure a new audio download from --url, or edit a stored one with --id. The item is saved unless --queue is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if e.Link == "" && id == 0 {
				return errors.New("must enter a URL or an item ID")
			}

			deps, err := s.configureDeps()
			if err != nil {
				return err
			}

			var (
				current *models.DownloadItem
				result  *models.ResultItem
			)
			if id != 0 {
				item, hasRows, err := deps.Downloads.GetItemByID(ctx, id)
				if err != nil {
					return err
				}
				if !hasRows {
					return fmt.Errorf("no download item with ID %d", id)
				}
				current = item

				// Keep stored toggles the user did not set.
				if !cmd.Flags().Changed("embed-thumb") {
					e.EmbedThumb = item.AudioPreferences.EmbedThumb
				}
				if !cmd.Flags().Changed("split-chapters") {
					e.SplitChapters = item.AudioPreferences.SplitByChapters
				}
			}

			if fetch && e.Link != "" && current == nil {
				sc, err := s.scraper()
				if err != nil {
					return err
				}
				if result, err = sc.FetchResult(ctx, e.Link); err != nil {
					logging.W("Could not fetch metadata for %q, configuring from link: %v", e.Link, err)
					result = nil
				}
			}

			a, err := configure.NewAudio(deps, result, current, e.Link)
			if err != nil {
				return err
			}
			if err := batch.Configure(ctx, a, e); err != nil {
				return err
			}

			printAudio(cmd, a)
			if e.Queue {
				_, err = a.Queue(ctx)
			} else {
				_, err = a.Save(ctx)
			}
			return err
		},
	}

	f := aCmd.Flags()
	f.StringVarP(&e.Link, "url", "u", "", "URL to download")
	f.Int64Var(&id, "id", 0, "Edit the stored download item with this ID")
	f.BoolVar(&fetch, "fetch", false, "Scrape page metadata before configuring")
	f.StringVarP(&e.Title, "title", "t", "", "Title")
	f.StringVarP(&e.Author, "author", "a", "", "Author")
	f.StringVarP(&e.Container, "container", "c", "", "Audio container ("+strings.Join(consts.AudioContainers[:], ", ")+")")
	f.StringVar(&e.Format, "format", "", "Format ID to download")
	f.StringVarP(&e.OutputPath, "path", "p", "", "Download directory (default: --download-dir)")
	f.BoolVar(&e.EmbedThumb, "embed-thumb", false, "Embed the thumbnail")
	f.BoolVar(&e.SplitChapters, "split-chapters", false, "Split the output by chapters")
	f.StringSliceVar(&e.SponsorBlock, "sponsorblock", nil, "SponsorBlock categories to remove")
	f.StringVar(&e.Cut, "cut", "", "Sections to keep, in yt-dlp --download-sections syntax, ';' separated")
	f.StringVar(&e.Extra, "extra", "", "Extra yt-dlp arguments")
	f.BoolVarP(&e.Queue, "queue", "q", false, "Queue the item instead of saving it")
	return aCmd
}

// runQueueCmd downloads every queued item.
func runQueueCmd(s *session) *cobra.Command {
	var stagger time.Duration

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Download every queued item",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.runner()
			if err != nil {
				return err
			}
			r.Stagger = stagger

			completed, failed, err := r.RunQueued(cmd.Context())
			logging.I("Queue run finished: %d completed, %d failed", completed, failed)
			return err
		},
	}

	runCmd.Flags().DurationVar(&stagger, "stagger", 0, "Longest random pause between downloads (e.g. 30s)")
	return runCmd
}

// fetchCmd scrapes and stores the metadata of a URL.
func fetchCmd(s *session) *cobra.Command {
	var url string

	fCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and store page metadata for a URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return errors.New("must enter a URL")
			}
			sc, err := s.scraper()
			if err != nil {
				return err
			}
			r, err := sc.FetchResult(cmd.Context(), url)
			if err != nil {
				return err
			}

			uploaded := ""
			if !r.UploadDate.IsZero() {
				uploaded = r.UploadDate.Format("2006-01-02")
			}
			printTable(cmd.OutOrStdout(), []string{"Field", "Value"}, [][]string{
				{"ID", fmt.Sprint(r.ID)},
				{"Title", r.Title},
				{"Author", r.Author},
				{"Duration", r.Duration},
				{"Website", r.Website},
				{"Uploaded", uploaded},
				{"Thumbnail", r.Thumb},
			})
			return nil
		},
	}

	fCmd.Flags().StringVarP(&url, "url", "u", "", "Page URL")
	return fCmd
}

// batchCmd configures every entry in a YAML batch file.
func batchCmd(s *session) *cobra.Command {
	var fetch bool

	bCmd := &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Configure multiple downloads from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := batch.Load(args[0])
			if err != nil {
				return err
			}
			deps, err := s.configureDeps()
			if err != nil {
				return err
			}

			ap := &batch.Applier{Deps: deps}
			if fetch {
				if ap.Fetcher, err = s.scraper(); err != nil {
					return err
				}
			}

			rep, err := ap.Apply(cmd.Context(), f)
			logging.I("Batch finished: %d saved, %d queued, %d skipped", rep.Saved, rep.Queued, rep.Skipped)
			return err
		},
	}

	bCmd.Flags().BoolVar(&fetch, "fetch", false, "Scrape page metadata for each entry")
	return bCmd
}

// printAudio prints a summary of the configured item.
func printAudio(cmd *cobra.Command, a *configure.Audio) {
	item := a.Item()
	printTable(cmd.OutOrStdout(), []string{"Field", "Value"}, [][]string{
		{"Title", item.Title},
		{"Author", item.Author},
		{"URL", item.URL},
		{"Container", a.Container()},
		{"Format", item.Format.FormatID},
		{"Path", item.DownloadPath},
		{"Free space", a.FreeSpace()},
		{"Sections", item.DownloadSections},
		{"SponsorBlock", strings.Join(item.AudioPreferences.SponsorBlockFilters, ", ")},
	})
}
