package cfg

import (
	"errors"
	"fmt"
	"strconv"

	"ytdlnis/internal/domain/keys"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCookieCmds is the entrypoint for initializing cookie commands.
func initCookieCmds(s *session) *cobra.Command {
	cookieCmd := &cobra.Command{
		Use:   "cookies",
		Short: "Cookie commands",
		Long:  "Manage stored cookies and the cookie file passed to yt-dlp.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("please specify a subcommand. Use --help to see available subcommands")
		},
	}

	cookieCmd.AddCommand(
		listCookiesCmd(s),
		addCookieCmd(s),
		updateCookieCmd(s),
		deleteCookieCmd(s),
		deleteAllCookiesCmd(s),
		regenCookiesCmd(s),
		importClipboardCmd(s),
		exportClipboardCmd(s),
		exportFileCmd(s),
		fromWebViewCmd(s),
		fromBrowserCmd(s),
	)
	return cookieCmd
}

// listCookiesCmd prints the stored cookie items.
func listCookiesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cookie entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			items, err := m.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cookies stored.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, c := range items {
				rows = append(rows, []string{
					strconv.FormatInt(c.ID, 10),
					truncate(c.URL, 60),
					strconv.Itoa(len(c.Lines())),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "URL", "Lines"}, rows)
			return nil
		},
	}
}

// addCookieCmd stores a new cookie entry.
func addCookieCmd(s *session) *cobra.Command {
	var url, content, file string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a cookie entry",
		Long:  "Add Netscape cookie lines under a URL, from --content or --file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return errors.New("must enter a URL")
			}
			text, err := readContent(content, file)
			if err != nil {
				return err
			}
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			id, err := m.Insert(cmd.Context(), &models.CookieItem{URL: url, Content: text})
			if err != nil {
				return err
			}
			logging.S("Added cookie entry %d for %q", id, url)
			return nil
		},
	}

	addCmd.Flags().StringVarP(&url, "url", "u", "", "Site URL or label")
	addCmd.Flags().StringVarP(&content, "content", "c", "", "Netscape cookie lines")
	addCmd.Flags().StringVarP(&file, "file", "f", "", "Read cookie lines from a file")
	return addCmd
}

// updateCookieCmd rewrites an existing cookie entry.
func updateCookieCmd(s *session) *cobra.Command {
	var (
		id                 int64
		url, content, file string
	)

	updCmd := &cobra.Command{
		Use:   "update",
		Short: "Update a cookie entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			items, err := m.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			var item *models.CookieItem
			for _, c := range items {
				if c.ID == id {
					item = c
					break
				}
			}
			if item == nil {
				return fmt.Errorf("no cookie entry with ID %d", id)
			}

			if url != "" {
				item.URL = url
			}
			if content != "" || file != "" {
				if item.Content, err = readContent(content, file); err != nil {
					return err
				}
			}
			if err := m.Update(cmd.Context(), item); err != nil {
				return err
			}
			logging.S("Updated cookie entry %d", id)
			return nil
		},
	}

	updCmd.Flags().Int64Var(&id, "id", 0, "Cookie entry ID")
	updCmd.Flags().StringVarP(&url, "url", "u", "", "New URL or label")
	updCmd.Flags().StringVarP(&content, "content", "c", "", "New cookie lines")
	updCmd.Flags().StringVarP(&file, "file", "f", "", "Read new cookie lines from a file")
	_ = updCmd.MarkFlagRequired("id")
	return updCmd
}

// deleteCookieCmd removes a cookie entry.
func deleteCookieCmd(s *session) *cobra.Command {
	var id int64

	delCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a cookie entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			if err := m.Delete(cmd.Context(), id); err != nil {
				return err
			}
			logging.S("Deleted cookie entry %d", id)
			return nil
		},
	}

	delCmd.Flags().Int64Var(&id, "id", 0, "Cookie entry ID")
	_ = delCmd.MarkFlagRequired("id")
	return delCmd
}

// deleteAllCookiesCmd clears the cookie table.
func deleteAllCookiesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every cookie entry",
		Long:  "Delete every cookie entry. The cookie file is left as it is until the next change or regen.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			if err := m.DeleteAll(cmd.Context()); err != nil {
				return err
			}
			logging.S("Deleted all cookie entries")
			return nil
		},
	}
}

// regenCookiesCmd rewrites the cookie file from the table.
func regenCookiesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "regen",
		Short: "Regenerate the cookie file",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			if err := m.UpdateCookiesFile(cmd.Context()); err != nil {
				return err
			}
			logging.S("Wrote cookie file %q", m.FilePath())
			return nil
		},
	}
}

// importClipboardCmd stores Netscape cookies copied to the clipboard.
func importClipboardCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import-clipboard",
		Short: "Import a Netscape cookie file from the clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			if !m.ImportFromClipboard(cmd.Context()) {
				return errors.New("clipboard does not hold a Netscape cookie file")
			}
			logging.S("Imported cookies from clipboard")
			return nil
		},
	}
}

// exportClipboardCmd copies the cookie file to the clipboard.
func exportClipboardCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export-clipboard",
		Short: "Copy the cookie file to the clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			if !m.ExportToClipboard(cmd.Context()) {
				return errors.New("could not copy cookies to the clipboard")
			}
			logging.S("Copied cookies to clipboard")
			return nil
		},
	}
}

// exportFileCmd copies the cookie file into the export directory.
func exportFileCmd(s *session) *cobra.Command {
	var dir string

	expCmd := &cobra.Command{
		Use:   "export-file",
		Short: "Export the cookie file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = viper.GetString(keys.ExportDir)
			}
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			path := m.ExportToFile(cmd.Context(), dir)
			if path == "" {
				return fmt.Errorf("could not export cookies to %q", dir)
			}
			logging.S("Exported cookies to %q", path)
			return nil
		},
	}

	expCmd.Flags().StringVarP(&dir, "dir", "d", "", "Export directory (default: --export-dir)")
	return expCmd
}

// fromWebViewCmd imports cookies for a URL from the WebView cookie database.
func fromWebViewCmd(s *session) *cobra.Command {
	var (
		url    string
		dryRun bool
	)

	wvCmd := &cobra.Command{
		Use:   "from-webview",
		Short: "Import cookies for a URL from the WebView cookie database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return errors.New("must enter a URL")
			}
			m, err := s.cookieManager()
			if err != nil {
				return err
			}

			if dryRun {
				content, err := m.GetCookiesFromDB(cmd.Context(), url)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			id, err := m.ImportFromWebView(cmd.Context(), url)
			if err != nil {
				return err
			}
			logging.S("Stored WebView cookies for %q as entry %d", url, id)
			return nil
		},
	}

	wvCmd.Flags().StringVarP(&url, "url", "u", "", "URL the cookies are for")
	wvCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the cookie lines instead of storing them")
	return wvCmd
}

// fromBrowserCmd imports cookies for a URL from installed desktop browsers.
func fromBrowserCmd(s *session) *cobra.Command {
	var url string

	brCmd := &cobra.Command{
		Use:   "from-browser",
		Short: "Import cookies for a URL from installed browsers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return errors.New("must enter a URL")
			}
			m, err := s.cookieManager()
			if err != nil {
				return err
			}
			id, err := m.ImportFromBrowsers(cmd.Context(), url)
			if err != nil {
				return err
			}
			logging.S("Stored browser cookies for %q as entry %d", url, id)
			return nil
		},
	}

	brCmd.Flags().StringVarP(&url, "url", "u", "", "URL the cookies are for")
	return brCmd
}
