package cfg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"ytdlnis/internal/configure"
	"ytdlnis/internal/contracts"
	"ytdlnis/internal/cookies"
	"ytdlnis/internal/domain/keys"
	"ytdlnis/internal/domain/paths"
	"ytdlnis/internal/downloads"
	"ytdlnis/internal/saved"
	"ytdlnis/internal/scraper"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/viper"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

var errNoStore = errors.New("database is not open")

// storeOf returns the session store or an error if loadConfig has not run.
func (s *session) storeOf() (contracts.Store, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	return s.store, nil
}

// cookieManager returns a manager over the cookie table and file.
func (s *session) cookieManager() (*cookies.Manager, error) {
	st, err := s.storeOf()
	if err != nil {
		return nil, err
	}
	return cookies.NewManager(st.CookieStore(), nil, paths.CookieFilePath, viper.GetString(keys.WebViewDir)), nil
}

// configureDeps returns the configurator dependencies from the stores and preferences.
func (s *session) configureDeps() (configure.Deps, error) {
	st, err := s.storeOf()
	if err != nil {
		return configure.Deps{}, err
	}
	return configure.Deps{
		Downloads:        st.DownloadStore(),
		Results:          st.ResultStore(),
		AudioFormat:      viper.GetString(keys.AudioFormat),
		DownloadDir:      viper.GetString(keys.DownloadDir),
		FilenameTemplate: viper.GetString(keys.FilenameTemplate),
	}, nil
}

// browser returns a saved list browser with the configured page size.
func (s *session) browser() (*saved.Browser, error) {
	st, err := s.storeOf()
	if err != nil {
		return nil, err
	}
	return saved.NewBrowser(st.DownloadStore(), viper.GetInt(keys.PageSize)), nil
}

// runner returns a queue runner sending the generated cookie file.
func (s *session) runner() (*downloads.Runner, error) {
	st, err := s.storeOf()
	if err != nil {
		return nil, err
	}
	return downloads.NewRunner(st.DownloadStore(), paths.CookieFilePath, viper.GetString(keys.YtdlpPath)), nil
}

// scraper returns a metadata scraper sending the generated cookie file.
func (s *session) scraper() (*scraper.Scraper, error) {
	st, err := s.storeOf()
	if err != nil {
		return nil, err
	}
	return scraper.New(st.ResultStore(), paths.CookieFilePath), nil
}

// printTable writes rows under headers as a table.
func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r...)
	}
	fmt.Fprintln(w, t.String())
}

// readContent returns text, or the contents of file when set.
func readContent(text, file string) (string, error) {
	if file == "" {
		return text, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", file, err)
	}
	return string(b), nil
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
