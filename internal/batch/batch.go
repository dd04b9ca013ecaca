// Package batch configures many downloads at once from a YAML file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"ytdlnis/internal/configure"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/goccy/go-yaml"
)

// Entry is one download in a batch file.
type Entry struct {
	Link          string   `yaml:"link"`
	OutputPath    string   `yaml:"op,omitempty"`
	Title         string   `yaml:"title,omitempty"`
	Author        string   `yaml:"author,omitempty"`
	Container     string   `yaml:"container,omitempty"`
	Format        string   `yaml:"format,omitempty"`
	Cut           string   `yaml:"cut,omitempty"`
	Extra         string   `yaml:"extra,omitempty"`
	EmbedThumb    bool     `yaml:"embed_thumb,omitempty"`
	SplitChapters bool     `yaml:"split_chapters,omitempty"`
	SponsorBlock  []string `yaml:"sponsorblock,omitempty"`
	Queue         bool     `yaml:"queue,omitempty"`
}

// File maps a download type section to its entries.
type File map[string][]Entry

// Fetcher looks up result metadata for a URL.
type Fetcher interface {
	FetchResult(ctx context.Context, rawURL string) (*models.ResultItem, error)
}

// Report counts the outcome of an Apply.
type Report struct {
	Saved   int
	Queued  int
	Skipped int
}

// Load reads and parses a batch file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading batch file %q: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing batch file %q: %w", path, err)
	}
	if len(f) == 0 {
		return nil, fmt.Errorf("batch file %q has no sections", path)
	}
	return f, nil
}

// Applier turns batch entries into stored download items.
type Applier struct {
	Deps configure.Deps

	// Fetcher is optional, entries are configured from their link alone without it.
	Fetcher Fetcher
}

// Apply configures and stores every entry of f.
//
// Entries that fail are logged and skipped. Cancelling ctx stops the run.
func (ap *Applier) Apply(ctx context.Context, f File) (Report, error) {
	var rep Report

	for section, entries := range f {
		typ := normalizeType(section)
		if typ != models.TypeAudio {
			logging.W("Unsupported batch section %q, skipping %d entries", section, len(entries))
			rep.Skipped += len(entries)
			continue
		}

		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if e.Link == "" {
				logging.W("Empty link found in %s section, skipping...", section)
				rep.Skipped++
				continue
			}

			queued, err := ap.applyAudio(ctx, e)
			switch {
			case err == nil && queued:
				rep.Queued++
			case err == nil:
				rep.Saved++
			case errors.Is(err, context.Canceled):
				return rep, err
			default:
				logging.E("Batch entry %q failed: %v", e.Link, err)
				rep.Skipped++
			}
		}
	}
	return rep, nil
}

// applyAudio configures one audio entry, reporting whether it was queued.
func (ap *Applier) applyAudio(ctx context.Context, e Entry) (bool, error) {
	var result *models.ResultItem
	if ap.Fetcher != nil {
		r, err := ap.Fetcher.FetchResult(ctx, e.Link)
		if err != nil {
			logging.W("Could not fetch metadata for %q, configuring from link: %v", e.Link, err)
		} else {
			result = r
		}
	}

	a, err := configure.NewAudio(ap.Deps, result, nil, e.Link)
	if err != nil {
		return false, err
	}
	if err := Configure(ctx, a, e); err != nil {
		return false, err
	}

	if e.Queue {
		_, err = a.Queue(ctx)
		return true, err
	}
	_, err = a.Save(ctx)
	return false, err
}

// Configure applies the entry's options to a.
func Configure(ctx context.Context, a *configure.Audio, e Entry) error {
	a.UpdateTitleAuthor(e.Title, e.Author)
	if e.OutputPath != "" {
		a.SetDownloadPath(e.OutputPath)
	}
	if e.Container != "" {
		if err := a.SetContainerByName(e.Container); err != nil {
			return err
		}
	}
	if e.Format != "" {
		if err := a.SelectFormatID(ctx, e.Format); err != nil {
			return err
		}
	}
	if e.Cut != "" {
		if err := a.SetCut(e.Cut); err != nil {
			return err
		}
	}
	if len(e.SponsorBlock) > 0 {
		values, checked := sponsorBlockChecks(e.SponsorBlock)
		if err := a.SetSponsorBlockFilters(values, checked); err != nil {
			return err
		}
	}
	a.SetEmbedThumb(e.EmbedThumb)
	a.SetSplitByChapters(e.SplitChapters)
	if e.Extra != "" {
		a.SetExtraCommands(e.Extra)
	}
	return nil
}

// sponsorBlockChecks marks the known categories named in wanted.
func sponsorBlockChecks(wanted []string) ([]string, []bool) {
	values := consts.SponsorBlockCategories[:]
	checked := make([]bool, len(values))
	for _, w := range wanted {
		found := false
		for i, v := range values {
			if strings.EqualFold(v, strings.TrimSpace(w)) {
				checked[i] = true
				found = true
			}
		}
		if !found {
			logging.W("Ignoring unknown sponsorblock category %q", w)
		}
	}
	return values, checked
}

// normalizeType maps section aliases to a download type.
func normalizeType(section string) models.DownloadType {
	switch strings.ToLower(strings.TrimSpace(section)) {
	case "audio", "a", "music", "mp3":
		return models.TypeAudio
	case "video", "v":
		return models.TypeVideo
	case "command", "cmd":
		return models.TypeCommand
	}
	return ""
}
