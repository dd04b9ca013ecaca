// Package configure edits a download item before it is saved or queued.
package configure

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"ytdlnis/internal/contracts"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/dustin/go-humanize"
)

// unknownFreeSpace is shown when the free space of a path cannot be read.
const unknownFreeSpace = "?"

// Deps are the stores and preferences an Audio configurator works with.
type Deps struct {
	Downloads contracts.DownloadStore
	Results   contracts.ResultStore

	// Preferences.
	AudioFormat      string
	DownloadDir      string
	FilenameTemplate string

	// FreeSpace reports the bytes available at a path. Defaults to the filesystem probe.
	FreeSpace func(path string) (uint64, error)
}

// Audio holds an audio download item while it is being configured.
type Audio struct {
	deps    Deps
	item    *models.DownloadItem
	result  *models.ResultItem
	formats []models.Format
	free    string
	isNew   bool
}

// NewAudio starts configuring an audio download.
//
// A non-nil current item is deep-copied so edits never touch the caller's record.
// Otherwise a fresh item is built from result (which may be nil) and url.
func NewAudio(deps Deps, result *models.ResultItem, current *models.DownloadItem, url string) (*Audio, error) {
	if deps.FreeSpace == nil {
		deps.FreeSpace = FreeSpace
	}

	a := &Audio{
		deps:   deps,
		result: result,
		isNew:  current == nil,
	}

	if current != nil {
		clone, err := current.Clone()
		if err != nil {
			return nil, err
		}
		a.item = clone
	} else {
		if result == nil && url == "" {
			return nil, errors.New("need a result or a URL to configure a download")
		}
		a.item = a.itemFromResult(url)
	}

	// Candidate formats.
	switch {
	case a.isNew:
		if result != nil {
			a.formats = models.FilterAudio(result.Formats)
		}
	case current.Type != models.TypeAudio:
		a.item.Type = models.TypeAudio
		a.item.Format = bestAudio(a.item.AllFormats)
	}
	if len(a.formats) == 0 {
		a.formats = models.FilterAudio(a.item.AllFormats)
	}
	if len(a.formats) == 0 {
		a.formats = models.GenericAudioFormats()
	}

	a.resolveContainer()
	a.free = a.freeSpace(a.item.DownloadPath)

	logging.D(2, "Configuring audio download %q with %d format candidates", a.item.DisplayTitle(), len(a.formats))
	return a, nil
}

// Item returns the item being configured.
func (a *Audio) Item() *models.DownloadItem {
	return a.item
}

// Result returns the result the item was built from, if any.
func (a *Audio) Result() *models.ResultItem {
	return a.result
}

// SetTitle sets the item title.
func (a *Audio) SetTitle(title string) {
	a.item.Title = title
}

// SetAuthor sets the item author.
func (a *Audio) SetAuthor(author string) {
	a.item.Author = author
}

// ResetTitle restores the result's title. No-op without a result.
func (a *Audio) ResetTitle() {
	if a.result != nil {
		a.item.Title = a.result.Title
	}
}

// ResetAuthor restores the result's author. No-op without a result.
func (a *Audio) ResetAuthor() {
	if a.result != nil {
		a.item.Author = a.result.Author
	}
}

// UpdateTitleAuthor overwrites both fields, skipping empty values.
func (a *Audio) UpdateTitleAuthor(title, author string) {
	if title != "" {
		a.item.Title = title
	}
	if author != "" {
		a.item.Author = author
	}
}

// SetDownloadPath stores the path verbatim and refreshes the free space.
func (a *Audio) SetDownloadPath(path string) {
	a.item.DownloadPath = path
	a.free = a.freeSpace(path)
}

// FreeSpace returns the human-readable free space at the download path, or "?".
func (a *Audio) FreeSpace() string {
	return a.free
}

// Containers lists the selectable containers, Default first.
func (a *Audio) Containers() []string {
	return consts.AudioContainers[:]
}

// Container returns the display name of the current container.
func (a *Audio) Container() string {
	if a.item.Container == "" {
		return consts.DefaultValue
	}
	return a.item.Container
}

// SetContainer selects the container at index in Containers.
func (a *Audio) SetContainer(index int) error {
	if index < 0 || index >= len(consts.AudioContainers) {
		return fmt.Errorf("container index %d out of range [0, %d)", index, len(consts.AudioContainers))
	}
	a.item.Container = containerValue(consts.AudioContainers[index])
	return nil
}

// SetContainerByName selects a container by its name, case-insensitively.
func (a *Audio) SetContainerByName(name string) error {
	for i, c := range consts.AudioContainers {
		if strings.EqualFold(c, name) {
			return a.SetContainer(i)
		}
	}
	return fmt.Errorf("unknown audio container %q", name)
}

// FormatCandidates returns the formats offered for selection.
func (a *Audio) FormatCandidates() []models.Format {
	return a.formats
}

// SelectFormat sets the chosen format and the item's full format list.
//
// With a result present, the result's cached formats are replaced by the non-generic
// entries of allFormats and persisted.
func (a *Audio) SelectFormat(ctx context.Context, allFormats []models.Format, chosen models.Format) error {
	a.item.Format = chosen
	a.item.AllFormats = slices.Clone(allFormats)

	specific := withoutGeneric(allFormats)
	if len(specific) > 0 {
		a.formats = models.FilterAudio(specific)
		if len(a.formats) == 0 {
			a.formats = specific
		}
	}

	if a.result == nil || len(specific) == 0 {
		return nil
	}

	a.result.Formats = specific
	if a.result.ID == 0 || a.deps.Results == nil {
		return nil
	}
	if err := a.deps.Results.Update(ctx, a.result); err != nil {
		return fmt.Errorf("failed to persist formats for result %q: %w", a.result.URL, err)
	}
	return nil
}

// SelectFormatID picks the candidate with the given format ID.
func (a *Audio) SelectFormatID(ctx context.Context, formatID string) error {
	i := slices.IndexFunc(a.formats, func(f models.Format) bool {
		return f.FormatID == formatID
	})
	if i < 0 {
		return fmt.Errorf("format %q is not offered for %q", formatID, a.item.DisplayTitle())
	}
	chosen := a.formats[i]

	all := a.formats
	switch {
	case a.result != nil && len(a.result.Formats) > 0:
		all = a.result.Formats
	case len(a.item.AllFormats) > 0:
		all = a.item.AllFormats
	}
	return a.SelectFormat(ctx, all, chosen)
}

// SetEmbedThumb toggles thumbnail embedding.
func (a *Audio) SetEmbedThumb(v bool) {
	a.item.AudioPreferences.EmbedThumb = v
}

// SetSplitByChapters toggles splitting output by chapters.
func (a *Audio) SetSplitByChapters(v bool) {
	a.item.AudioPreferences.SplitByChapters = v
}

// SetFilenameTemplate sets the output filename template.
func (a *Audio) SetFilenameTemplate(tmpl string) {
	a.item.CustomFileNameTemplate = tmpl
}

// SetSponsorBlockFilters keeps values[i] where checked[i] is set.
func (a *Audio) SetSponsorBlockFilters(values []string, checked []bool) error {
	if len(values) != len(checked) {
		return fmt.Errorf("got %d sponsorblock values but %d checked flags", len(values), len(checked))
	}

	filters := make([]string, 0, len(values))
	for i, v := range values {
		if checked[i] {
			filters = append(filters, v)
		}
	}
	a.item.AudioPreferences.SponsorBlockFilters = filters
	return nil
}

// SetCut sets the download sections (yt-dlp --download-sections syntax), "" clears them.
func (a *Audio) SetCut(sections string) error {
	sections = strings.TrimSpace(sections)
	if sections != "" && !a.CanCut() {
		return fmt.Errorf("cannot cut %q without a known duration", a.item.DisplayTitle())
	}
	a.item.DownloadSections = sections
	return nil
}

// CanCut reports whether the item's duration is known.
func (a *Audio) CanCut() bool {
	d := a.item.Duration
	return d != "" && d != "-1"
}

// SetExtraCommands sets extra yt-dlp arguments appended to the command line.
func (a *Audio) SetExtraCommands(cmds string) {
	a.item.ExtraCommands = cmds
}

// Save persists the item with the Saved status, returning its ID.
func (a *Audio) Save(ctx context.Context) (int64, error) {
	return a.persist(ctx, models.StatusSaved)
}

// Queue persists the item with the Queued status, returning its ID.
func (a *Audio) Queue(ctx context.Context) (int64, error) {
	return a.persist(ctx, models.StatusQueued)
}

// ******************************** Private ********************************

// persist inserts or updates the item with status.
func (a *Audio) persist(ctx context.Context, status models.DownloadStatus) (int64, error) {
	if a.deps.Downloads == nil {
		return 0, errors.New("no download store configured")
	}
	a.item.Status = status

	if a.item.ID == 0 {
		id, err := a.deps.Downloads.Insert(ctx, a.item)
		if err != nil {
			return 0, err
		}
		logging.S("Stored %q as %s", a.item.DisplayTitle(), status)
		return id, nil
	}

	if err := a.deps.Downloads.Update(ctx, a.item); err != nil {
		return 0, err
	}
	logging.S("Updated %q as %s", a.item.DisplayTitle(), status)
	return a.item.ID, nil
}

// itemFromResult builds a fresh audio item from the result and preferences.
func (a *Audio) itemFromResult(url string) *models.DownloadItem {
	d := &models.DownloadItem{
		URL:                    url,
		Type:                   models.TypeAudio,
		DownloadPath:           a.deps.DownloadDir,
		CustomFileNameTemplate: a.deps.FilenameTemplate,
		Status:                 models.StatusSaved,
	}

	if r := a.result; r != nil {
		if d.URL == "" {
			d.URL = r.URL
		}
		d.Title = r.Title
		d.Author = r.Author
		d.Thumb = r.Thumb
		d.Duration = r.Duration
		d.Website = r.Website
		d.PlaylistTitle = r.PlaylistTitle
		d.AllFormats = slices.Clone(r.Formats)
	}

	d.Format = bestAudio(d.AllFormats)
	return d
}

// resolveContainer applies the container preference to new items and unknown containers.
func (a *Audio) resolveContainer() {
	if !a.isNew && slices.Contains(consts.AudioContainers[:], a.item.Container) {
		return
	}
	a.item.Container = containerValue(a.deps.AudioFormat)
}

// freeSpace formats the free bytes at path.
func (a *Audio) freeSpace(path string) string {
	if path == "" {
		return unknownFreeSpace
	}
	n, err := a.deps.FreeSpace(path)
	if err != nil {
		logging.D(2, "Could not read free space at %q: %v", path, err)
		return unknownFreeSpace
	}
	return humanize.IBytes(n)
}

// containerValue maps the Default display name to the empty container.
func containerValue(name string) string {
	if name == "" || strings.EqualFold(name, consts.DefaultValue) {
		return ""
	}
	return name
}

// bestAudio returns the largest audio format, or the generic fallback.
func bestAudio(formats []models.Format) models.Format {
	audio := models.FilterAudio(formats)
	if len(audio) == 0 {
		generic := models.GenericAudioFormats()
		return generic[len(generic)-1]
	}
	return slices.MaxFunc(audio, func(x, y models.Format) int {
		switch {
		case x.Filesize < y.Filesize:
			return -1
		case x.Filesize > y.Filesize:
			return 1
		}
		return 0
	})
}

// withoutGeneric drops the generic selector formats.
func withoutGeneric(formats []models.Format) []models.Format {
	generic := models.GenericAudioFormats()
	out := make([]models.Format, 0, len(formats))
	for _, f := range formats {
		if !models.ContainsFormat(generic, f) {
			out = append(out, f)
		}
	}
	return out
}
