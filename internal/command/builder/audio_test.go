package builder_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"ytdlnis/internal/command/builder"
	"ytdlnis/internal/models"
)

// TestAudioArgs checks every configured option reaches the argument list ---------------------------------------------------
func TestAudioArgs(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(cookieFile, []byte("# Netscape HTTP Cookie File\n"), 0o600); err != nil {
		t.Fatalf("failed to write cookie file: %v", err)
	}

	item := &models.DownloadItem{
		URL:                    "https://youtube.com/watch?v=abc",
		Container:              "opus",
		Format:                 models.Format{FormatID: "251"},
		DownloadPath:           "/music",
		CustomFileNameTemplate: "%(uploader)s - %(title)s",
		DownloadSections:       "*0:10-0:20;*1:00-1:30;",
		ExtraCommands:          `--no-mtime --postprocessor-args "ffmpeg:-ar 44100"`,
		AudioPreferences: models.AudioPreferences{
			EmbedThumb:          true,
			SplitByChapters:     true,
			SponsorBlockFilters: []string{"sponsor", "intro"},
		},
	}

	args, err := builder.AudioArgs(item, cookieFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"-x",
		"--audio-format", "opus",
		"-f", "251",
		"-P", "/music",
		"-o", "%(uploader)s - %(title)s.%(ext)s",
		"--embed-thumbnail",
		"--sponsorblock-remove", "sponsor,intro",
		"--download-sections", "*0:10-0:20",
		"--download-sections", "*1:00-1:30",
		"--cookies", cookieFile,
		"--print", builder.PrintAfterMove,
		"--no-mtime", "--postprocessor-args", "ffmpeg:-ar 44100",
		"https://youtube.com/watch?v=abc",
	}
	if !slices.Equal(args, want) {
		t.Fatalf("expected:\n%q\ngot:\n%q", want, args)
	}
}

// TestAudioArgsMinimal checks defaults leave optional flags out ------------------------------------------------------------
func TestAudioArgsMinimal(t *testing.T) {
	item := &models.DownloadItem{
		URL:              "https://a.com/x",
		AudioPreferences: models.AudioPreferences{SplitByChapters: true},
	}

	args, err := builder.AudioArgs(item, filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"-x", "--split-chapters", "--print", builder.PrintAfterMove, "https://a.com/x"}
	if !slices.Equal(args, want) {
		t.Fatalf("expected %q, got %q", want, args)
	}
}

// TestAudioArgsErrors checks invalid items are rejected --------------------------------------------------------------------
func TestAudioArgsErrors(t *testing.T) {
	if _, err := builder.AudioArgs(nil, ""); err == nil {
		t.Fatal("expected error for nil item")
	}
	if _, err := builder.AudioArgs(&models.DownloadItem{}, ""); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if _, err := builder.AudioArgs(&models.DownloadItem{URL: "https://a.com", ExtraCommands: `"unterminated`}, ""); err == nil {
		t.Fatal("expected error for unbalanced quotes")
	}
}
