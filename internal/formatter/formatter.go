// package formatter provides functions to export playlists to various formats (Rekordbox XML, M3U, plain text, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"strings"

	"autodj/internal/models"
)

// Placeholder duration written into formats that require one; the exported
// tracks have no audio files yet.
const defaultTrackSeconds = 300

// ExportToCSV converts a Playlist to CSV format with columns: Rank, Artist, Title, BPM, Key, Genre, Label, Score, Sources, URL
func ExportToCSV(p *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Artist", "Title", "BPM", "Key", "Genre", "Label", "Score", "Sources", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range p.Entries {
		c := entry.Candidate
		bpm := ""
		if c.HasBPM() {
			bpm = strconv.FormatFloat(c.BPM, 'f', -1, 64)
		}
		record := []string{
			strconv.Itoa(entry.Rank),
			c.Artist,
			c.Title,
			bpm,
			c.Key,
			c.Genre,
			c.Label,
			strconv.FormatFloat(c.Score, 'f', 3, 64),
			strings.Join(c.Provenance, ";"),
			c.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToM3U converts a Playlist to extended M3U format. Entry paths point
// at the Music folder the track files are expected to land in.
func ExportToM3U(p *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	buf.WriteString(fmt.Sprintf("#PLAYLIST:%s\n", p.Name))

	for _, entry := range p.Entries {
		c := entry.Candidate
		buf.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", defaultTrackSeconds, c.Artist, c.Title))
		buf.WriteString(trackFilePath(c) + "\n")
	}

	return buf.Bytes()
}

// ExportToTrackList converts a Playlist to a plain-text listing with metadata
// per track and download instructions, for sourcing the audio manually.
func ExportToTrackList(p *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", p.Name))
	if p.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", p.Description))
	}
	buf.WriteString(fmt.Sprintf("Generated: %s\n", p.CreatedAt.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("Total Tracks: %d\n", len(p.Entries)))
	buf.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, entry := range p.Entries {
		c := entry.Candidate
		buf.WriteString(fmt.Sprintf("%2d. %s - %s\n", entry.Rank, c.Artist, c.Title))

		var details []string
		if c.HasBPM() {
			details = append(details, fmt.Sprintf("BPM: %g", c.BPM))
		}
		if c.Key != "" {
			details = append(details, fmt.Sprintf("Key: %s", c.Key))
		}
		if c.Label != "" {
			details = append(details, fmt.Sprintf("Label: %s", c.Label))
		}
		if len(details) > 0 {
			buf.WriteString("    " + strings.Join(details, " | ") + "\n")
		}
		if c.URL != "" {
			buf.WriteString(fmt.Sprintf("    Source: %s\n", c.URL))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(strings.Repeat("=", 50) + "\n")
	buf.WriteString("Instructions:\n")
	buf.WriteString("1. Download tracks from Beatport or other sources\n")
	buf.WriteString("2. Name files as: 'Artist - Title.mp3'\n")
	buf.WriteString("3. Place in the 'Music' folder\n")
	buf.WriteString("4. Import rekordbox.xml into Rekordbox\n")
	buf.WriteString("5. Sync to USB for the player\n")

	return buf.Bytes()
}

// trackFilePath returns the relative Music-folder path a track's audio file
// is expected at once downloaded.
func trackFilePath(c models.Candidate) string {
	filename := fmt.Sprintf("%s - %s.mp3", sanitizeFilename(c.Artist), sanitizeFilename(c.Title))
	return path.Join("Music", filename)
}

// sanitizeFilename strips filesystem-hostile characters and bounds length.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"<", "_", ">", "_", ":", "_", "\"", "_", "/", "_",
		"\\", "_", "|", "_", "?", "_", "*", "_",
	)
	name = replacer.Replace(name)
	if len(name) > 50 {
		name = name[:50]
	}
	return strings.TrimSpace(name)
}
