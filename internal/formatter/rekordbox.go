// Rekordbox XML export for Pioneer hardware compatibility
//
// Document structure follows the DJ_PLAYLISTS format rekordbox 6 imports.
package formatter

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"autodj/internal/models"
)

type rekordboxProduct struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
	Company string `xml:"Company,attr"`
}

type rekordboxTempo struct {
	Inizio  string `xml:"Inizio,attr"`
	Bpm     string `xml:"Bpm,attr"`
	Metro   string `xml:"Metro,attr"`
	Battito string `xml:"Battito,attr"`
}

type rekordboxTrack struct {
	TrackID    int             `xml:"TrackID,attr"`
	Name       string          `xml:"Name,attr"`
	Artist     string          `xml:"Artist,attr"`
	Composer   string          `xml:"Composer,attr"`
	Album      string          `xml:"Album,attr"`
	Genre      string          `xml:"Genre,attr"`
	Kind       string          `xml:"Kind,attr"`
	TotalTime  int             `xml:"TotalTime,attr"`
	AverageBpm string          `xml:"AverageBpm,attr"`
	DateAdded  string          `xml:"DateAdded,attr"`
	Comments   string          `xml:"Comments,attr"`
	Location   string          `xml:"Location,attr"`
	Tonality   string          `xml:"Tonality,attr"`
	Label      string          `xml:"Label,attr"`
	Tempo      *rekordboxTempo `xml:"TEMPO,omitempty"`
}

type rekordboxCollection struct {
	Entries int              `xml:"Entries,attr"`
	Tracks  []rekordboxTrack `xml:"TRACK"`
}

type rekordboxTrackRef struct {
	Key int `xml:"Key,attr"`
}

type rekordboxPlaylistNode struct {
	Type    string              `xml:"Type,attr"`
	Name    string              `xml:"Name,attr"`
	KeyType string              `xml:"KeyType,attr"`
	Entries int                 `xml:"Entries,attr"`
	Tracks  []rekordboxTrackRef `xml:"TRACK"`
}

type rekordboxRootNode struct {
	Type      string                  `xml:"Type,attr"`
	Name      string                  `xml:"Name,attr"`
	Count     int                     `xml:"Count,attr"`
	Playlists []rekordboxPlaylistNode `xml:"NODE"`
}

type rekordboxPlaylists struct {
	Root rekordboxRootNode `xml:"NODE"`
}

type rekordboxDocument struct {
	XMLName    xml.Name            `xml:"DJ_PLAYLISTS"`
	Version    string              `xml:"Version,attr"`
	Product    rekordboxProduct    `xml:"PRODUCT"`
	Collection rekordboxCollection `xml:"COLLECTION"`
	Playlists  rekordboxPlaylists  `xml:"PLAYLISTS"`
}

// ExportToRekordboxXML converts a Playlist to a DJ_PLAYLISTS XML document.
// Track locations point at the Music folder of the USB layout; TEMPO children
// are emitted only for tracks with a known BPM.
func ExportToRekordboxXML(p *models.Playlist) ([]byte, error) {
	doc := rekordboxDocument{
		Version: "1.0.0",
		Product: rekordboxProduct{Name: "rekordbox", Version: "6.0.0", Company: "Pioneer DJ"},
		Collection: rekordboxCollection{
			Entries: len(p.Entries),
		},
	}

	node := rekordboxPlaylistNode{
		Type:    "1",
		Name:    p.Name,
		KeyType: "0",
		Entries: len(p.Entries),
	}

	for _, entry := range p.Entries {
		c := entry.Candidate

		track := rekordboxTrack{
			TrackID:    entry.Rank,
			Name:       c.Title,
			Artist:     c.Artist,
			Composer:   c.Artist,
			Album:      c.Label,
			Genre:      c.Genre,
			Kind:       "MP3 File",
			TotalTime:  defaultTrackSeconds,
			AverageBpm: formatBPM(c.BPM),
			DateAdded:  p.CreatedAt.Format("2006-01-02"),
			Comments:   fmt.Sprintf("Discovered via %s", firstSource(c)),
			Location:   "file://localhost/" + trackFilePath(c),
			Tonality:   c.Key,
			Label:      c.Label,
		}
		if c.HasBPM() {
			track.Tempo = &rekordboxTempo{
				Inizio:  "0.000",
				Bpm:     formatBPM(c.BPM),
				Metro:   "4/4",
				Battito: "1",
			}
		}

		doc.Collection.Tracks = append(doc.Collection.Tracks, track)
		node.Tracks = append(node.Tracks, rekordboxTrackRef{Key: entry.Rank})
	}

	doc.Playlists.Root = rekordboxRootNode{
		Type:      "0",
		Name:      "ROOT",
		Count:     1,
		Playlists: []rekordboxPlaylistNode{node},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rekordbox XML: %w", err)
	}

	return append([]byte(xml.Header), out...), nil
}

// PioneerExport describes the files written by [WritePioneerExport].
type PioneerExport struct {
	BaseDir       string
	XMLPath       string
	M3UPath       string
	TrackListPath string
	MusicDir      string
}

// WritePioneerExport lays out the USB folder structure a Pioneer player
// expects (PIONEER/rekordbox, Music, Playlists) and writes the rekordbox
// XML, M3U playlist, and track list into it.
func WritePioneerExport(p *models.Playlist, dir string) (*PioneerExport, error) {
	export := &PioneerExport{
		BaseDir:       dir,
		XMLPath:       filepath.Join(dir, "PIONEER", "rekordbox", "rekordbox.xml"),
		M3UPath:       filepath.Join(dir, "Playlists", sanitizeFilename(p.Name)+".m3u"),
		TrackListPath: filepath.Join(dir, sanitizeFilename(p.Name)+"_track_list.txt"),
		MusicDir:      filepath.Join(dir, "Music"),
	}

	for _, folder := range []string{
		filepath.Join(dir, "PIONEER", "rekordbox"),
		export.MusicDir,
		filepath.Join(dir, "Playlists"),
	} {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	xmlData, err := ExportToRekordboxXML(p)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(export.XMLPath, xmlData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write rekordbox XML: %w", err)
	}

	if err := os.WriteFile(export.M3UPath, ExportToM3U(p), 0644); err != nil {
		return nil, fmt.Errorf("failed to write M3U playlist: %w", err)
	}

	if err := os.WriteFile(export.TrackListPath, ExportToTrackList(p), 0644); err != nil {
		return nil, fmt.Errorf("failed to write track list: %w", err)
	}

	return export, nil
}

// formatBPM renders a tempo attribute; unknown tempos fall back to "0.00".
func formatBPM(bpm float64) string {
	if bpm <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(bpm, 'f', 2, 64)
}

func firstSource(c models.Candidate) string {
	if len(c.Provenance) > 0 {
		return c.Provenance[0]
	}
	return "unknown"
}
