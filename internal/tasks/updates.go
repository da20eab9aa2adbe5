package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	DiscoverSources Phase = iota
	NormalizeCandidates
	ScoreCandidates
	DedupeCandidates
	PersistCandidates
	RankCandidates
	AssemblePlaylist
)

func (p Phase) String() string {
	switch p {
	case DiscoverSources:
		return "discover_sources"
	case NormalizeCandidates:
		return "normalize_candidates"
	case ScoreCandidates:
		return "score_candidates"
	case DedupeCandidates:
		return "dedupe_candidates"
	case PersistCandidates:
		return "persist_candidates"
	case RankCandidates:
		return "rank_candidates"
	case AssemblePlaylist:
		return "assemble_playlist"
	default:
		return ""
	}
}

func discoverStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiscoverSources,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Querying %d discovery sources...", total),
	}
}

func sourceDoneUpdate(step, total int, name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiscoverSources,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d candidates)", step, total, name, count),
	}
}

func sourceFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiscoverSources,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func normalizeUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   NormalizeCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Normalizing %d raw candidates...", total),
	}
}

func scoreUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScoreCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scoring %d candidates...", total),
	}
}

func dedupeUpdate(before, after int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DedupeCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Deduplicated %d candidates to %d", before, after),
	}
}

func persistUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saving %d candidates...", total),
	}
}

func rankUpdate(total, target int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RankCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Ranking %d candidates for %d slots...", total, target),
	}
}

func assembleUpdate(name string, selected int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AssemblePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist assembled: %s (%d tracks)", name, selected),
	}
}
