package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkLineageSweep    BookmarkType = "lineage_sweep"
	BookmarkBirthBoom       BookmarkType = "birth_boom"
	BookmarkStableForest    BookmarkType = "stable_forest"
)

// Bookmark marks a notable moment in the run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Stable forest thresholds.
const (
	stableWindow     = 4
	stableRunTrigger = 5
	stableMinTrees   = 5
	stableMaxCV2     = 0.04 // squared coefficient of variation, CV < 0.2
)

// BookmarkDetector watches window stats for notable changes.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPeak   int  // peak tree count since the last crash
	extinct      bool // an extinction has been reported and not yet recovered
	swept        bool // a lineage sweep has been reported and not yet broken
	stableWindow int  // consecutive low-variance windows
}

// NewBookmarkDetector creates a detector keeping historySize windows.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindow+1 {
		historySize = stableWindow + 1
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkBirthBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkLineageSweep(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	bd.addToHistory(stats)
	if b := bd.checkStable(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.recentPeak = max(bd.recentPeak, stats.Trees)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	n = min(n, size)
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Trees > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct || bd.recentPeak == 0 {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All trees gone after a peak of %d", bd.recentPeak),
	}
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 || stats.Trees == 0 {
		return nil
	}
	drop := 1.0 - float64(stats.Trees)/float64(bd.recentPeak)
	if drop <= 0.5 || stats.Trees > bd.recentPeak-5 {
		return nil
	}
	oldPeak := bd.recentPeak
	bd.recentPeak = stats.Trees
	return &Bookmark{
		Type:        BookmarkPopulationCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Trees fell %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Trees),
	}
}

func (bd *BookmarkDetector) checkBirthBoom(stats WindowStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}
	total := 0
	for _, h := range history {
		total += h.Births
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 || stats.Births < 5 || float64(stats.Births) < avg*3 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBirthBoom,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d births is %.1fx the average %.1f", stats.Births, float64(stats.Births)/avg, avg),
	}
}

func (bd *BookmarkDetector) checkLineageSweep(stats WindowStats) *Bookmark {
	if stats.ActiveLineages != 1 || stats.Trees < stableMinTrees {
		if stats.ActiveLineages > 1 {
			bd.swept = false
		}
		return nil
	}
	if bd.swept {
		return nil
	}
	bd.swept = true
	return &Bookmark{
		Type:        BookmarkLineageSweep,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("One lineage holds all %d trees at generation %d", stats.Trees, stats.Generation),
	}
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Trees < stableMinTrees {
		bd.stableWindow = 0
		return nil
	}
	window := bd.recent(stableWindow)
	if len(window) < stableWindow {
		return nil
	}

	var sum float64
	for _, h := range window {
		sum += float64(h.Trees)
	}
	mean := sum / float64(len(window))
	var variance float64
	for _, h := range window {
		d := float64(h.Trees) - mean
		variance += d * d
	}
	variance /= float64(len(window))

	if variance/(mean*mean) < stableMaxCV2 {
		bd.stableWindow++
	} else {
		bd.stableWindow = 0
	}
	if bd.stableWindow != stableRunTrigger {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStableForest,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Forest steady near %.0f trees", mean),
	}
}
