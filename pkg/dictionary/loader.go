package dictionary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/bastiangx/rhymeserve/internal/logger"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// SourceInfo describes one dictionary found in the data directory. A dictionary is known by the
// base name shared by its source and its cached index.
type SourceInfo struct {
	Name   string
	Format FileFormat // format the dictionary will be loaded from
	Index  string     // path of the cached index, empty if none
	Source string     // path of the word source, empty if none
}

// Path returns the file the dictionary will be loaded from.
func (s SourceInfo) Path() string {
	if s.Format == FormatIndex {
		return s.Index
	}
	return s.Source
}

// LoaderOptions controls how sources are turned into indexes.
type LoaderOptions struct {
	Validate bool // run Validate on every index read from disk
	Compress bool // zstd-compress index files written by the loader
	NoCache  bool // never write index files next to sources
	Parallel int  // concurrent loads, 0 means GOMAXPROCS
}

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	Available int
	Loaded    int
	Built     int // loaded from a word source rather than an index file
	Failed    int
	Entries   int
}

// Loader finds dictionaries in a directory and loads them into a Registry.
type Loader struct {
	dirPath string
	opts    LoaderOptions
	logger  *log.Logger
}

// NewLoader creates a loader for the dictionaries in dirPath
func NewLoader(dirPath string, opts LoaderOptions) *Loader {
	if opts.Parallel <= 0 {
		opts.Parallel = runtime.GOMAXPROCS(0)
	}
	return &Loader{
		dirPath: dirPath,
		opts:    opts,
		logger:  logger.New("dict"),
	}
}

// GetAvailable scans the directory for dictionaries. An index file is preferred over its source
// unless the source was modified after the index was written.
func (l *Loader) GetAvailable() ([]SourceInfo, error) {
	entries, err := os.ReadDir(l.dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan dictionary dir %s: %w", l.dirPath, err)
	}

	found := make(map[string]*SourceInfo)
	get := func(name string) *SourceInfo {
		info, ok := found[name]
		if !ok {
			info = &SourceInfo{Name: name}
			found[name] = info
		}
		return info
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		ext := strings.ToLower(filepath.Ext(file))
		name := strings.TrimSuffix(file, filepath.Ext(file))
		path := filepath.Join(l.dirPath, file)
		switch {
		case ext == IndexExt:
			get(name).Index = path
		case slices.Contains(supportedFormats[FormatSource].Extensions, ext):
			info := get(name)
			// .tsv wins over .txt
			if info.Source == "" || ext == SourceExt {
				info.Source = path
			}
		}
	}

	sources := make([]SourceInfo, 0, len(found))
	for _, info := range found {
		info.Format = FormatIndex
		if info.Index == "" || (info.Source != "" && isNewer(info.Source, info.Index)) {
			info.Format = FormatSource
		}
		sources = append(sources, *info)
	}
	slices.SortFunc(sources, func(a, b SourceInfo) int { return strings.Compare(a.Name, b.Name) })
	return sources, nil
}

func isNewer(a, b string) bool {
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return true
	}
	return sa.ModTime().After(sb.ModTime())
}

// Load reads one dictionary. Dictionaries loaded from a word source get their index file written
// alongside unless caching is off; failing to write it is logged, not returned.
func (l *Loader) Load(info SourceInfo) (*Index, error) {
	if info.Format == FormatIndex {
		return LoadIndex(info.Index, l.opts.Validate)
	}

	if err := ValidateFileFormat(info.Source, FormatSource); err != nil {
		return nil, err
	}
	idx, stats, err := BuildFiles(info.Source)
	if err != nil {
		return nil, err
	}
	if stats.Rejected > 0 {
		l.logger.Warnf("%s: rejected %d of %d lines", info.Name, stats.Rejected, stats.Lines)
	}
	l.logger.Debugf("Built %s from %s: %d entries", info.Name, info.Source, idx.Len())

	if !l.opts.NoCache {
		cache := filepath.Join(filepath.Dir(info.Source), info.Name+IndexExt)
		if err := SaveIndex(cache, idx, l.opts.Compress); err != nil {
			l.logger.Warnf("Could not cache index for %s: %v", info.Name, err)
		}
	}
	return idx, nil
}

// LoadAll loads every available dictionary concurrently and registers it in reg. A dictionary
// that fails to load is logged and skipped; only cancellation of ctx aborts the whole load.
func (l *Loader) LoadAll(ctx context.Context, reg *Registry) (LoaderStats, error) {
	sources, err := l.GetAvailable()
	if err != nil {
		return LoaderStats{}, err
	}
	if len(sources) == 0 {
		return LoaderStats{}, fmt.Errorf("no dictionaries found in %s", l.dirPath)
	}
	l.logger.Debugf("Found %d dictionaries", len(sources))

	stats := LoaderStats{Available: len(sources)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Parallel)
	for _, info := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx, err := l.Load(info)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.logger.Errorf("Failed to load %s: %v", info.Name, err)
				stats.Failed++
				return nil
			}
			reg.Add(info.Name, info.Path(), idx)
			stats.Loaded++
			stats.Entries += idx.Len()
			if info.Format == FormatSource {
				stats.Built++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	if stats.Loaded == 0 {
		return stats, fmt.Errorf("none of the %d dictionaries in %s could be loaded", stats.Available, l.dirPath)
	}
	return stats, nil
}

// Reload loads the named dictionary again and replaces it in reg.
func (l *Loader) Reload(name string, reg *Registry) error {
	sources, err := l.GetAvailable()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(sources, func(s SourceInfo) bool { return s.Name == name })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	idx, err := l.Load(sources[i])
	if err != nil {
		return err
	}
	reg.Add(name, sources[i].Path(), idx)
	return nil
}
