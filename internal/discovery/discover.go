package discovery

import (
	"bufio"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pommerman/eventstats/internal/dataset"
	"github.com/spf13/afero"
)

// Discover reads every run directory under root and the game logs inside it.
// Directories whose names do not decode are skipped with a warning; files
// without the events suffix are ignored. A game log that cannot be read is
// kept with its ReadErr set so the builder reports it. Games are ordered by
// seed, then instance.
func Discover(fs afero.Fs, root string, logger *slog.Logger) ([]dataset.RunLogs, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to read log root %s: %w", root, err)
	}

	var runs []dataset.RunLogs
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfg, err := ParseRunDirName(entry.Name())
		if err != nil {
			logger.Warn("Skipping run directory", "dir", entry.Name(), "error", err)
			continue
		}

		dir := filepath.Join(root, entry.Name())
		games, err := readGames(fs, dir, logger)
		if err != nil {
			return nil, err
		}
		runs = append(runs, dataset.RunLogs{Config: cfg, Games: games})
		logger.Debug("Discovered run", "dir", entry.Name(), "config", cfg.String(), "games", len(games))
	}
	return runs, nil
}

func readGames(fs afero.Fs, dir string, logger *slog.Logger) ([]dataset.GameSource, error) {
	files, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read run directory %s: %w", dir, err)
	}

	var games []dataset.GameSource
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), GameFileSuffix) {
			continue
		}
		id, err := ParseGameFileName(f.Name())
		if err != nil {
			logger.Warn("Skipping game file", "file", f.Name(), "error", err)
			continue
		}

		path := filepath.Join(dir, f.Name())
		lines, err := ReadLines(fs, path)
		if err != nil {
			logger.Warn("Failed to read game log", "file", path, "error", err)
			games = append(games, dataset.GameSource{Identity: id, Source: path, ReadErr: err})
			continue
		}
		games = append(games, dataset.GameSource{Identity: id, Source: path, Lines: lines})
	}

	sort.Slice(games, func(i, j int) bool {
		a, b := games[i].Identity, games[j].Identity
		if a.Seed != b.Seed {
			return a.Seed < b.Seed
		}
		return a.Instance < b.Instance
	})
	return games, nil
}

// ReadLines returns the lines of a log file with line endings stripped.
func ReadLines(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
