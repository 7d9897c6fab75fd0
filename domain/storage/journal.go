package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
)

// JournalName is the write-ahead record kept in the save directory while a
// replacement is in progress.
const JournalName = ".captol-journal.json"

// ErrCommitIncomplete is returned when a replacement failed after it started
// changing files. Its journal stays on disk until RecoverJournal completes it.
var ErrCommitIncomplete = errors.New("storage: replacement incomplete")

// tempRe matches the temporary names produced by writeTemp, e.g. ".12.png.123456.tmp".
var tempRe = regexp.MustCompile(`^\.\d+\.[A-Za-z0-9]+\.[^.]+\.tmp$`)

// Journal describes one pending replacement: delete Remove, then move Temp
// onto Target. Target is never listed in Remove.
type Journal struct {
	Remove []string `json:"remove"`
	Temp   string   `json:"temp"`
	Target string   `json:"target"`
}

// ReplaceImages removes the files in remove and stores img at target as one
// commit. The new image is encoded first and a journal is written before any
// file is touched; an interrupted commit is finished by RecoverJournal.
func ReplaceImages(remove []string, target string, img image.Image) error {
	dir := filepath.Dir(target)
	tmp, err := writeTemp(target, img)
	if err != nil {
		return err
	}
	j := Journal{Temp: tmp, Target: target}
	for _, p := range remove {
		if filepath.Clean(p) != filepath.Clean(target) {
			j.Remove = append(j.Remove, p)
		}
	}
	if err := writeJournal(dir, j); err != nil {
		os.Remove(tmp)
		return err
	}
	touched, err := j.apply(dir)
	if err == nil {
		return nil
	}
	if touched {
		return fmt.Errorf("%w: %w", ErrCommitIncomplete, err)
	}
	// nothing changed yet: drop the commit so it is not replayed later
	if rerr := Remove(filepath.Join(dir, JournalName)); rerr != nil {
		return fmt.Errorf("%w: %w (rollback: %w)", ErrCommitIncomplete, err, rerr)
	}
	os.Remove(tmp)
	return err
}

// RecoverJournal completes a replacement interrupted by a crash. It reports
// whether a journal was found and stray temporary images are removed either way.
func RecoverJournal(dir string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, JournalName))
	if errors.Is(err, os.ErrNotExist) {
		return false, removeStrayTemps(dir)
	}
	if err != nil {
		return false, fmt.Errorf("storage: read journal: %w", err)
	}
	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		// A torn journal means the commit never started touching files.
		if rerr := os.Remove(filepath.Join(dir, JournalName)); rerr != nil {
			return true, fmt.Errorf("storage: drop corrupt journal: %w", rerr)
		}
		return true, removeStrayTemps(dir)
	}
	if _, err := j.apply(dir); err != nil {
		return true, err
	}
	return true, removeStrayTemps(dir)
}

// apply is idempotent: a missing temp file means the rename already happened.
// touched reports whether any file was removed or renamed before a failure.
func (j Journal) apply(dir string) (touched bool, err error) {
	for _, p := range j.Remove {
		if _, serr := os.Lstat(p); serr != nil {
			continue
		}
		if err := Remove(p); err != nil {
			return touched, err
		}
		touched = true
	}
	if _, err := os.Stat(j.Temp); err == nil {
		if err := os.Rename(j.Temp, j.Target); err != nil {
			return touched, fmt.Errorf("storage: rename %s: %w", j.Target, err)
		}
		touched = true
	}
	return touched, Remove(filepath.Join(dir, JournalName))
}

func writeJournal(dir string, j Journal) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("storage: encode journal: %w", err)
	}
	path := filepath.Join(dir, JournalName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write journal: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storage: commit journal: %w", err)
	}
	return nil
}

func removeStrayTemps(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("storage: scan %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (name != JournalName+".tmp" && !tempRe.MatchString(name)) {
			continue
		}
		if err := Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
