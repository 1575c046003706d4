package task

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// idPrefixRe matches the numeric ID prefix of a task filename.
var idPrefixRe = regexp.MustCompile(`^(\d+)-`)

// FindByID returns the path of the task file whose numeric prefix equals id.
func FindByID(tasksDir string, id int) (string, error) {
	names, err := taskFiles(tasksDir)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if got, err := ExtractIDFromFilename(name); err == nil && got == id {
			return filepath.Join(tasksDir, name), nil
		}
	}
	return "", clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}

// ReadAll reads every task file, failing on the first malformed one.
func ReadAll(tasksDir string) ([]*Task, error) {
	tasks, warnings, err := ReadAllLenient(tasksDir)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		return nil, fmt.Errorf("reading %s: %w", warnings[0].File, warnings[0].Err)
	}
	return tasks, nil
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all task files, skipping malformed files instead of aborting.
func ReadAllLenient(tasksDir string) ([]*Task, []ReadWarning, error) {
	names, err := taskFiles(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var tasks []*Task
	var warnings []ReadWarning
	for _, name := range names {
		t, readErr := Read(filepath.Join(tasksDir, name))
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: name, Err: readErr})
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, warnings, nil
}

func taskFiles(tasksDir string) ([]string, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// ExtractIDFromFilename extracts the numeric ID from a task filename.
func ExtractIDFromFilename(filename string) (int, error) {
	matches := idPrefixRe.FindStringSubmatch(filename)
	if len(matches) < 2 { //nolint:mnd // regex capture group
		return 0, fmt.Errorf("cannot extract ID from filename %q", filename)
	}
	return strconv.Atoi(matches[1])
}
