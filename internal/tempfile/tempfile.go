// Package tempfile creates and parses the scratch files the multi-task
// editor round-trips through an external editor: a ULID-prefixed file in
// the system temp directory holding an optional instruction comment
// followed by one or more serialized tasks.
package tempfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/yarlson/mont/internal/codec"
	"github.com/yarlson/mont/internal/model"
)

// Mode selects which instruction comment Instructions builds.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	ModeCreateWithType
)

// Make writes a new temp file named <ULID>_<suffix>.md in the system temp
// directory, containing an optional "# "-prefixed comment block followed
// by tasks serialized with a blank line between each, and returns its path.
func Make(suffix string, tasks []*model.Task, comment string) (string, error) {
	filename := fmt.Sprintf("%s_%s.md", ulid.Make().String(), suffix)
	path := filepath.Join(os.TempDir(), filename)

	var b strings.Builder
	if comment != "" {
		for _, line := range strings.Split(comment, "\n") {
			b.WriteString("# ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	for i, task := range tasks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.Write(codec.Serialize(task))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write temp file %s: %w", path, err)
	}

	return path, nil
}

// Parse reads path and parses its content as a multi-task file.
func Parse(path string) ([]*model.Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read temp file %s: %w", path, err)
	}
	return ParseContent(string(content))
}

// ParseContent splits content into individual task blocks: content before
// the first "---" line is ignored (so an instruction comment can precede
// the tasks); an odd-numbered "---" line opens a new task's frontmatter
// and flushes any task accumulated so far, an even-numbered one closes it.
// Every "---" line counts, including one inside a description, which
// therefore opens a new block. A trailing block whose frontmatter is never
// closed is ignored.
func ParseContent(content string) ([]*model.Task, error) {
	var tasks []*model.Task
	var current strings.Builder
	delimiterCount := 0

	flush := func() error {
		if current.Len() == 0 {
			return nil
		}
		task, err := codec.Parse(current.String())
		if err != nil {
			return err
		}
		tasks = append(tasks, task)
		current.Reset()
		return nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "---" {
			delimiterCount++
			if delimiterCount%2 == 1 {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			current.WriteString(line)
			current.WriteByte('\n')
			continue
		}

		if delimiterCount > 0 {
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}

	if delimiterCount > 0 && delimiterCount%2 == 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

// Discover lists files in the system temp directory whose name ends with
// "_<suffix>.md", sorted by filename descending (newest ULID first).
func Discover(suffix string) []string {
	tempDir := os.TempDir()
	pattern := "_" + suffix + ".md"

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), pattern) {
			files = append(files, filepath.Join(tempDir, entry.Name()))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files
}

// MostRecent returns the newest temp file matching suffix, or "" if none
// exist.
func MostRecent(suffix string) string {
	files := Discover(suffix)
	if len(files) == 0 {
		return ""
	}
	return files[0]
}

// Instructions builds the comment header shown above the editable tasks
// for the given mode. kind is only consulted when mode is
// ModeCreateWithType.
func Instructions(mode Mode, kind model.Kind) string {
	switch mode {
	case ModeCreate:
		return `Create tasks below. Each task starts with --- and ends with ---
Every task needs an id: field.

Example:
---
id: my-task
title: My Task Title
after:
  - dependency-task
---
Task description here.`
	case ModeEdit:
		return `Edit tasks below. Each task starts with --- and ends with ---
- Change any field to update
- To rename: add new_id: new-name (keeps references)
- Delete a task block to delete it
- Add new task blocks to create new tasks
- Every task needs an id: field`
	case ModeCreateWithType:
		typeStr := string(kind)
		return fmt.Sprintf(`Create %s tasks below. Each task starts with --- and ends with ---
Every task needs an id: field.

Example:
---
id: my-%s
title: My %s Title
type: %s
---
Description here.`, typeStr, typeStr, strings.ToUpper(typeStr), typeStr)
	default:
		return ""
	}
}
