package cliutil

import (
	"fmt"
	"io"

	"github.com/yarlson/mont/internal/model"
)

// Renderer draws tasks and their graph to a terminal. Out of core scope
// per the engine's design; declared as a seam the core calls through.
type Renderer interface {
	RenderTask(w io.Writer, task *model.Task) error
	RenderList(w io.Writer, tasks []*model.Task) error
}

// PlainRenderer is a minimal line-oriented implementation sufficient to
// exercise the seam from cmd/mont without a real terminal UI library.
type PlainRenderer struct{}

func (PlainRenderer) RenderTask(w io.Writer, task *model.Task) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", task.ID, task.Kind, task.Title)
	return err
}

func (p PlainRenderer) RenderList(w io.Writer, tasks []*model.Task) error {
	for _, task := range tasks {
		if err := p.RenderTask(w, task); err != nil {
			return err
		}
	}
	return nil
}
