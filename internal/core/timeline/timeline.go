// Package timeline projects a task list into ordered, resource-colored
// intervals for display.
package timeline

import (
	"time"

	"github.com/colonyops/gantt/internal/core/schedule"
)

// Bar is one task interval.
type Bar struct {
	Task     string    `json:"task"`
	Start    time.Time `json:"start"`
	Finish   time.Time `json:"finish"`
	Resource string    `json:"resource"`
	Color    string    `json:"color"`
}

// Days returns the bar length in days.
func (b Bar) Days() int {
	return schedule.DaysBetween(b.Start, b.Finish)
}

// View is the timeline for one task list. Bars run top to bottom in
// reverse list order, so the last listed task is drawn first. Start and
// Finish bound every bar; both are zero when there are no bars.
type View struct {
	Bars   []Bar     `json:"bars"`
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"`
}

// Span returns the number of days covered by the view.
func (v View) Span() int {
	if len(v.Bars) == 0 {
		return 0
	}
	return schedule.DaysBetween(v.Start, v.Finish)
}

// Projector builds views. It owns the resource color mapping, so one
// projector should live as long as the process to keep colors stable.
type Projector struct {
	colors *ColorAssigner
}

// NewProjector returns a projector coloring resources from palette.
func NewProjector(palette Palette) (*Projector, error) {
	colors, err := NewColorAssigner(palette)
	if err != nil {
		return nil, err
	}
	return &Projector{colors: colors}, nil
}

// Colors exposes the projector's color mapping.
func (p *Projector) Colors() *ColorAssigner {
	return p.colors
}

// Project rebuilds the view from scratch. Colors are assigned walking the
// list in its own order so the first listed resource gets the first color.
func (p *Projector) Project(tasks schedule.TaskList) (View, error) {
	if p == nil || p.colors == nil {
		return View{}, ErrEmptyResourcePalette
	}

	bars := make([]Bar, len(tasks))
	var view View
	for i, t := range tasks {
		color, err := p.colors.Color(t.Resource)
		if err != nil {
			return View{}, err
		}

		bars[len(tasks)-1-i] = Bar{
			Task:     t.Name,
			Start:    t.Start,
			Finish:   t.Finish,
			Resource: t.Resource,
			Color:    color,
		}

		if i == 0 || t.Start.Before(view.Start) {
			view.Start = t.Start
		}
		if i == 0 || t.Finish.After(view.Finish) {
			view.Finish = t.Finish
		}
	}

	view.Bars = bars
	return view, nil
}
