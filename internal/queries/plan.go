package queries

import (
	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/platforms"
)

// Task is one (platform, journey stage, prompt) call
type Task struct {
	Platform platforms.Info
	Stage    models.JourneyStage
	Query    string
	Region   models.Region
}

// Plan crosses platforms with queries, platform-major, and appends each
// platform's extension prompts after its regular ones
func Plan(targets []platforms.Info, qs []Query, opts Options) []Task {
	tasks := make([]Task, 0, len(targets)*len(qs))
	for _, info := range targets {
		for _, q := range qs {
			tasks = append(tasks, Task{Platform: info, Stage: q.Stage, Query: q.Text, Region: q.Region})
		}
		for _, q := range ExtensionQueries(info.Platform, opts) {
			tasks = append(tasks, Task{Platform: info, Stage: q.Stage, Query: q.Text, Region: q.Region})
		}
	}
	return tasks
}
