package store

import (
	"github.com/lifehub/core/internal/domain/entities"
)

// Weak task references: entities across unrelated domains carry an optional
// task id that is a lookup key, not an ownership relation. Dangling values
// are normal (the task was deleted) and resolve to "not found".

// ResolveTask looks up a task by id for display purposes. Never mutates
// either side.
func (s *Store) ResolveTask(taskID string) (entities.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range s.state.Tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return entities.Task{}, false
}

// LinkableTasks returns the tasks a link-picker may offer: everything not yet
// done. Recomputed on every call since task status can change at any time.
func (s *Store) LinkableTasks() []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	linkable := []entities.Task{}
	for _, task := range s.state.Tasks {
		if task.IsLinkable() {
			linkable = append(linkable, task)
		}
	}
	return linkable
}

// SubtasksOf returns the tasks whose parent reference points at the given
// task. Single-level: the parent chain is never walked, so a cyclic parent
// reference cannot loop here.
func (s *Store) SubtasksOf(taskID string) []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtasks := []entities.Task{}
	for _, task := range s.state.Tasks {
		if task.ParentTaskID != nil && *task.ParentTaskID == taskID {
			subtasks = append(subtasks, task)
		}
	}
	return subtasks
}

// ProjectTasks resolves a project's grouping list to the tasks that still
// exist, skipping dangling ids. Returns false if the project itself is
// unknown.
func (s *Store) ProjectTasks(projectID string) ([]entities.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var project *entities.PersonalProject
	for i := range s.state.PersonalProjects {
		if s.state.PersonalProjects[i].ID == projectID {
			project = &s.state.PersonalProjects[i]
			break
		}
	}
	if project == nil {
		return nil, false
	}

	byID := make(map[string]entities.Task, len(s.state.Tasks))
	for _, task := range s.state.Tasks {
		byID[task.ID] = task
	}

	tasks := []entities.Task{}
	for _, id := range project.TaskIDs {
		if task, found := byID[id]; found {
			tasks = append(tasks, task)
		}
	}
	return tasks, true
}
