package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehub/core/internal/domain/entities"
)

func TestResolveTaskToleratesDanglingReference(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(entities.Task{ID: "t1", Title: "Meal prep", Status: entities.TaskStatusTodo})
	s.AddMeal(entities.Meal{ID: "m1", Name: "Oatmeal", TaskID: strPtr("t1")})

	task, found := s.ResolveTask(*s.Meals()[0].TaskID)
	require.True(t, found)
	assert.Equal(t, "t1", task.ID)

	require.True(t, s.DeleteTask("t1"))

	// The reference now dangles: resolution reports not found, the meal is
	// untouched.
	_, found = s.ResolveTask("t1")
	assert.False(t, found)
	meals := s.Meals()
	require.Len(t, meals, 1)
	require.NotNil(t, meals[0].TaskID)
	assert.Equal(t, "t1", *meals[0].TaskID)
}

func TestLinkableTasksExcludesDone(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(entities.Task{ID: "t1", Title: "A", Status: entities.TaskStatusTodo})
	s.AddTask(entities.Task{ID: "t2", Title: "B", Status: entities.TaskStatusInProgress})
	s.AddTask(entities.Task{ID: "t3", Title: "C", Status: entities.TaskStatusDone})

	linkable := s.LinkableTasks()
	require.Len(t, linkable, 2)
	assert.Equal(t, "t1", linkable[0].ID)
	assert.Equal(t, "t2", linkable[1].ID)

	// Recomputed on every read: a status change moves the task out.
	require.True(t, s.UpdateTask("t1", Patch{"status": "done"}))
	linkable = s.LinkableTasks()
	require.Len(t, linkable, 1)
	assert.Equal(t, "t2", linkable[0].ID)
}

func TestSubtasksSingleLevel(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(entities.Task{ID: "t1", Title: "Parent", Status: entities.TaskStatusTodo})
	s.AddTask(entities.Task{ID: "t2", Title: "Child", Status: entities.TaskStatusTodo, ParentTaskID: strPtr("t1")})
	s.AddTask(entities.Task{ID: "t3", Title: "Grandchild", Status: entities.TaskStatusTodo, ParentTaskID: strPtr("t2")})

	subtasks := s.SubtasksOf("t1")
	require.Len(t, subtasks, 1)
	assert.Equal(t, "t2", subtasks[0].ID)
}

func TestSubtasksToleratesSelfReference(t *testing.T) {
	s, _ := newTestStore(t)
	// The parent relation is not checked for cycles; a self-reference is
	// stored as-is and the single-level scan cannot loop on it.
	s.AddTask(entities.Task{ID: "t1", Title: "Loop", Status: entities.TaskStatusTodo, ParentTaskID: strPtr("t1")})

	subtasks := s.SubtasksOf("t1")
	require.Len(t, subtasks, 1)
	assert.Equal(t, "t1", subtasks[0].ID)
}

func TestProjectTasksSkipsDanglingIDs(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(entities.Task{ID: "t1", Title: "A", Status: entities.TaskStatusTodo})
	s.AddTask(entities.Task{ID: "t2", Title: "B", Status: entities.TaskStatusTodo})
	s.AddPersonalProject(entities.PersonalProject{ID: "p1", Name: "Spring cleaning", TaskIDs: []string{"t1", "gone", "t2"}})

	tasks, found := s.ProjectTasks("p1")
	require.True(t, found)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, "t2", tasks[1].ID)

	_, found = s.ProjectTasks("missing")
	assert.False(t, found)
}

func TestDeleteProjectLeavesTasksAlone(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(entities.Task{ID: "t1", Title: "A", Status: entities.TaskStatusTodo})
	s.AddPersonalProject(entities.PersonalProject{ID: "p1", Name: "Grouping", TaskIDs: []string{"t1"}})

	require.True(t, s.DeletePersonalProject("p1"))
	assert.Empty(t, s.PersonalProjects())
	assert.Len(t, s.Tasks(), 1)
}
