package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehub/core/internal/domain/entities"
)

func TestStudyHierarchyBuildUp(t *testing.T) {
	s, _ := newTestStore(t)

	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})

	subjectID, ok := s.AddSubject("a1", entities.Subject{Name: "Algebra"})
	require.True(t, ok)
	require.NotEmpty(t, subjectID)

	classID, ok := s.AddClassSession(subjectID, entities.ClassSession{Title: "Linear Equations"})
	require.True(t, ok)
	require.NotEmpty(t, classID)

	pomodoroID, ok := s.AddPomodoro(classID, entities.PomodoroSession{DurationMinutes: 25})
	require.True(t, ok)
	require.NotEmpty(t, pomodoroID)

	areas := s.StudyAreas()
	require.Len(t, areas, 1)
	require.Len(t, areas[0].Subjects, 1)
	require.Len(t, areas[0].Subjects[0].Classes, 1)
	require.Len(t, areas[0].Subjects[0].Classes[0].Pomodoros, 1)
	assert.Equal(t, 25, areas[0].Subjects[0].Classes[0].Pomodoros[0].DurationMinutes)
}

func TestNestedAddMissIsNoOp(t *testing.T) {
	s, storage := newTestStore(t)
	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	saves := storage.saveCount

	_, ok := s.AddSubject("nope", entities.Subject{Name: "Ghost"})
	assert.False(t, ok)

	_, ok = s.AddClassSession("nope", entities.ClassSession{Title: "Ghost"})
	assert.False(t, ok)

	_, ok = s.AddPomodoro("nope", entities.PomodoroSession{DurationMinutes: 25})
	assert.False(t, ok)

	assert.Equal(t, saves, storage.saveCount)
	assert.Empty(t, s.StudyAreas()[0].Subjects)
}

func TestNestedUpdateAndDelete(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	subjectID, _ := s.AddSubject("a1", entities.Subject{Name: "Algebra"})
	classID, _ := s.AddClassSession(subjectID, entities.ClassSession{Title: "Linear Equations"})

	require.True(t, s.UpdateSubject("a1", subjectID, Patch{"name": "Algebra I"}))
	require.True(t, s.UpdateClassSession(subjectID, classID, Patch{"completed": true}))

	areas := s.StudyAreas()
	assert.Equal(t, "Algebra I", areas[0].Subjects[0].Name)
	assert.True(t, areas[0].Subjects[0].Classes[0].Completed)

	// Wrong parent id degrades to a miss even when the child id exists.
	assert.False(t, s.UpdateSubject("a2", subjectID, Patch{"name": "X"}))
	assert.False(t, s.DeleteClassSession("not-a-subject", classID))

	require.True(t, s.DeleteClassSession(subjectID, classID))
	assert.Empty(t, s.StudyAreas()[0].Subjects[0].Classes)

	require.True(t, s.DeleteSubject("a1", subjectID))
	assert.Empty(t, s.StudyAreas()[0].Subjects)
}

func TestParentPatchCannotReplaceChildren(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	subjectID, _ := s.AddSubject("a1", entities.Subject{Name: "Algebra"})

	require.True(t, s.UpdateStudyArea("a1", Patch{"name": "Maths", "subjects": []any{}}))
	require.True(t, s.UpdateSubject("a1", subjectID, Patch{"classes": []any{}, "name": "Algebra I"}))

	areas := s.StudyAreas()
	assert.Equal(t, "Maths", areas[0].Name)
	require.Len(t, areas[0].Subjects, 1)
	assert.Equal(t, "Algebra I", areas[0].Subjects[0].Name)
}

func TestDeleteStudyAreaCascades(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	subjectID, _ := s.AddSubject("a1", entities.Subject{Name: "Algebra"})
	classID, _ := s.AddClassSession(subjectID, entities.ClassSession{Title: "Linear Equations"})
	_, ok := s.AddPomodoro(classID, entities.PomodoroSession{DurationMinutes: 25})
	require.True(t, ok)

	require.True(t, s.DeleteStudyArea("a1"))
	assert.Empty(t, s.StudyAreas())

	// Descendants went with the area: their ids no longer resolve.
	_, ok = s.AddClassSession(subjectID, entities.ClassSession{Title: "Ghost"})
	assert.False(t, ok)
	_, ok = s.AddPomodoro(classID, entities.PomodoroSession{DurationMinutes: 5})
	assert.False(t, ok)
}

func TestNestedIsolationBetweenSubjects(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	subjectA, _ := s.AddSubject("a1", entities.Subject{Name: "Algebra"})
	subjectB, _ := s.AddSubject("a1", entities.Subject{Name: "Geometry"})

	_, ok := s.AddClassSession(subjectA, entities.ClassSession{Title: "Linear Equations"})
	require.True(t, ok)

	areas := s.StudyAreas()
	require.Len(t, areas[0].Subjects, 2)
	for _, subject := range areas[0].Subjects {
		switch subject.ID {
		case subjectA:
			assert.Len(t, subject.Classes, 1)
		case subjectB:
			assert.Empty(t, subject.Classes)
		}
	}
}

func TestChildIDsUniqueAcrossHierarchy(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddStudyArea(entities.StudyArea{ID: "a1", Name: "Math"})
	s.AddStudyArea(entities.StudyArea{ID: "a2", Name: "History"})

	seen := map[string]bool{}
	for _, areaID := range []string{"a1", "a2"} {
		for i := 0; i < 3; i++ {
			subjectID, ok := s.AddSubject(areaID, entities.Subject{Name: "S"})
			require.True(t, ok)
			assert.False(t, seen[subjectID])
			seen[subjectID] = true

			classID, ok := s.AddClassSession(subjectID, entities.ClassSession{Title: "C"})
			require.True(t, ok)
			assert.False(t, seen[classID])
			seen[classID] = true
		}
	}
}
