package store

import (
	"github.com/google/uuid"

	"github.com/lifehub/core/internal/domain/entities"
)

// The study hierarchy (area -> subject -> class -> pomodoro) is stored inline
// in the StudyArea tree, so deleting an ancestor removes every descendant
// structurally and nothing can orphan. Subject and class ids are assigned
// here with uuids, which makes them unique across the whole hierarchy; the
// id -> path index then lets class and pomodoro operations resolve their
// parent from the child-collection id alone.
//
// Structural children ("subjects", "classes", "pomodoros") are managed only
// through their own operations; patches on a parent never touch them.

// rebuildIndexLocked regenerates the id -> path index from the tree.
// Caller must hold s.mu.
func (s *Store) rebuildIndexLocked() {
	s.subjectIndex = make(map[string]string)
	s.classIndex = make(map[string]classPath)
	for _, area := range s.state.StudyAreas {
		for _, subject := range area.Subjects {
			s.subjectIndex[subject.ID] = area.ID
			for _, class := range subject.Classes {
				s.classIndex[class.ID] = classPath{areaID: area.ID, subjectID: subject.ID}
			}
		}
	}
}

func (s *Store) areaAt(areaID string) *entities.StudyArea {
	for i := range s.state.StudyAreas {
		if s.state.StudyAreas[i].ID == areaID {
			return &s.state.StudyAreas[i]
		}
	}
	return nil
}

func subjectAt(area *entities.StudyArea, subjectID string) *entities.Subject {
	for i := range area.Subjects {
		if area.Subjects[i].ID == subjectID {
			return &area.Subjects[i]
		}
	}
	return nil
}

func classAt(subject *entities.Subject, classID string) *entities.ClassSession {
	for i := range subject.Classes {
		if subject.Classes[i].ID == classID {
			return &subject.Classes[i]
		}
	}
	return nil
}

// Study areas (flat collection semantics)

func (s *Store) AddStudyArea(area entities.StudyArea) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if area.Subjects == nil {
		area.Subjects = []entities.Subject{}
	}
	s.state.StudyAreas = append(s.state.StudyAreas, area)
	s.rebuildIndexLocked()
	s.logger.LogStoreMutation("study_areas", "add", area.ID, true)
	s.persistLocked()
}

func (s *Store) UpdateStudyArea(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(patch, "subjects")
	ok := patchByID(s.state.StudyAreas, id, func(a entities.StudyArea) string { return a.ID }, patch)
	s.logger.LogStoreMutation("study_areas", "update", id, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

// DeleteStudyArea cascades: the area's subjects, their classes and those
// classes' pomodoros all live inside the area and go with it.
func (s *Store) DeleteStudyArea(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.state.StudyAreas, ok = deleteByID(s.state.StudyAreas, id, func(a entities.StudyArea) string { return a.ID })
	s.logger.LogStoreMutation("study_areas", "delete", id, ok)
	if ok {
		s.rebuildIndexLocked()
		s.persistLocked()
	}
	return ok
}

func (s *Store) StudyAreas() []entities.StudyArea {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.CloneStudyAreas(s.state.StudyAreas)
}

// Subjects

// AddSubject appends a subject under the area, assigning it a fresh id. The
// subject starts with no classes regardless of the fields passed in; classes
// are added through their own operation. Returns the assigned id and whether
// the area was found.
func (s *Store) AddSubject(areaID string, subject entities.Subject) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	area := s.areaAt(areaID)
	if area == nil {
		s.logger.LogStoreMutation("subjects", "add", areaID, false)
		return "", false
	}
	subject.ID = uuid.NewString()
	subject.Classes = []entities.ClassSession{}
	area.Subjects = append(area.Subjects, subject)
	s.subjectIndex[subject.ID] = area.ID
	s.logger.LogStoreMutation("subjects", "add", subject.ID, true)
	s.persistLocked()
	return subject.ID, true
}

func (s *Store) UpdateSubject(areaID, subjectID string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := false
	if area := s.areaAt(areaID); area != nil {
		delete(patch, "classes")
		ok = patchByID(area.Subjects, subjectID, func(sub entities.Subject) string { return sub.ID }, patch)
	}
	s.logger.LogStoreMutation("subjects", "update", subjectID, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteSubject(areaID, subjectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := false
	if area := s.areaAt(areaID); area != nil {
		area.Subjects, ok = deleteByID(area.Subjects, subjectID, func(sub entities.Subject) string { return sub.ID })
	}
	s.logger.LogStoreMutation("subjects", "delete", subjectID, ok)
	if ok {
		s.rebuildIndexLocked()
		s.persistLocked()
	}
	return ok
}

// Class sessions

// AddClassSession appends a class under the subject, located by subject id
// alone via the index. Returns the assigned id and whether the subject was
// found.
func (s *Store) AddClassSession(subjectID string, class entities.ClassSession) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	area := s.areaAt(s.subjectIndex[subjectID])
	if area == nil {
		s.logger.LogStoreMutation("classes", "add", subjectID, false)
		return "", false
	}
	subject := subjectAt(area, subjectID)
	if subject == nil {
		s.logger.LogStoreMutation("classes", "add", subjectID, false)
		return "", false
	}
	class.ID = uuid.NewString()
	class.Pomodoros = []entities.PomodoroSession{}
	subject.Classes = append(subject.Classes, class)
	s.classIndex[class.ID] = classPath{areaID: area.ID, subjectID: subject.ID}
	s.logger.LogStoreMutation("classes", "add", class.ID, true)
	s.persistLocked()
	return class.ID, true
}

func (s *Store) UpdateClassSession(subjectID, classID string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := false
	if area := s.areaAt(s.subjectIndex[subjectID]); area != nil {
		if subject := subjectAt(area, subjectID); subject != nil {
			delete(patch, "pomodoros")
			ok = patchByID(subject.Classes, classID, func(c entities.ClassSession) string { return c.ID }, patch)
		}
	}
	s.logger.LogStoreMutation("classes", "update", classID, ok)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) DeleteClassSession(subjectID, classID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := false
	if area := s.areaAt(s.subjectIndex[subjectID]); area != nil {
		if subject := subjectAt(area, subjectID); subject != nil {
			subject.Classes, ok = deleteByID(subject.Classes, classID, func(c entities.ClassSession) string { return c.ID })
		}
	}
	s.logger.LogStoreMutation("classes", "delete", classID, ok)
	if ok {
		s.rebuildIndexLocked()
		s.persistLocked()
	}
	return ok
}

// Pomodoro sessions

// AddPomodoro appends a pomodoro under the class, located by class id alone
// via the index. Returns the assigned id and whether the class was found.
func (s *Store) AddPomodoro(classID string, pomodoro entities.PomodoroSession) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, found := s.classIndex[classID]
	if !found {
		s.logger.LogStoreMutation("pomodoros", "add", classID, false)
		return "", false
	}
	area := s.areaAt(path.areaID)
	if area == nil {
		s.logger.LogStoreMutation("pomodoros", "add", classID, false)
		return "", false
	}
	subject := subjectAt(area, path.subjectID)
	if subject == nil {
		s.logger.LogStoreMutation("pomodoros", "add", classID, false)
		return "", false
	}
	class := classAt(subject, classID)
	if class == nil {
		s.logger.LogStoreMutation("pomodoros", "add", classID, false)
		return "", false
	}
	pomodoro.ID = uuid.NewString()
	class.Pomodoros = append(class.Pomodoros, pomodoro)
	s.logger.LogStoreMutation("pomodoros", "add", pomodoro.ID, true)
	s.persistLocked()
	return pomodoro.ID, true
}
