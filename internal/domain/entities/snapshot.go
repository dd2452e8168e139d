package entities

// Snapshot holds the complete state of every collection. It is exactly what
// gets persisted: one JSON object with one key per collection plus the
// emergency-reserve singleton. There is no versioning field and no delta
// form; every save re-serializes the whole thing.
type Snapshot struct {
	Meals             []Meal             `json:"meals"`
	Workouts          []Workout          `json:"workouts"`
	SleepRecords      []SleepRecord      `json:"sleep_records"`
	HealthGoals       []HealthGoal       `json:"health_goals"`
	Transactions      []Transaction      `json:"transactions"`
	FinancialGoals    []FinancialGoal    `json:"financial_goals"`
	EmergencyReserve  *EmergencyReserve  `json:"emergency_reserve"`
	Investments       []Investment       `json:"investments"`
	Tasks             []Task             `json:"tasks"`
	StudyAreas        []StudyArea        `json:"study_areas"`
	PersonalProjects  []PersonalProject  `json:"personal_projects"`
	ProductivityGoals []ProductivityGoal `json:"productivity_goals"`
	AttractionGoals   []AttractionGoal   `json:"attraction_goals"`
	Notifications     []Notification     `json:"notifications"`
}

// NewSnapshot returns the fresh-install state: every collection empty, no
// emergency reserve.
func NewSnapshot() Snapshot {
	return Snapshot{
		Meals:             []Meal{},
		Workouts:          []Workout{},
		SleepRecords:      []SleepRecord{},
		HealthGoals:       []HealthGoal{},
		Transactions:      []Transaction{},
		FinancialGoals:    []FinancialGoal{},
		Investments:       []Investment{},
		Tasks:             []Task{},
		StudyAreas:        []StudyArea{},
		PersonalProjects:  []PersonalProject{},
		ProductivityGoals: []ProductivityGoal{},
		AttractionGoals:   []AttractionGoal{},
		Notifications:     []Notification{},
	}
}

// Clone returns a deep copy of the snapshot. Flat entity values copy with the
// slice; the study tree and the project grouping lists need their nested
// slices duplicated so readers never alias store-owned memory.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Meals = append([]Meal(nil), s.Meals...)
	out.Workouts = append([]Workout(nil), s.Workouts...)
	out.SleepRecords = append([]SleepRecord(nil), s.SleepRecords...)
	out.HealthGoals = append([]HealthGoal(nil), s.HealthGoals...)
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	out.FinancialGoals = append([]FinancialGoal(nil), s.FinancialGoals...)
	out.Investments = append([]Investment(nil), s.Investments...)
	out.Tasks = append([]Task(nil), s.Tasks...)
	out.StudyAreas = CloneStudyAreas(s.StudyAreas)
	out.PersonalProjects = append([]PersonalProject(nil), s.PersonalProjects...)
	for i, p := range out.PersonalProjects {
		out.PersonalProjects[i].TaskIDs = append([]string(nil), p.TaskIDs...)
	}
	out.ProductivityGoals = append([]ProductivityGoal(nil), s.ProductivityGoals...)
	out.AttractionGoals = append([]AttractionGoal(nil), s.AttractionGoals...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	if s.EmergencyReserve != nil {
		r := *s.EmergencyReserve
		out.EmergencyReserve = &r
	}
	return out
}

// CloneStudyAreas deep-copies the full study hierarchy.
func CloneStudyAreas(areas []StudyArea) []StudyArea {
	out := append([]StudyArea(nil), areas...)
	for i, area := range out {
		out[i].Subjects = append([]Subject(nil), area.Subjects...)
		for j, subject := range out[i].Subjects {
			out[i].Subjects[j].Classes = append([]ClassSession(nil), subject.Classes...)
			for k, class := range out[i].Subjects[j].Classes {
				out[i].Subjects[j].Classes[k].Pomodoros = append([]PomodoroSession(nil), class.Pomodoros...)
			}
		}
	}
	return out
}
