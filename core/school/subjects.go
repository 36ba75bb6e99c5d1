package school

// Subject ids
const (
	SubjectMath         = "math"
	SubjectBiology      = "biology"
	SubjectBible        = "bible"
	SubjectReading      = "reading"
	SubjectTexasHistory = "texas-history"
	SubjectHealth       = "health"
)

type Subject struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Icon       string      `json:"icon"`
	Color      string      `json:"color"`
	Curriculum *Curriculum `json:"curriculum,omitempty"`
}

// Subjects is the fixed, read-only subject catalogue.
var Subjects = []Subject{
	{ID: SubjectMath, Name: "Math", Icon: "Calculator", Color: "oklch(0.55 0.18 250)", Curriculum: mustLoadCurriculum("math")},
	{ID: SubjectBiology, Name: "Biology", Icon: "Flask", Color: "oklch(0.55 0.18 150)", Curriculum: mustLoadCurriculum("biology")},
	{ID: SubjectBible, Name: "Bible", Icon: "BookBookmark", Color: "oklch(0.50 0.15 300)"},
	{ID: SubjectReading, Name: "Reading", Icon: "BookOpen", Color: "oklch(0.55 0.18 30)"},
	{ID: SubjectTexasHistory, Name: "Texas History", Icon: "MapPin", Color: "oklch(0.55 0.18 0)"},
	{ID: SubjectHealth, Name: "Health", Icon: "Heart", Color: "oklch(0.60 0.18 120)"},
}

// GetSubject returns the catalogue subject with the given id.
func GetSubject(id string) (Subject, bool) {
	for _, s := range Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// IsSubject reports whether `id` names a catalogue subject.
func IsSubject(id string) bool {
	_, ok := GetSubject(id)
	return ok
}

// SubjectName returns the name of the subject, or "Unknown".
func SubjectName(id string) string {
	if s, ok := GetSubject(id); ok {
		return s.Name
	}
	return "Unknown"
}
