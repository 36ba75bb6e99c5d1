package school

import (
	"embed"
	"encoding/json"
	"path"

	"github.com/pkg/errors"
)

//go:embed curricula/*.json
var curriculaFS embed.FS

type (
	Activity struct {
		Type  string `json:"type"` // Video, Article, Exercise, Quiz, Unit Test..
		Title string `json:"title"`
	}

	Lesson struct {
		Title      string     `json:"title"`
		Activities []Activity `json:"activities"`
	}

	Unit struct {
		Unit    string   `json:"unit"`
		Lessons []Lesson `json:"lessons"`
	}

	Curriculum struct {
		Course string `json:"course"`
		Units  []Unit `json:"units"`
	}
)

// ActivityCount returns the number of activities in the unit.
func (u Unit) ActivityCount() int {
	var n int
	for _, l := range u.Lessons {
		n += len(l.Activities)
	}
	return n
}

// ActivityCount returns the number of activities in the whole curriculum.
func (c *Curriculum) ActivityCount() int {
	var n int
	for _, u := range c.Units {
		n += u.ActivityCount()
	}
	return n
}

// FindActivity looks up an activity by unit, lesson and activity title.
func (c *Curriculum) FindActivity(unit, lesson, title string) (Activity, bool) {
	for _, u := range c.Units {
		if u.Unit != unit {
			continue
		}
		for _, l := range u.Lessons {
			if l.Title != lesson {
				continue
			}
			for _, a := range l.Activities {
				if a.Title == title {
					return a, true
				}
			}
		}
	}
	return Activity{}, false
}

func loadCurriculum(name string) (*Curriculum, error) {
	data, err := curriculaFS.ReadFile(path.Join("curricula", name+".json"))
	if err != nil {
		return nil, errors.Wrapf(err, "reading curriculum %q", name)
	}
	var c Curriculum
	if err = json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "decoding curriculum %q", name)
	}
	return &c, nil
}

func mustLoadCurriculum(name string) *Curriculum {
	c, err := loadCurriculum(name)
	if err != nil {
		panic(err)
	}
	return c
}
