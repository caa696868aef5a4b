package cvstruct

// StructuredCv is the normalized CV schema fed to the PDF projector.
// Every list field is always non-nil and every string field is always
// present; callers never have to nil-check.
type StructuredCv struct {
	Name           string           `json:"name"`
	Profile        string           `json:"profile"`
	WorkExperience []ExperienceItem `json:"work_experience"`
	Education      []EducationItem  `json:"education"`
	Projects       []ExperienceItem `json:"projects"`
	Certifications []string         `json:"certifications"`
	Courses        []string         `json:"courses"`
	Skills         []string         `json:"skills"`
	Languages      []LanguageItem   `json:"languages"`
}

// ExperienceItem is one work experience or project entry.
// Dates are "YYYY-MM" or the literal "Present".
type ExperienceItem struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Bullets  []string `json:"bullets"`
}

type EducationItem struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
}

type LanguageItem struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Empty returns a fully-shaped StructuredCv with all fields zeroed
func Empty() StructuredCv {
	return StructuredCv{
		WorkExperience: []ExperienceItem{},
		Education:      []EducationItem{},
		Projects:       []ExperienceItem{},
		Certifications: []string{},
		Courses:        []string{},
		Skills:         []string{},
		Languages:      []LanguageItem{},
	}
}
