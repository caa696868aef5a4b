package pdftemplate

// TemplateFields is the flat field set the external renderer binds into
// its fixed visual template. The key names are a wire contract; renaming
// any of them breaks the renderer's positional binding.
type TemplateFields struct {
	Name                  string   `json:"name"`
	Seniority             string   `json:"seniority"`
	CoreSkills            []string `json:"core_skills"`
	SoftSkills            []string `json:"soft_skills"`
	Languages             []string `json:"languages"`
	Education             []string `json:"education"`
	Trainings             []string `json:"trainings"`
	Recommendation        string   `json:"recommendation"`
	TechCompetenciesLine  string   `json:"tech_competencies_line"`
	ProjectExperienceLine string   `json:"project_experience_line"`
	FooterLogoURL         string   `json:"footer_logo_url"`
}
