package types

// JobDescriptionFields is the structured record extracted from a job description.
type JobDescriptionFields struct {
	JobTitle           string   `json:"job_title"`
	CompanyName        string   `json:"company_name"`
	RequiredSkills     []string `json:"required_skills"`
	ExperienceRequired string   `json:"experience_required"`
	EducationRequired  string   `json:"education_required"`
	JobDescription     string   `json:"job_description"`
	Responsibilities   []string `json:"responsibilities"`
	NiceToHaveSkills   []string `json:"nice_to_have_skills"`
	Location           string   `json:"location"`
	SalaryRange        string   `json:"salary_range"`
}

// Kind implements ParsedFields
func (*JobDescriptionFields) Kind() DocumentKind { return KindJobDescription }

// Columns implements ParsedFields
func (f *JobDescriptionFields) Columns() []Column {
	return []Column{
		{Name: "job_title", Value: f.JobTitle},
		{Name: "company_name", Value: f.CompanyName},
		{Name: "required_skills", Value: jsonList(f.RequiredSkills)},
		{Name: "experience_required", Value: f.ExperienceRequired},
		{Name: "education_required", Value: f.EducationRequired},
		{Name: "job_description", Value: f.JobDescription},
		{Name: "responsibilities", Value: jsonList(f.Responsibilities)},
		{Name: "nice_to_have_skills", Value: jsonList(f.NiceToHaveSkills)},
		{Name: "location", Value: f.Location},
		{Name: "salary_range", Value: f.SalaryRange},
	}
}

// ResumeFields is the structured record extracted from a resume.
type ResumeFields struct {
	CandidateName   string           `json:"candidate_name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	Skills          []string         `json:"skills"`
	TotalExperience string           `json:"total_experience"`
	WorkExperience  []WorkExperience `json:"work_experience"`
	Education       []Education      `json:"education"`
	Certifications  []string         `json:"certifications"`
	Summary         string           `json:"summary"`
}

// WorkExperience is one position on a resume
type WorkExperience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
}

// Education is one degree on a resume
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Kind implements ParsedFields
func (*ResumeFields) Kind() DocumentKind { return KindResume }

// Columns implements ParsedFields
func (f *ResumeFields) Columns() []Column {
	return []Column{
		{Name: "candidate_name", Value: f.CandidateName},
		{Name: "email", Value: f.Email},
		{Name: "phone", Value: f.Phone},
		{Name: "skills", Value: jsonList(f.Skills)},
		{Name: "total_experience", Value: f.TotalExperience},
		{Name: "work_experience", Value: jsonList(f.WorkExperience)},
		{Name: "education", Value: jsonList(f.Education)},
		{Name: "certifications", Value: jsonList(f.Certifications)},
		{Name: "summary", Value: f.Summary},
	}
}
