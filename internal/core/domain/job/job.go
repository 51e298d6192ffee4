package job

import (
	"time"
)

// Job represents a single job posting harvested from an external platform.
// JobURL is the natural key; the same posting seen twice maps to one row.
type Job struct {
	ID             int64      `json:"id" db:"id"`
	JobTitle       string     `json:"job_title" db:"job_title"`
	CompanyName    string     `json:"company_name" db:"company_name"`
	JobDescription *string    `json:"job_description,omitempty" db:"job_description"`
	WorkType       *string    `json:"work_type,omitempty" db:"work_type"`
	RequiredSkills *string    `json:"required_skills,omitempty" db:"required_skills"`
	SalaryMin      *int       `json:"salary_min,omitempty" db:"salary_min"`
	SalaryMax      *int       `json:"salary_max,omitempty" db:"salary_max"`
	SalaryType     *string    `json:"salary_type,omitempty" db:"salary_type"`
	SalaryText     *string    `json:"salary_text,omitempty" db:"salary_text"`
	ExperienceText *string    `json:"experience_text,omitempty" db:"experience_text"`
	ExperienceMin  *int       `json:"experience_min,omitempty" db:"experience_min"`
	City           *string    `json:"city,omitempty" db:"city"`
	District       *string    `json:"district,omitempty" db:"district"`
	Location       *string    `json:"location,omitempty" db:"location"`
	JobURL         string     `json:"job_url" db:"job_url"`
	Platform       *string    `json:"platform,omitempty" db:"platform"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Skill is a normalized skill name linked to jobs through jobs_skills.
type Skill struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Category is a platform-specific job category linked to jobs through
// jobs_categories.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	CategoryID   string    `json:"category_id" db:"category_id"`
	CategoryName *string   `json:"category_name,omitempty" db:"category_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreateJobRequest carries one job posting together with its skill names and
// categories, inserted atomically by the repository.
type CreateJobRequest struct {
	Job        Job        `json:"job"`
	Skills     []string   `json:"skills,omitempty"`
	Categories []Category `json:"categories,omitempty"`
}

// SeedFile is the on-disk format for optional job fixtures loaded during
// initialization.
type SeedFile struct {
	Jobs []CreateJobRequest `json:"jobs"`
}
