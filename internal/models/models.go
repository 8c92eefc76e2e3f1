package models

import (
	"time"

	"github.com/lib/pq"
)

// Rows are decoded by sqlx through the db tags and by the PostgREST adapter
// through the json tags, so both must name the same column.

type HeroContent struct {
	ID          int64     `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type AboutContent struct {
	ID          int64     `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type SidebarProfile struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	JobTitle        string    `db:"job_title" json:"job_title"`
	ProfileImageURL *string   `db:"profile_image_url" json:"profile_image_url"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type Career struct {
	ID               int64     `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Company          string    `db:"company" json:"company"`
	Location         string    `db:"location" json:"location"`
	StartDate        string    `db:"start_date" json:"start_date"`
	EndDate          *string   `db:"end_date" json:"end_date"`
	Duration         string    `db:"duration" json:"duration"`
	Months           string    `db:"months" json:"months"`
	Type             string    `db:"type" json:"type"`
	WorkType         string    `db:"work_type" json:"work_type"`
	Logo             string    `db:"logo" json:"logo"`
	LogoURL          *string   `db:"logo_url" json:"logo_url"`
	Responsibilities *string   `db:"responsibilities" json:"responsibilities"`
	Order            int       `db:"order" json:"order"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type Education struct {
	ID          int64     `db:"id" json:"id"`
	Institution string    `db:"institution" json:"institution"`
	Degree      string    `db:"degree" json:"degree"`
	Major       string    `db:"major" json:"major"`
	DegreeCode  *string   `db:"degree_code" json:"degree_code"`
	StartYear   int       `db:"start_year" json:"start_year"`
	EndYear     *int      `db:"end_year" json:"end_year"`
	Duration    string    `db:"duration" json:"duration"`
	Location    string    `db:"location" json:"location"`
	Logo        string    `db:"logo" json:"logo"`
	LogoURL     *string   `db:"logo_url" json:"logo_url"`
	Order       int       `db:"order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type TechStack struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IconName  string    `db:"icon_name" json:"icon_name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Project struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Slug        string    `db:"slug" json:"slug"`
	Featured    bool      `db:"featured" json:"featured"`
	ImageType   string    `db:"image_type" json:"image_type"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	ProjectURL  *string   `db:"project_url" json:"project_url"`
	Order       int       `db:"order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	TechStacks []TechStack `db:"-" json:"tech_stacks"`
}

// ProjectTechStack is a join row; it has no identity of its own.
type ProjectTechStack struct {
	ProjectID   int64 `db:"project_id" json:"project_id"`
	TechStackID int64 `db:"tech_stack_id" json:"tech_stack_id"`
}

type Achievement struct {
	ID              int64          `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	Issuer          string         `db:"issuer" json:"issuer"`
	IssuedDate      string         `db:"issued_date" json:"issued_date"`
	Category        string         `db:"category" json:"category"`
	CredentialURL   *string        `db:"credential_url" json:"credential_url"`
	CertificateURL  string         `db:"certificate_url" json:"certificate_url"`
	CertificateType string         `db:"certificate_type" json:"certificate_type"`
	Tags            pq.StringArray `db:"tags" json:"tags"`
	Order           int            `db:"order" json:"order"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

type ContactLink struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ButtonText  string    `db:"button_text" json:"button_text"`
	URL         string    `db:"url" json:"url"`
	IconName    string    `db:"icon_name" json:"icon_name"`
	IconType    string    `db:"icon_type" json:"icon_type"`
	Gradient    *string   `db:"gradient" json:"gradient"`
	BgColor     *string   `db:"bg_color" json:"bg_color"`
	Order       int       `db:"order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const (
	BentoTypeProject = "project"
	BentoTypeAboutMe = "about_me"
)

type BentoGridImage struct {
	ID        int64     `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	Order     int       `db:"order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
