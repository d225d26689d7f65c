package types

// Media is an uploaded file reference as returned by the bucket.
type Media struct {
	URL      string `json:"url,omitempty"`
	ImgixURL string `json:"imgix_url,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SelectOption is the bucket's representation of a select-dropdown value.
type SelectOption struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProfileMetadata is the metadata of a profile object.
type ProfileMetadata struct {
	FullName          string `json:"full_name,omitempty"`
	ProfessionalTitle string `json:"professional_title,omitempty"`
	HeroHeading       string `json:"hero_heading,omitempty"`
	HeroSubtext       string `json:"hero_subtext,omitempty"`
	ProfilePhoto      *Media `json:"profile_photo,omitempty"`
	AboutMe           string `json:"about_me,omitempty"`
	ResumeFile        *Media `json:"resume_file,omitempty"`
}

// ProjectMetadata is the metadata of a projects object. Order drives the
// display order of the projects collection; a missing order counts as 0.
type ProjectMetadata struct {
	ProjectName         string   `json:"project_name,omitempty"`
	ShortDescription    string   `json:"short_description,omitempty"`
	DetailedDescription string   `json:"detailed_description,omitempty"`
	Screenshot          *Media   `json:"screenshot,omitempty"`
	TechStack           []string `json:"tech_stack,omitempty"`
	LiveDemoURL         string   `json:"live_demo_url,omitempty"`
	GithubURL           string   `json:"github_url,omitempty"`
	Featured            bool     `json:"featured,omitempty"`
	Order               int      `json:"order,omitempty"`
}

// SkillMetadata is the metadata of a skills object.
type SkillMetadata struct {
	SkillName        string        `json:"skill_name,omitempty"`
	Category         *SelectOption `json:"category,omitempty"`
	ProficiencyLevel *SelectOption `json:"proficiency_level,omitempty"`
	Icon             *Media        `json:"icon,omitempty"`
}

// ServiceMetadata is the metadata of a services object.
type ServiceMetadata struct {
	ServiceName string `json:"service_name,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	PriceRange  string `json:"price_range,omitempty"`
}

// TestimonialMetadata is the metadata of a testimonials object.
type TestimonialMetadata struct {
	ClientName      string  `json:"client_name,omitempty"`
	ClientTitle     string  `json:"client_title,omitempty"`
	Company         string  `json:"company,omitempty"`
	TestimonialText string  `json:"testimonial_text,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	ClientPhoto     *Media  `json:"client_photo,omitempty"`
}

// ContactInfoMetadata is the metadata of the contact-info object.
type ContactInfoMetadata struct {
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	LinkedinURL  string `json:"linkedin_url,omitempty"`
	GithubURL    string `json:"github_url,omitempty"`
	TwitterURL   string `json:"twitter_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
}

// Well-known metadata keys read by the synchronizer and the aggregator.
const (
	FieldOrder     = "order"
	FieldFeatured  = "featured"
	FieldRating    = "rating"
	FieldCategory  = "category"
	FieldTechStack = "tech_stack"
)

// typeInfo describes per-type naming used for titles and messages.
type typeInfo struct {
	nameField string
	singular  string
	plural    string
	required  []string
}

var typeInfos = map[string]typeInfo{
	TypeProfile:      {"full_name", "profile", "profile", nil},
	TypeProjects:     {"project_name", "project", "projects", []string{"project_name", "short_description"}},
	TypeSkills:       {"skill_name", "skill", "skills", []string{"skill_name"}},
	TypeServices:     {"service_name", "service", "services", []string{"service_name"}},
	TypeTestimonials: {"client_name", "testimonial", "testimonials", []string{"client_name", "testimonial_text"}},
	TypeContactInfo:  {"", "contact info", "contact info", nil},
}

// NameField returns the metadata key holding the display name for the
// content type, or "" when the type has none.
func NameField(objType string) string {
	return typeInfos[objType].nameField
}

// Singular returns the human noun for one object of the type ("project").
func Singular(objType string) string {
	if ti, ok := typeInfos[objType]; ok {
		return ti.singular
	}
	return objType
}

// Plural returns the human noun for a collection of the type ("projects").
func Plural(objType string) string {
	if ti, ok := typeInfos[objType]; ok {
		return ti.plural
	}
	return objType
}

// DefaultTitle is the title given to a new object whose metadata carries
// no name, e.g. "New Project".
func DefaultTitle(objType string) string {
	s := Singular(objType)
	if s == "" {
		return "New Object"
	}
	words := []byte(s)
	for i := range words {
		if i == 0 || words[i-1] == ' ' {
			if words[i] >= 'a' && words[i] <= 'z' {
				words[i] -= 'a' - 'A'
			}
		}
	}
	return "New " + string(words)
}

// TitleFor derives the title of a new object from its name field, falling
// back to DefaultTitle.
func TitleFor(objType string, metadata map[string]any) string {
	if f := NameField(objType); f != "" {
		if s, ok := metadata[f].(string); ok && s != "" {
			return s
		}
	}
	return DefaultTitle(objType)
}

// ValidateForm checks the required fields of a create or edit form for the
// given content type. It returns an error wrapping ErrMissingField naming
// the first absent field.
func ValidateForm(objType string, metadata map[string]any) error {
	for _, f := range typeInfos[objType].required {
		v, ok := metadata[f]
		if !ok || v == nil {
			return &FieldError{Field: f}
		}
		if s, isStr := v.(string); isStr && s == "" {
			return &FieldError{Field: f}
		}
	}
	return nil
}
