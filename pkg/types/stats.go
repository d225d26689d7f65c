package types

// DashboardStats is the summary shown on the dashboard overview.
type DashboardStats struct {
	TotalProjects     int     `json:"totalProjects" yaml:"total_projects"`
	FeaturedProjects  int     `json:"featuredProjects" yaml:"featured_projects"`
	TotalSkills       int     `json:"totalSkills" yaml:"total_skills"`
	TotalTestimonials int     `json:"totalTestimonials" yaml:"total_testimonials"`
	AverageRating     float64 `json:"averageRating" yaml:"average_rating"`
}

// Count is one bar of a derived chart, e.g. projects per technology.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}
