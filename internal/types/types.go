package types

type Content struct {
	Profile    Profile      `json:"profile"`
	Skills     []SkillGroup `json:"skills"`
	Experience []Job        `json:"experience"`
	Projects   []Project    `json:"projects"`
}

type Profile struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Tagline  string   `json:"tagline"`
	Email    string   `json:"email"`
	GitHub   string   `json:"github"`
	LinkedIn string   `json:"linkedin"`
	About    []string `json:"about"`
}

type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type Job struct {
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Bullets []string `json:"bullets"`
}

type Project struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	TechStack   []string `json:"techStack"`
	LiveURL     string   `json:"liveUrl,omitempty"`
	GitHubURL   string   `json:"githubUrl,omitempty"`
}

type SubscribeRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type FlipRequest struct {
	Index *int `json:"index" form:"index" binding:"required"`
}
