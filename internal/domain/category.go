package domain

// Category groups catalog recipes on the home screen.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Thumb string `json:"thumb,omitempty"`
}
