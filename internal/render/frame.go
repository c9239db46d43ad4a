package render

// Frame is everything drawn in one cycle.
type Frame struct {
	Title  string
	Menu   Menu
	Rows   []Row
	Status string
	// StatusIsError marks Status as a failure report.
	StatusIsError bool
}

// MenuTitle heads the command panel.
const MenuTitle = "Commands"

// Renderer draws a Frame.
type Renderer interface {
	Render(Frame) error
}
