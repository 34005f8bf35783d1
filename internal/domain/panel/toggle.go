package panel

import "fmt"

// Name identifies a collapsible filter panel.
type Name string

const (
	Scholarship   Name = "bolsa"
	Performance   Name = "nota"
	Cohort        Name = "ano"
	Employment    Name = "trab"
	MaritalStatus Name = "civ"
)

// All lists the panels in page order.
var All = []Name{Scholarship, Performance, Cohort, Employment, MaritalStatus}

// ErrUnknownPanel is returned by Parse for names outside All.
var ErrUnknownPanel = fmt.Errorf("unknown filter panel")

// Parse validates a panel name.
func Parse(s string) (Name, error) {
	for _, n := range All {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
}

// Toggle is the show/hide state of a panel. It starts hidden.
type Toggle struct {
	Clicks int
}

// Click records one press of the panel's button.
func (t *Toggle) Click() {
	t.Clicks++
}

// Visible reports whether the panel is shown: odd click counts show it.
func (t Toggle) Visible() bool {
	return t.Clicks%2 == 1
}

// State holds the toggle of every panel.
type State map[Name]Toggle

// NewState returns every panel hidden.
func NewState() State {
	s := make(State, len(All))
	for _, n := range All {
		s[n] = Toggle{}
	}
	return s
}

// Click presses the named panel's button.
func (s State) Click(n Name) {
	t := s[n]
	t.Click()
	s[n] = t
}

// Visible reports whether the named panel is shown.
func (s State) Visible(n Name) bool {
	return s[n].Visible()
}
