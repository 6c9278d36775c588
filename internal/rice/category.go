package rice

// Category is a priority band for a RICE score. Priority 1 is highest.
type Category struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Priority    int    `json:"priority"`
	Description string `json:"description"`
}

// Band thresholds. Each lower bound is inclusive: a score of exactly 30 is
// Must Do, exactly 15 is Should Do, exactly 5 is Could Do.
const (
	mustDoFloor   = 30.0
	shouldDoFloor = 15.0
	couldDoFloor  = 5.0
)

var (
	mustDo   = Category{Label: "Must Do", Color: "green", Priority: 1, Description: "High-value work that should lead the roadmap"}
	shouldDo = Category{Label: "Should Do", Color: "blue", Priority: 2, Description: "Strong candidates for the next planning cycle"}
	couldDo  = Category{Label: "Could Do", Color: "yellow", Priority: 3, Description: "Worth doing when capacity allows"}
	wontDo   = Category{Label: "Won't Do", Color: "gray", Priority: 4, Description: "Low return for the effort; deprioritize"}
)

// Categorize maps a score onto one of the four priority bands.
func Categorize(score float64) Category {
	switch {
	case score >= mustDoFloor:
		return mustDo
	case score >= shouldDoFloor:
		return shouldDo
	case score >= couldDoFloor:
		return couldDo
	default:
		return wontDo
	}
}
