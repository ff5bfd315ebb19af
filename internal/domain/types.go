package domain

type StateTag int

const (
	Playing StateTag = 0
	P1Win   StateTag = 1
	P2Win   StateTag = 2
	Draw    StateTag = 3
)

// Reward is +1 when player 1 won at this step, -1 when player 2 won, 0 otherwise.
// Draw and unrecognized tags are non-terminal.
func (t StateTag) Reward() float64 {
	switch t {
	case P1Win:
		return 1
	case P2Win:
		return -1
	default:
		return 0
	}
}

func (t StateTag) Known() bool {
	return t >= Playing && t <= Draw
}

type Step struct {
	Features []float32
	Tag      StateTag
}

// Trajectory is one played game, steps ordered by move index ascending.
type Trajectory struct {
	GameID int64
	Steps  []Step
}

func (t *Trajectory) Tags() []StateTag {
	var tags = make([]StateTag, len(t.Steps))
	for i := range t.Steps {
		tags[i] = t.Steps[i].Tag
	}
	return tags
}

type Sample struct {
	Features []float32
	Target   float64
}

// DatasetItem is one row of the feature/label store.
type DatasetItem struct {
	GameID      int64
	MoveIndex   int
	Tag         StateTag
	GroundTruth float64
	HasLabel    bool
	Features    []float32
}
