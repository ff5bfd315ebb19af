package dataset

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/ChizhovVadim/tdboot/internal/domain"
)

var ErrBadRow = errors.New("bad row")

const (
	ColumnGameID      = "game_id"
	ColumnMoveIndex   = "move_index"
	ColumnState       = "state"
	ColumnGroundTruth = "ground_truth"
)

type header struct {
	gameID      int
	moveIndex   int
	state       int
	groundTruth int
	features    []int
	names       []string
}

func parseHeader(columns []string) (*header, error) {
	var h = &header{gameID: -1, moveIndex: -1, state: -1, groundTruth: -1}
	for i, c := range columns {
		var name = strings.TrimSpace(c)
		switch name {
		case ColumnGameID:
			h.gameID = i
		case ColumnMoveIndex:
			h.moveIndex = i
		case ColumnState:
			h.state = i
		case ColumnGroundTruth:
			h.groundTruth = i
		default:
			h.features = append(h.features, i)
			h.names = append(h.names, name)
		}
	}
	if h.gameID < 0 || h.moveIndex < 0 || h.state < 0 {
		return nil, errors.Wrapf(ErrBadRow, "header must have %v, %v and %v columns",
			ColumnGameID, ColumnMoveIndex, ColumnState)
	}
	if len(h.features) == 0 {
		return nil, errors.Wrap(ErrBadRow, "header has no feature columns")
	}
	return h, nil
}

func (h *header) width() int { return len(h.features) }

func (h *header) parse(fields []string) (domain.DatasetItem, error) {
	var item domain.DatasetItem

	gameID, err := strconv.ParseInt(strings.TrimSpace(fields[h.gameID]), 10, 64)
	if err != nil {
		return item, errors.Wrapf(ErrBadRow, "%v: %v", ColumnGameID, err)
	}
	moveIndex, err := strconv.Atoi(strings.TrimSpace(fields[h.moveIndex]))
	if err != nil {
		return item, errors.Wrapf(ErrBadRow, "%v: %v", ColumnMoveIndex, err)
	}
	state, err := strconv.Atoi(strings.TrimSpace(fields[h.state]))
	if err != nil {
		return item, errors.Wrapf(ErrBadRow, "%v: %v", ColumnState, err)
	}
	item.GameID = gameID
	item.MoveIndex = moveIndex
	item.Tag = domain.StateTag(state)

	if h.groundTruth >= 0 {
		gt, err := strconv.ParseFloat(strings.TrimSpace(fields[h.groundTruth]), 64)
		if err != nil {
			return item, errors.Wrapf(ErrBadRow, "%v: %v", ColumnGroundTruth, err)
		}
		item.GroundTruth = gt
		item.HasLabel = true
	}

	item.Features = make([]float32, len(h.features))
	for i, col := range h.features {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[col]), 32)
		if err != nil {
			return item, errors.Wrapf(ErrBadRow, "%v: %v", h.names[i], err)
		}
		var f = float32(v)
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return item, errors.Wrapf(ErrBadRow, "%v: not a finite number", h.names[i])
		}
		item.Features[i] = f
	}
	return item, nil
}

func errorAt(err error, file string, line int) error {
	return errors.WithMessagef(err, "%v:%v", file, line)
}
