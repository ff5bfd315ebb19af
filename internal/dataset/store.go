package dataset

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/tdboot/internal/domain"
	"github.com/ChizhovVadim/tdboot/internal/tdlambda"
)

type IDatasetProvider interface {
	Load(ctx context.Context, dataset chan<- domain.DatasetItem) error
}

// Store is the loaded corpus. Labels is nil when the rows carry no ground truth.
type Store struct {
	Trajectories []domain.Trajectory
	Labels       [][]float64
	Width        int
	Rows         int
}

type Options struct {
	// Strict fails on state tags other than playing, win or draw.
	Strict bool
}

func LoadTrajectories(
	ctx context.Context,
	datasetProvider IDatasetProvider,
	opt Options,
) (*Store, error) {

	g, ctx := errgroup.WithContext(ctx)

	var dataset = make(chan domain.DatasetItem, 128)

	g.Go(func() error {
		defer close(dataset)
		return datasetProvider.Load(ctx, dataset)
	})

	var result *Store

	g.Go(func() error {
		var store, err = groupDataset(dataset, opt)
		if err != nil {
			return err
		}
		result = store
		return nil
	})

	var err = g.Wait()
	if err != nil {
		return nil, err
	}
	return result, nil
}

type gameRows struct {
	items []domain.DatasetItem
}

func groupDataset(dataset <-chan domain.DatasetItem, opt Options) (*Store, error) {
	var games = make(map[int64]*gameRows)
	var rows, unknownTags, labelled int
	var width = -1
	var err error
	for item := range dataset {
		// drain so the producer can finish
		if err != nil {
			continue
		}
		if width < 0 {
			width = len(item.Features)
		} else if len(item.Features) != width {
			err = errors.Wrapf(ErrBadRow, "game %v move %v: %v features, expected %v",
				item.GameID, item.MoveIndex, len(item.Features), width)
			continue
		}
		if !item.Tag.Known() {
			if opt.Strict {
				err = errors.Wrapf(tdlambda.ErrUnknownStateTag, "game %v move %v: tag %v",
					item.GameID, item.MoveIndex, int(item.Tag))
				continue
			}
			unknownTags++
		}
		if item.HasLabel {
			labelled++
		}
		var game = games[item.GameID]
		if game == nil {
			game = &gameRows{}
			games[item.GameID] = game
		}
		game.items = append(game.items, item)
		rows++
	}
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errors.Wrap(ErrBadRow, "dataset is empty")
	}
	if labelled != 0 && labelled != rows {
		return nil, errors.Wrapf(ErrBadRow, "%v of %v rows have %v", labelled, rows, ColumnGroundTruth)
	}
	if unknownTags != 0 {
		log.Warn().Int("rows", unknownTags).Msg("unknown state tags treated as playing")
	}

	var ids = maps.Keys(games)
	slices.Sort(ids)

	var store = &Store{
		Trajectories: make([]domain.Trajectory, 0, len(ids)),
		Width:        width,
		Rows:         rows,
	}
	if labelled != 0 {
		store.Labels = make([][]float64, 0, len(ids))
	}
	for _, id := range ids {
		var items = games[id].items
		sort.Slice(items, func(i, j int) bool {
			return items[i].MoveIndex < items[j].MoveIndex
		})
		var tr = domain.Trajectory{GameID: id, Steps: make([]domain.Step, len(items))}
		var labels []float64
		if store.Labels != nil {
			labels = make([]float64, len(items))
		}
		for i := range items {
			if i > 0 && items[i].MoveIndex == items[i-1].MoveIndex {
				return nil, errors.Wrapf(ErrBadRow, "game %v: duplicate move %v", id, items[i].MoveIndex)
			}
			tr.Steps[i] = domain.Step{Features: items[i].Features, Tag: items[i].Tag}
			if labels != nil {
				labels[i] = items[i].GroundTruth
			}
		}
		store.Trajectories = append(store.Trajectories, tr)
		if labels != nil {
			store.Labels = append(store.Labels, labels)
		}
	}
	log.Info().
		Int("games", len(store.Trajectories)).
		Int("rows", rows).
		Int("features", width).
		Bool("labels", store.Labels != nil).
		Msg("loaded-trajectories")
	return store, nil
}
