package dataset

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/tdboot/internal/domain"
)

// CSVProvider streams rows of the feature/label store.
// Path is a csv file or a folder of csv files.
type CSVProvider struct {
	Path    string
	MaxRows int
	Threads int
}

type rawRecord struct {
	file   string
	line   int
	header *header
	fields []string
}

func (dp *CSVProvider) Load(
	ctx context.Context,
	dataset chan<- domain.DatasetItem,
) error {
	log.Debug().Str("path", dp.Path).Msg("load-dataset-started")
	defer log.Debug().Str("path", dp.Path).Msg("load-dataset-finished")

	g, ctx := errgroup.WithContext(ctx)

	var records = make(chan rawRecord, 128)

	g.Go(func() error {
		defer close(records)
		return dp.readFiles(ctx, records)
	})

	for i := 0; i < max(1, dp.Threads); i++ {
		g.Go(func() error {
			return parseRecords(ctx, records, dataset)
		})
	}

	return g.Wait()
}

func parseRecords(
	ctx context.Context,
	records <-chan rawRecord,
	dataset chan<- domain.DatasetItem,
) error {
	for rec := range records {
		item, err := rec.header.parse(rec.fields)
		if err != nil {
			return errorAt(err, rec.file, rec.line)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case dataset <- item:
		}
	}
	return nil
}
