package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var errDatasetReady = errors.New("dataset ready")

func (dp *CSVProvider) readFiles(ctx context.Context, records chan<- rawRecord) error {
	files, err := csvFiles(dp.Path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no csv files in %v", dp.Path)
	}
	var state = readState{width: -1}
	for _, file := range files {
		log.Info().Str("file", file).Msg("load-file")
		err = dp.readFile(ctx, file, &state, records)
		if err != nil {
			if errors.Is(err, errDatasetReady) {
				log.Info().Int("maxRows", dp.MaxRows).Msg("row limit reached")
				break
			}
			return err
		}
	}
	log.Info().Int("rows", state.rows).Int("files", len(files)).Msg("load-files")
	return nil
}

// readState is carried across the files of one load.
type readState struct {
	rows  int
	width int
	// lastGame is the raw game_id of the last row sent
	lastGame string
}

// readFile sends the rows of file. Once MaxRows is reached it keeps reading
// until game_id changes, so the last game keeps its terminal step.
// Rows of one game are expected to be contiguous.
func (dp *CSVProvider) readFile(
	ctx context.Context,
	file string,
	state *readState,
	records chan<- rawRecord,
) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var r = csv.NewReader(f)
	columns, err := r.Read()
	if err != nil {
		return errors.Wrapf(err, "%v: read header", file)
	}
	h, err := parseHeader(columns)
	if err != nil {
		return errors.WithMessage(err, file)
	}
	if state.width >= 0 && h.width() != state.width {
		return errors.Wrapf(ErrBadRow, "%v: %v features, previous files have %v", file, h.width(), state.width)
	}
	state.width = h.width()

	for line := 2; ; line++ {
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(ErrBadRow, "%v: %v", file, err)
		}
		var game = strings.TrimSpace(fields[h.gameID])
		if dp.MaxRows != 0 && state.rows >= dp.MaxRows && game != state.lastGame {
			return errDatasetReady
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case records <- rawRecord{file: file, line: line, header: h, fields: fields}:
			state.rows++
			state.lastGame = game
		}
	}
}

func csvFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	dirs, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, de := range dirs {
		if !de.IsDir() && filepath.Ext(de.Name()) == ".csv" {
			result = append(result, filepath.Join(path, de.Name()))
		}
	}
	sort.Strings(result)
	return result, nil
}
