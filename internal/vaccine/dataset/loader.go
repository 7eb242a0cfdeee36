package dataset

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/minio/highwayhash"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/store"
)

var (
	// ErrDatasetNotFound is returned when the source path does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDatasetMalformed is returned when the source cannot be turned into a table.
	ErrDatasetMalformed = errors.New("dataset malformed")
	// ErrInvalidHashKey is returned when a configured fingerprint key is not 32 bytes.
	ErrInvalidHashKey = errors.New("dataset hash key must be 32 bytes")
)

// Imputation selects how missing numeric cells are treated after parsing.
type Imputation string

const (
	// ImputeNone keeps missing cells missing.
	ImputeNone Imputation = "none"
	// ImputeForwardFill carries the previous year's value forward within a
	// (region, brand) series and zero-fills what is still missing.
	ImputeForwardFill Imputation = "ffill"
)

// defaultHashKey keys the fingerprint when none is configured. The
// fingerprint identifies content, it is not a secret.
var defaultHashKey = []byte("health-insight-dataset-key-v1...")

type Options struct {
	Imputation Imputation
	HashKey    []byte
	Now        func() time.Time
}

func (o Options) withDefaults() (Options, error) {
	switch o.Imputation {
	case "":
		o.Imputation = ImputeNone
	case ImputeNone, ImputeForwardFill:
	default:
		return o, fmt.Errorf("unknown dataset imputation %q", o.Imputation)
	}

	if len(o.HashKey) == 0 {
		o.HashKey = defaultHashKey
	}
	if len(o.HashKey) != 32 {
		return o, ErrInvalidHashKey
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return o, nil
}

// Load reads the dataset at path into an immutable table.
func Load(ctx context.Context, path string, opts Options) (*store.Table, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	rows, format, err := readRows(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrDatasetMalformed)
	}

	cols, err := indexHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records, err := parseRecords(ctx, cols, rows[1:])
	if err != nil {
		return nil, err
	}

	if opts.Imputation == ImputeForwardFill {
		slog.WarnContext(ctx, "dataset forward-fill imputation enabled, missing values will be filled")
		store.Sort(records)
		forwardFill(records)
	}

	fingerprint, err := fingerprint(raw, opts.HashKey)
	if err != nil {
		return nil, err
	}

	tbl := store.NewTable(records, entity.DatasetInfo{
		Source:      path,
		Fingerprint: fingerprint,
		LoadedAt:    opts.Now(),
	})

	slog.InfoContext(ctx, "dataset loaded",
		"path", path,
		"format", format.String(),
		"records", tbl.Len(),
		"fingerprint", fingerprint,
	)

	return tbl, nil
}

func fingerprint(raw, key []byte) (string, error) {
	h, err := highwayhash.New(key)
	if err != nil {
		return "", err
	}
	if _, err := h.Write(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
