package shard

import (
	"context"
	"os"
	"sort"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/file"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"
	"github.com/pkg/errors"

	"github.com/dreamware/gngram/internal/digest"
)

// Shard file column names, in on-disk order.
const (
	colHash   = "hash"
	colPeakTF = "peak_tf"
	colPeakDF = "peak_df"
	colSumTF  = "sum_tf"
	colSumDF  = "sum_df"
)

// fileSchema is the only schema a shard file may carry: the residual key as
// utf8 plus the four int64 counters. The build process emits exactly this;
// anything else is treated as corruption or a version mismatch.
var fileSchema = arrow.NewSchema([]arrow.Field{
	{Name: colHash, Type: arrow.BinaryTypes.String},
	{Name: colPeakTF, Type: arrow.PrimitiveTypes.Int64},
	{Name: colPeakDF, Type: arrow.PrimitiveTypes.Int64},
	{Name: colSumTF, Type: arrow.PrimitiveTypes.Int64},
	{Name: colSumDF, Type: arrow.PrimitiveTypes.Int64},
}, nil)

// Load reads and decodes the shard file at path for the given bucket.
//
// A nonexistent file yields ErrMissingData. A file that is not valid parquet,
// does not carry the contract schema, or violates a row invariant (wrong
// residual length, duplicate residual) yields ErrCorruptData. Both are wrapped
// with context and match with errors.Is.
func Load(path, bucket string) (*Shard, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrMissingData, "shard %s (%s)", bucket, path)
		}
		return nil, errors.Wrapf(err, "opening shard %s", bucket)
	}

	pf, err := file.NewParquetReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(ErrCorruptData, "shard %s: not a parquet file: %v", bucket, err)
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptData, "shard %s: %v", bucket, err)
	}

	table, err := reader.ReadTable(context.Background())
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptData, "shard %s: %v", bucket, err)
	}
	defer table.Release()

	return fromTable(table, bucket)
}

// fromTable validates the decoded arrow table against the contract schema and
// indexes its rows by residual key. Validation happens here, once per load,
// so that no later field access can fail.
func fromTable(table arrow.Table, bucket string) (*Shard, error) {
	schema := table.Schema()
	if err := matchSchema(schema); err != nil {
		return nil, errors.Wrapf(err, "shard %s", bucket)
	}

	n := int(table.NumRows())
	residuals, err := stringColumn(table, 0, n)
	if err != nil {
		return nil, errors.Wrapf(err, "shard %s: column %s", bucket, colHash)
	}

	counters := make([][]int64, 4)
	for i := range counters {
		counters[i], err = int64Column(table, i+1, n)
		if err != nil {
			return nil, errors.Wrapf(err, "shard %s: column %s",
				bucket, schema.Field(i+1).Name)
		}
	}

	records := make(map[string]Record, n)
	for i := 0; i < n; i++ {
		key := residuals[i]
		if len(key) != digest.ResidualLen {
			return nil, errors.Wrapf(ErrCorruptData,
				"shard %s: row %d: residual key %q has length %d, want %d",
				bucket, i, key, len(key), digest.ResidualLen)
		}
		if _, dup := records[key]; dup {
			return nil, errors.Wrapf(ErrCorruptData,
				"shard %s: duplicate residual key %q", bucket, key)
		}
		records[key] = Record{
			ResidualKey: key,
			PeakTF:      int(counters[0][i]),
			PeakDF:      int(counters[1][i]),
			SumTF:       counters[2][i],
			SumDF:       counters[3][i],
		}
	}

	return &Shard{bucket: bucket, records: records}, nil
}

// matchSchema verifies that a decoded schema carries the contract columns:
// same count, names, and types, in order. The comparison is structural, not
// arrow's Schema.Equal: parquet round trips attach per-field metadata (for
// one, pqarrow tags every field with "PARQUET:field_id" on read), and
// metadata must not fail a well-formed file. Nullability is also not
// compared; a column declared nullable is acceptable as long as no value in
// it actually is null, which the column readers enforce row by row.
func matchSchema(schema *arrow.Schema) error {
	want := fileSchema.Fields()
	got := schema.Fields()
	if len(got) != len(want) {
		return errors.Wrapf(ErrCorruptData,
			"schema mismatch: have %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name || !arrow.TypeEqual(got[i].Type, want[i].Type) {
			return errors.Wrapf(ErrCorruptData,
				"schema mismatch: column %d is %q %s, want %q %s",
				i, got[i].Name, got[i].Type, want[i].Name, want[i].Type)
		}
	}
	return nil
}

// stringColumn flattens column col into a single slice of n strings.
func stringColumn(table arrow.Table, col, n int) ([]string, error) {
	out := make([]string, 0, n)
	for _, chunk := range table.Column(col).Data().Chunks() {
		data, ok := chunk.(*array.String)
		if !ok || data.NullN() != 0 {
			return nil, errors.Wrap(ErrCorruptData, "expected non-null utf8 values")
		}
		for i := 0; i < data.Len(); i++ {
			out = append(out, data.Value(i))
		}
	}
	return out, nil
}

// int64Column flattens column col into a single slice of n int64s.
func int64Column(table arrow.Table, col, n int) ([]int64, error) {
	out := make([]int64, 0, n)
	for _, chunk := range table.Column(col).Data().Chunks() {
		data, ok := chunk.(*array.Int64)
		if !ok || data.NullN() != 0 {
			return nil, errors.Wrap(ErrCorruptData, "expected non-null int64 values")
		}
		out = append(out, data.Int64Values()...)
	}
	return out, nil
}

// WriteFile encodes records as a shard file at path, in the exact format Load
// reads back. Records are written in residual-key order. The runtime lookup
// path never calls this; it serves the offline build tooling and tests.
func WriteFile(path string, records []Record) error {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ResidualKey < sorted[j].ResidualKey
	})

	mem := memory.NewGoAllocator()

	hashes := array.NewStringBuilder(mem)
	defer hashes.Release()
	peakTF := array.NewInt64Builder(mem)
	defer peakTF.Release()
	peakDF := array.NewInt64Builder(mem)
	defer peakDF.Release()
	sumTF := array.NewInt64Builder(mem)
	defer sumTF.Release()
	sumDF := array.NewInt64Builder(mem)
	defer sumDF.Release()

	for _, r := range sorted {
		hashes.Append(r.ResidualKey)
		peakTF.Append(int64(r.PeakTF))
		peakDF.Append(int64(r.PeakDF))
		sumTF.Append(r.SumTF)
		sumDF.Append(r.SumDF)
	}

	chunks := []arrow.Array{
		hashes.NewArray(),
		peakTF.NewArray(),
		peakDF.NewArray(),
		sumTF.NewArray(),
		sumDF.NewArray(),
	}
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()

	rec := array.NewRecord(fileSchema, chunks, int64(len(sorted)))
	table := array.NewTableFromRecords(fileSchema, []arrow.Record{rec})
	defer table.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating shard file")
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithDictionaryDefault(false))
	if err := pqarrow.WriteTable(table, f, 4096, props, pqarrow.DefaultWriterProps()); err != nil {
		return errors.Wrap(err, "writing shard file")
	}
	return nil
}
