package shard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"
	"github.com/stretchr/testify/require"
)

// testRecords is a small fixture shard's worth of records.
var testRecords = []Record{
	{ResidualKey: "53ca268240ca76670c8566ee54568a", PeakTF: 2000, PeakDF: 2000, SumTF: 892451, SumDF: 312876},
	{ResidualKey: "00000000000000000000000000abcd", PeakTF: 1890, PeakDF: 1900, SumTF: 17, SumDF: 9},
	{ResidualKey: "ffffffffffffffffffffffffffff00", PeakTF: 1950, PeakDF: 1940, SumTF: 120330, SumDF: 55012},
}

// writeTestShard writes records to a shard file in dir and returns its path.
func writeTestShard(t *testing.T, dir, bucket string, records []Record) string {
	t.Helper()
	path := filepath.Join(dir, bucket+".parquet")
	if err := WriteFile(path, records); err != nil {
		t.Fatalf("Failed to write shard file: %v", err)
	}
	return path
}

// TestLoadRoundTrip tests that Load reads back exactly what WriteFile wrote
func TestLoadRoundTrip(t *testing.T) {
	path := writeTestShard(t, t.TempDir(), "df", testRecords)

	s, err := Load(path, "df")
	if err != nil {
		t.Fatalf("Failed to load shard: %v", err)
	}

	if s.Bucket() != "df" {
		t.Errorf("Expected bucket 'df', got %q", s.Bucket())
	}
	if s.Len() != len(testRecords) {
		t.Errorf("Expected %d records, got %d", len(testRecords), s.Len())
	}

	for _, want := range testRecords {
		got, ok := s.Lookup(want.ResidualKey)
		if !ok {
			t.Fatalf("Record %q missing after round trip", want.ResidualKey)
		}
		if got != want {
			t.Errorf("Lookup(%q) = %+v, want %+v", want.ResidualKey, got, want)
		}
	}
}

// TestLoadIgnoresFieldMetadata tests that schema checking is structural
func TestLoadIgnoresFieldMetadata(t *testing.T) {
	// Parquet writers habitually decorate fields with metadata, and pqarrow
	// itself tags every field with "PARQUET:field_id" when reading a file
	// back. Only column names and types decide whether a shard is valid.
	md := arrow.NewMetadata([]string{"PARQUET:field_id"}, []string{"-1"})
	fields := []arrow.Field{
		{Name: "hash", Type: arrow.BinaryTypes.String, Metadata: md},
		{Name: "peak_tf", Type: arrow.PrimitiveTypes.Int64, Metadata: md},
		{Name: "peak_df", Type: arrow.PrimitiveTypes.Int64, Metadata: md},
		{Name: "sum_tf", Type: arrow.PrimitiveTypes.Int64, Metadata: md},
		{Name: "sum_df", Type: arrow.PrimitiveTypes.Int64, Metadata: md},
	}
	path := filepath.Join(t.TempDir(), "df.parquet")
	writeParquetRow(t, path, fields, testRecords[0])

	s, err := Load(path, "df")
	require.NoError(t, err)

	got, ok := s.Lookup(testRecords[0].ResidualKey)
	require.True(t, ok)
	require.Equal(t, testRecords[0], got)
}

// TestLoadNullableColumns tests that nullable-declared columns are accepted
// when no value is actually null
func TestLoadNullableColumns(t *testing.T) {
	fields := []arrow.Field{
		{Name: "hash", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "peak_tf", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "peak_df", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "sum_tf", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "sum_df", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}
	path := filepath.Join(t.TempDir(), "df.parquet")
	writeParquetRow(t, path, fields, testRecords[0])

	s, err := Load(path, "df")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
}

// TestLoadEmptyShard tests that a shard with zero records is valid
func TestLoadEmptyShard(t *testing.T) {
	path := writeTestShard(t, t.TempDir(), "00", nil)

	s, err := Load(path, "00")
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())

	_, ok := s.Lookup("53ca268240ca76670c8566ee54568a")
	require.False(t, ok)
}

// TestLookupAbsent tests that absence is reported without error
func TestLookupAbsent(t *testing.T) {
	path := writeTestShard(t, t.TempDir(), "df", testRecords)

	s, err := Load(path, "df")
	require.NoError(t, err)

	rec, ok := s.Lookup("111111111111111111111111111111")
	if ok {
		t.Errorf("Expected absence, got record %+v", rec)
	}
}

// TestLoadMissingFile tests the missing-data error path
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "df.parquet"), "df")

	if !errors.Is(err, ErrMissingData) {
		t.Errorf("Expected ErrMissingData, got %v", err)
	}
	if errors.Is(err, ErrCorruptData) {
		t.Errorf("Missing file must not be reported as corrupt: %v", err)
	}
}

// TestLoadCorruptFile tests the corrupt-data error paths
func TestLoadCorruptFile(t *testing.T) {
	t.Run("not parquet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "df.parquet")
		if err := os.WriteFile(path, []byte("this is not a parquet file"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := Load(path, "df")
		if !errors.Is(err, ErrCorruptData) {
			t.Errorf("Expected ErrCorruptData, got %v", err)
		}
	})

	t.Run("wrong schema", func(t *testing.T) {
		// A parquet file with a renamed counter column.
		path := filepath.Join(t.TempDir(), "df.parquet")
		writeParquet(t, path, []arrow.Field{
			{Name: "hash", Type: arrow.BinaryTypes.String},
			{Name: "peak_tf", Type: arrow.PrimitiveTypes.Int64},
			{Name: "peak_df", Type: arrow.PrimitiveTypes.Int64},
			{Name: "total_tf", Type: arrow.PrimitiveTypes.Int64},
			{Name: "sum_df", Type: arrow.PrimitiveTypes.Int64},
		})

		_, err := Load(path, "df")
		if !errors.Is(err, ErrCorruptData) {
			t.Errorf("Expected ErrCorruptData for renamed column, got %v", err)
		}
	})

	t.Run("wrong column type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "df.parquet")
		writeParquet(t, path, []arrow.Field{
			{Name: "hash", Type: arrow.PrimitiveTypes.Int64},
			{Name: "peak_tf", Type: arrow.PrimitiveTypes.Int64},
			{Name: "peak_df", Type: arrow.PrimitiveTypes.Int64},
			{Name: "sum_tf", Type: arrow.PrimitiveTypes.Int64},
			{Name: "sum_df", Type: arrow.PrimitiveTypes.Int64},
		})

		_, err := Load(path, "df")
		if !errors.Is(err, ErrCorruptData) {
			t.Errorf("Expected ErrCorruptData for retyped column, got %v", err)
		}
	})

	t.Run("extra column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "df.parquet")
		writeParquet(t, path, []arrow.Field{
			{Name: "hash", Type: arrow.BinaryTypes.String},
			{Name: "peak_tf", Type: arrow.PrimitiveTypes.Int64},
			{Name: "peak_df", Type: arrow.PrimitiveTypes.Int64},
			{Name: "sum_tf", Type: arrow.PrimitiveTypes.Int64},
			{Name: "sum_df", Type: arrow.PrimitiveTypes.Int64},
			{Name: "year", Type: arrow.PrimitiveTypes.Int64},
		})

		_, err := Load(path, "df")
		if !errors.Is(err, ErrCorruptData) {
			t.Errorf("Expected ErrCorruptData for extra column, got %v", err)
		}
	})

	t.Run("duplicate residual key", func(t *testing.T) {
		dup := []Record{
			{ResidualKey: "53ca268240ca76670c8566ee54568a", PeakTF: 2000},
			{ResidualKey: "53ca268240ca76670c8566ee54568a", PeakTF: 1990},
		}
		path := writeTestShard(t, t.TempDir(), "df", dup)

		_, err := Load(path, "df")
		if !errors.Is(err, ErrCorruptData) {
			t.Errorf("Expected ErrCorruptData for duplicate key, got %v", err)
		}
	})

	t.Run("bad residual length", func(t *testing.T) {
		short := []Record{{ResidualKey: "abc", PeakTF: 2000}}
		path := writeTestShard(t, t.TempDir(), "df", short)

		_, err := Load(path, "df")
		if !errors.Is(err, ErrCorruptData) {
			t.Errorf("Expected ErrCorruptData for short residual key, got %v", err)
		}
	})
}

// writeParquetRow writes a parquet file holding one record under a
// caller-controlled five-field schema, for exercising schema tolerance.
func writeParquetRow(t *testing.T, path string, fields []arrow.Field, r Record) {
	t.Helper()
	mem := memory.NewGoAllocator()

	hashes := array.NewStringBuilder(mem)
	hashes.Append(r.ResidualKey)
	counters := make([]*array.Int64Builder, 4)
	for i, v := range []int64{int64(r.PeakTF), int64(r.PeakDF), r.SumTF, r.SumDF} {
		counters[i] = array.NewInt64Builder(mem)
		counters[i].Append(v)
	}

	chunks := []arrow.Array{hashes.NewArray()}
	hashes.Release()
	for _, b := range counters {
		chunks = append(chunks, b.NewArray())
		b.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, chunks, 1)
	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithDictionaryDefault(false))
	if err := pqarrow.WriteTable(table, f, 4096, props, pqarrow.DefaultWriterProps()); err != nil {
		t.Fatalf("Failed to write test parquet file: %v", err)
	}
}

// writeParquet writes an empty parquet file with the given schema, for
// exercising schema validation.
func writeParquet(t *testing.T, path string, fields []arrow.Field) {
	t.Helper()
	mem := memory.NewGoAllocator()

	chunks := make([]arrow.Array, 0, len(fields))
	for _, field := range fields {
		switch field.Type {
		case arrow.BinaryTypes.String:
			b := array.NewStringBuilder(mem)
			chunks = append(chunks, b.NewArray())
			b.Release()
		case arrow.PrimitiveTypes.Int64:
			b := array.NewInt64Builder(mem)
			chunks = append(chunks, b.NewArray())
			b.Release()
		default:
			t.Fatalf("Unsupported test column type %v", field.Type)
		}
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, chunks, 0)
	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithDictionaryDefault(false))
	if err := pqarrow.WriteTable(table, f, 4096, props, pqarrow.DefaultWriterProps()); err != nil {
		t.Fatalf("Failed to write test parquet file: %v", err)
	}
}
