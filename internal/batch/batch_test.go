package batch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/seqstats/internal/blast"
	"github.com/banshee-data/seqstats/internal/db"
	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/summary"
)

const (
	tableA = "q1,1,100,0,0,95.0,95,100,100\nq2,1,50,1,0,90.0,45,50,80\n"
	fastaA = ">q1\n" + "ACGTACGTAC\nACGTACGTAC\n" + ">q2\nACGT\n>q3\nAC\n"
	tableB = "q9,1,8,0,0,100.0,8,8,8\n"
	fastaB = ">q9\nACGTACGT\n"
)

func newBatchFS() *fsutil.MemoryFileSystem {
	fsys := fsutil.NewMemoryFileSystem()
	fsys.WriteFile("runs/b.csv", []byte(tableB))
	fsys.WriteFile("runs/a.csv", []byte(tableA))
	fsys.WriteFile("runs/a.fa", []byte(fastaA))
	fsys.WriteFile("runs/b.fa", []byte(fastaB))
	fsys.WriteFile("runs/notes.txt", []byte("ignored"))
	return fsys
}

func TestDiscover(t *testing.T) {
	tables, records, err := Discover(newBatchFS(), "runs", ".csv", ".fa")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/a.csv", "runs/b.csv"}, tables)
	assert.Equal(t, []string{"runs/a.fa", "runs/b.fa"}, records)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, _, err := Discover(fsutil.NewMemoryFileSystem(), "nope", ".csv", ".fa")
	require.Error(t, err)
}

func TestDiscoverSameExtension(t *testing.T) {
	_, _, err := Discover(newBatchFS(), "runs", ".csv", ".CSV")
	require.Error(t, err)
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	fsys.WriteFile("empty/readme.md", nil)
	tables, records, err := Discover(fsys, "empty", ".csv", ".fa")
	require.NoError(t, err)
	assert.Empty(t, tables)
	assert.Empty(t, records)
}

func TestMatchPairsMisorderedThirdPair(t *testing.T) {
	// Listing order differs in the third position; pairing by position
	// would match s3.csv with s4.fa.
	tables := []string{"d/s1.csv", "d/s2.csv", "d/s3.csv", "d/s4.csv"}
	records := []string{"d/s1.fa", "d/s2.fa", "d/s4.fa", "d/s3.fa"}

	pairs, err := MatchPairs(tables, records, ".csv", ".fa")
	require.NoError(t, err)

	want := []Pair{
		{Stem: "s1", Table: "d/s1.csv", Records: "d/s1.fa"},
		{Stem: "s2", Table: "d/s2.csv", Records: "d/s2.fa"},
		{Stem: "s3", Table: "d/s3.csv", Records: "d/s3.fa"},
		{Stem: "s4", Table: "d/s4.csv", Records: "d/s4.fa"},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("MatchPairs() mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchPairsReportsEveryOffender(t *testing.T) {
	tables := []string{"d/a.csv", "d/lonely.csv", "x/a.csv"}
	records := []string{"d/a.fa", "d/orphan.fa"}

	_, err := MatchPairs(tables, records, ".csv", ".fa")
	require.Error(t, err)

	var perr *PairingError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []string{"d/lonely.csv"}, perr.UnmatchedTables)
	assert.Equal(t, []string{"d/orphan.fa"}, perr.UnmatchedRecords)
	assert.Equal(t, map[string][]string{"a": {"d/a.csv", "x/a.csv"}}, perr.Duplicates)

	msg := err.Error()
	for _, name := range []string{"d/lonely.csv", "d/orphan.fa", "x/a.csv"} {
		assert.Contains(t, msg, name)
	}
}

func TestMatchPairsEmpty(t *testing.T) {
	pairs, err := MatchPairs(nil, nil, ".csv", ".fa")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

type memAppender struct{ got []*summary.Summary }

func (m *memAppender) Append(s *summary.Summary) error {
	m.got = append(m.got, s)
	return nil
}

type memInserter struct{ got []*db.SummaryRecord }

func (m *memInserter) Insert(rec *db.SummaryRecord) error {
	m.got = append(m.got, rec)
	return nil
}

func TestRunnerRun(t *testing.T) {
	fsys := newBatchFS()
	tables, records, err := Discover(fsys, "runs", ".csv", ".fa")
	require.NoError(t, err)
	pairs, err := MatchPairs(tables, records, ".csv", ".fa")
	require.NoError(t, err)

	var out bytes.Buffer
	csvSink := &memAppender{}
	store := &memInserter{}
	r := &Runner{FS: fsys, Out: &out, CSV: csvSink, Store: store, RunID: "run-1"}

	res := r.Run(context.Background(), pairs)
	require.NoError(t, res.Err())
	require.Len(t, res.Summaries, 2)
	assert.False(t, res.Canceled)

	a := res.Summaries[0]
	assert.Equal(t, "a", a.FileID)
	assert.Equal(t, 2, a.NumHits)
	assert.Equal(t, 3, a.NumQSeqs)
	assert.Equal(t, 26, a.TotalSeqLen)
	assert.Equal(t, "b", res.Summaries[1].FileID)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "<runs/a.csv>\n<runs/a.fa>\nAve aln ident"), text)
	assert.Contains(t, text, "\n\n<runs/b.csv>\n<runs/b.fa>\n", "reports are separated by a blank line")
	assert.True(t, strings.HasSuffix(text, "Ave qseq ident  : 100.00\n\n"), text)
	assert.Equal(t, 2, strings.Count(text, "Ave aln ident"))

	assert.Len(t, csvSink.got, 2)
	require.Len(t, store.got, 2)
	assert.Equal(t, "run-1", store.got[1].RunID)
	assert.Equal(t, "runs/b.csv", store.got[1].TablePath)
	assert.Equal(t, "runs/b.fa", store.got[1].RecordPath)
}

func TestRunnerContinuesAfterFailure(t *testing.T) {
	fsys := newBatchFS()
	fsys.WriteFile("runs/a.csv", []byte("q1,1,x,0,0,95.0,95,100,100\n"))

	pairs := []Pair{
		{Stem: "a", Table: "runs/a.csv", Records: "runs/a.fa"},
		{Stem: "b", Table: "runs/b.csv", Records: "runs/b.fa"},
	}
	var out bytes.Buffer
	res := (&Runner{FS: fsys, Out: &out}).Run(context.Background(), pairs)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "a", res.Failures[0].Pair.Stem)
	var rowErr *blast.RowError
	assert.True(t, errors.As(res.Err(), &rowErr))
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, "b", res.Summaries[0].FileID)
	assert.NotContains(t, out.String(), "runs/a.csv")
}

func TestRunnerEmptyTableFails(t *testing.T) {
	fsys := newBatchFS()
	fsys.WriteFile("runs/a.csv", nil)

	res := (&Runner{FS: fsys}).Run(context.Background(), []Pair{{Stem: "a", Table: "runs/a.csv", Records: "runs/a.fa"}})
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Err(), blast.ErrEmptyTable)
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pairs := []Pair{{Stem: "a", Table: "runs/a.csv", Records: "runs/a.fa"}}
	res := (&Runner{FS: newBatchFS()}).Run(ctx, pairs)
	assert.True(t, res.Canceled)
	assert.Empty(t, res.Summaries)
	assert.NoError(t, res.Err())
}

func TestRunnerJSON(t *testing.T) {
	var out bytes.Buffer
	pairs := []Pair{{Stem: "b", Table: "runs/b.csv", Records: "runs/b.fa"}}
	res := (&Runner{FS: newBatchFS(), Out: &out, JSON: true}).Run(context.Background(), pairs)
	require.NoError(t, res.Err())

	assert.Contains(t, out.String(), `"file_id": "b"`)
	assert.Contains(t, out.String(), `"table": "runs/b.csv"`)
	assert.Contains(t, out.String(), `"ave_hitfreq": 100`)
}

func TestRunnerTabSeparated(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	fsys.WriteFile("t/x.tsv", []byte(strings.ReplaceAll(tableB, ",", "\t")))
	fsys.WriteFile("t/x.fa", []byte(fastaB))

	res := (&Runner{FS: fsys, Comma: '\t'}).Run(context.Background(), []Pair{{Stem: "x", Table: "t/x.tsv", Records: "t/x.fa"}})
	require.NoError(t, res.Err())
	require.Len(t, res.Summaries, 1)
	require.NotNil(t, res.Summaries[0].OverallIdent)
	assert.InDelta(t, 100.0, *res.Summaries[0].OverallIdent, 1e-9)
}
