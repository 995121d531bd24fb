package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/seqstats/internal/contig"
	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/summary"
)

func ptrFloat(v float64) *float64 { return &v }

func sampleSummary(id string) *summary.Summary {
	return &summary.Summary{
		FileID:             id,
		NumHits:            3,
		NumQSeqs:           2,
		TotalSeqLen:        140,
		AveAlnIdent:        95,
		MedAlnIdent:        95,
		MinAlnIdent:        90,
		MaxAlnIdent:        100,
		AveAlnLen:          70,
		MedAlnLen:          60.5,
		MinAlnLen:          50,
		MaxAlnLen:          100,
		AveQSeqRet:         220.0 / 3.0,
		PercAln:            95.454545,
		AveQSeqAll:         70,
		AveHitFreq:         150,
		AveQSeqIdent:       80,
		TotalAlignedApprox: 176,
		TotalAlignedExact:  172,
		OverallIdent:       ptrFloat(122.857142),
	}
}

func TestWriteSummaryFixedOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleSummary("a"), TextOptions{}))

	want := `Ave aln ident   : 95.00
Median aln ident: 95.00
Min aln ident   : 90.00
Max aln ident   : 100.00
Ave aln len     : 70.00
Min aln len     : 50.00
Max aln len     : 100.00
Ave Perc aln    : 95.45
Median aln len  : 60.5
Ave qseqret len : 73.33
Ave qseqall len : 70.00
Num queryseqs   : 2
Num queryhits   : 3
Ave hit freq    : 150.00
Ave qseq ident  : 80.00
`
	assert.Equal(t, want, buf.String())
}

func TestWriteSummaryTotals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleSummary("a"), TextOptions{Totals: true}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 18)
	assert.Equal(t, "Total aligned (exact): 172.00", lines[15])
	assert.Equal(t, "Total aligned (approx): 176.00", lines[16])
	assert.Equal(t, "Overall ident   : 122.86", lines[17])
}

func TestUnsetOverallIdent(t *testing.T) {
	s := sampleSummary("headers_only")
	s.OverallIdent = nil

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s, TextOptions{Totals: true}))
	assert.Contains(t, buf.String(), "Overall ident   : n/a\n")

	row := Row(s)
	assert.Equal(t, "", row[len(row)-1])

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, s))
	assert.NotContains(t, buf.String(), "overall_ident")
}

func TestWriteBuckets(t *testing.T) {
	s, err := contig.Analyze([]int{1000, 260000, 310000, 420000}, contig.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBuckets(&buf, s))
	want := `seqs_under_50k: 25.00 %
seqs_under_250k: 25.00 %
seqs_over_250k: 75.00 %
seqs_over_300k: 50.00 %
seqs_over_300k: 2
seqs_over_400k: 1
`
	assert.Equal(t, want, buf.String())
}

func TestWriteBucketsWithAssembly(t *testing.T) {
	lengths := []int{10, 20, 30}
	s, err := contig.Analyze(lengths, contig.Options{})
	require.NoError(t, err)
	s.Assembly = contig.AssemblyStats(lengths)

	var buf bytes.Buffer
	require.NoError(t, WriteBuckets(&buf, s))
	assert.Contains(t, buf.String(), "n50: 30\n")
	assert.Contains(t, buf.String(), "total_bp: 60\n")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSummary("sample_01")))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sample_01", decoded["file_id"])
	assert.Equal(t, 150.0, decoded["ave_hitfreq"])
}

func TestWriteJSONKeepsBandOperators(t *testing.T) {
	s, err := contig.Analyze([]int{10, 60000}, contig.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, s))
	assert.Contains(t, buf.String(), `"op": "<"`)
	assert.Contains(t, buf.String(), `"op": ">"`)
	assert.NotContains(t, buf.String(), `\u003`)
}

func TestCSVAccumulatorWritesHeaderOnce(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	acc, err := OpenCSVAccumulator(mfs, "blast_summary.csv")
	require.NoError(t, err)
	require.NoError(t, acc.Append(sampleSummary("a")))
	assert.Equal(t, 1, acc.Rows())
	require.NoError(t, acc.Close())

	acc, err = OpenCSVAccumulator(mfs, "blast_summary.csv")
	require.NoError(t, err)
	require.NoError(t, acc.Append(sampleSummary("b")))
	require.NoError(t, acc.Close())

	lines := strings.Split(strings.TrimSpace(mfs.Contents("blast_summary.csv")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "file_id,aln_ident,qseq_ident,aln_len,qseqret,qseqall,num_qseqs,num_hits,hitfreq,overall_ident", lines[0])
	assert.Equal(t, "a,95.0000,80.0000,70.0000,73.3333,70.0000,2,3,150.0000,122.8571", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "b,"))
}

func TestCSVAccumulatorEmptyFileGetsHeader(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("acc.csv", nil)

	acc, err := OpenCSVAccumulator(mfs, "acc.csv")
	require.NoError(t, err)
	require.NoError(t, acc.Close())
	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", mfs.Contents("acc.csv"))
}

func TestCSVAccumulatorRejectsForeignFile(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("acc.csv", []byte("id,value\n1,2\n"))

	_, err := OpenCSVAccumulator(mfs, "acc.csv")
	assert.ErrorContains(t, err, "unexpected header")
}
