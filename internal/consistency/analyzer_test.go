package consistency

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/drosophila-popgen/snpeff-consistency/internal/vcf"
)

type memWriter struct {
	results []Result
	flushed bool
	err     error
}

func (w *memWriter) Write(r Result) error {
	if w.err != nil {
		return w.err
	}
	w.results = append(w.results, r)
	return nil
}

func (w *memWriter) Flush() error {
	w.flushed = true
	return nil
}

type memRecorder struct {
	added int
	skips []SkipReason
}

func (m *memRecorder) Add(Result)        { m.added++ }
func (m *memRecorder) Skip(r SkipReason) { m.skips = append(m.skips, r) }

// failingParser yields one variant and then an I/O error.
type failingParser struct{ calls int }

func (p *failingParser) Next() (*vcf.Variant, error) {
	p.calls++
	if p.calls == 1 {
		return &vcf.Variant{Chrom: "2L", Pos: 1, Info: map[string]interface{}{"EFF": "INTRON(MODIFIER||||||||||)"}}, nil
	}
	return nil, errors.New("disk gone")
}
func (p *failingParser) Close() error    { return nil }
func (p *failingParser) LineNumber() int { return p.calls }

func analyzeFile(t *testing.T, a *Analyzer) (*memWriter, *memRecorder) {
	t.Helper()
	parser, err := vcf.NewParser(findTestFile(t, "consistency.vcf"))
	require.NoError(t, err)
	defer parser.Close()

	w, rec := &memWriter{}, &memRecorder{}
	require.NoError(t, a.AnalyzeAll(parser, w, rec))
	return w, rec
}

func TestAnalyzeAll_Rule(t *testing.T) {
	w, rec := analyzeFile(t, newTestAnalyzer(t, ModeRule))

	assert.True(t, w.flushed)
	require.Len(t, w.results, 5)
	assert.Equal(t, 5, rec.added)
	assert.Equal(t, []SkipReason{SkipNoAnnotation, SkipMalformed}, rec.skips)

	type row struct {
		chrom      string
		pos        int64
		effect     string
		consistent bool
	}
	want := []row{
		{"2L", 5000, "INTRON", true},
		{"2L", 6000, "NON_SYNONYMOUS_CODING+SI", true},
		{"2L", 7000, "tie:DOWNSTREAM=UPSTREAM", false},
		{"3R", 200, "unclear:INTRON=67%", false},
		{"X", 900, "INTERGENIC", true},
	}
	for i, r := range w.results {
		assert.Equal(t, want[i], row{r.Chrom, r.Pos, r.Verdict.Effect, r.Verdict.Consistent}, "result %d", i)
	}

	coding := w.results[1].Verdict
	assert.Equal(t, MethodFirstEffect, coding.Method)
	assert.Equal(t, "dm6_short_introns", coding.Custom.Type())
	assert.Equal(t, "CAT>CGT", coding.Codon.Change)
	assert.Equal(t, CodonConsistent, coding.Codon.Status)
}

func TestAnalyzeAll_DistanceFilter(t *testing.T) {
	opts := DefaultOptions(ModeRule)
	opts.Distance = 500
	r, err := NewResolver(opts)
	require.NoError(t, err)

	w, _ := analyzeFile(t, NewAnalyzer(r))

	upstream := w.results[2].Verdict
	assert.Equal(t, "UPSTREAM", upstream.Effect)
	assert.True(t, upstream.Consistent)
	assert.True(t, upstream.DistanceFiltered)
}

func TestAnalyzeAll_Specific(t *testing.T) {
	w, rec := analyzeFile(t, newTestAnalyzer(t, ModeSpecific))

	var effects []string
	for _, r := range w.results {
		effects = append(effects, r.Verdict.Effect)
	}
	assert.Equal(t, []string{"INTRON", "NON_SYNONYMOUS_CODING", Undefined, "INTRON", "INTERGENIC"}, effects)
	assert.Len(t, rec.skips, 2)
}

func TestAnalyzeAll_WorkersProduceSameOutput(t *testing.T) {
	for _, mode := range []Mode{ModeStrict, ModeRule, ModeSpecific} {
		t.Run(string(mode), func(t *testing.T) {
			seq := newTestAnalyzer(t, mode)
			par := newTestAnalyzer(t, mode)
			par.SetWorkers(4)

			ws, rs := analyzeFile(t, seq)
			wp, rp := analyzeFile(t, par)

			assert.Equal(t, ws.results, wp.results)
			assert.Equal(t, rs, rp)
		})
	}
}

func TestAnalyzeAll_ReadErrorAborts(t *testing.T) {
	for _, workers := range []int{1, 4} {
		a := newTestAnalyzer(t, ModeRule)
		a.SetWorkers(workers)

		w := &memWriter{}
		err := a.AnalyzeAll(&failingParser{}, w, &memRecorder{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk gone")
		assert.False(t, w.flushed)
	}
}

func TestAnalyzeAll_WriteErrorAborts(t *testing.T) {
	parser, err := vcf.NewParser(findTestFile(t, "consistency.vcf"))
	require.NoError(t, err)
	defer parser.Close()

	w := &memWriter{err: errors.New("no space left")}
	err = newTestAnalyzer(t, ModeRule).AnalyzeAll(parser, w, &memRecorder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write result")
}

func TestAnalyze_CustomInfoKey(t *testing.T) {
	a := newTestAnalyzer(t, ModeStrict)
	a.SetInfoKey("ANN_CLASSIC")

	v := &vcf.Variant{Chrom: "2L", Pos: 10, Info: map[string]interface{}{
		"EFF":         "INTRON(MODIFIER||||||||||)",
		"ANN_CLASSIC": "EXON(MODIFIER||||||||||)",
	}}
	res, skip := a.Analyze(v, 12)
	assert.Empty(t, skip)
	assert.Equal(t, "EXON", res.Verdict.Effect)
}

func TestAnalyze_CustomOnlyIsSkipped(t *testing.T) {
	a := newTestAnalyzer(t, ModeRule)
	v := &vcf.Variant{Chrom: "2L", Pos: 10, Info: map[string]interface{}{
		"EFF": "CUSTOM[dm6_short_introns](MODIFIER||||||||||)",
	}}
	_, skip := a.Analyze(v, 12)
	assert.Equal(t, SkipNoAnnotation, skip)
}

func TestAnalyze_LogsMalformedDescriptor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := newTestAnalyzer(t, ModeStrict)
	a.SetLogger(zap.New(core))

	v := &vcf.Variant{Chrom: "2L", Pos: 10, Alt: "T,C", Info: map[string]interface{}{
		"EFF": "INTRON,INTRON(MODIFIER||||||||||)",
	}}
	res, skip := a.Analyze(v, 12)
	assert.Empty(t, skip)
	assert.Equal(t, "INTRON", res.Verdict.Effect)

	malformed := logs.FilterMessage("malformed effect descriptor").All()
	require.Len(t, malformed, 1)
	assert.Equal(t, int64(12), malformed[0].ContextMap()["line"])
	assert.Equal(t, 1, logs.FilterMessage("multi-allelic variant resolved on effect names only").Len())
}

func TestAnalyze_LogsCodonMismatch(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := newTestAnalyzer(t, ModeRule)
	a.SetLogger(zap.New(core))

	v := &vcf.Variant{Chrom: "2L", Pos: 10, Alt: "A", Info: map[string]interface{}{
		"EFF": "SYNONYMOUS_CODING(LOW|SILENT|Cat/Cgt|H12|250|CG2672|protein_coding|CODING|FBtr0078101|3|A)",
	}}
	res, _ := a.Analyze(v, 12)
	assert.Equal(t, "SYNONYMOUS_CODING", res.Verdict.Effect)
	assert.Equal(t, 1, logs.FilterMessage("codon change contradicts effect name").Len())
}

func TestAnalyzeAll_WarningsCarryLineNumber(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := newTestAnalyzer(t, ModeRule)
	a.SetLogger(zap.New(core))

	analyzeFile(t, a)

	malformed := logs.FilterMessage("skipping malformed line").All()
	require.Len(t, malformed, 1)
	assert.Equal(t, int64(16), malformed[0].ContextMap()["line"])

	skipped := logs.FilterMessage("skipping variant").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, int64(14), skipped[0].ContextMap()["line"])
	assert.Equal(t, "2R", skipped[0].ContextMap()["chrom"])
}

// findTestFile locates a file in the repository testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
