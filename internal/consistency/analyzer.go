package consistency

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/drosophila-popgen/snpeff-consistency/internal/annotate"
	"github.com/drosophila-popgen/snpeff-consistency/internal/vcf"
)

// ResultWriter receives verdicts in input order.
type ResultWriter interface {
	Write(r Result) error
	Flush() error
}

// Recorder accumulates run statistics. Calls are serialized and arrive in
// input order.
type Recorder interface {
	Add(r Result)
	Skip(reason SkipReason)
}

// Analyzer runs the parse → classify → resolve pipeline over a VCF stream.
type Analyzer struct {
	resolver *Resolver
	infoKey  string
	workers  int
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer that reads the default EFF key sequentially.
func NewAnalyzer(r *Resolver) *Analyzer {
	return &Analyzer{
		resolver: r,
		infoKey:  vcf.DefaultEffectKey,
		workers:  1,
		logger:   zap.NewNop(),
	}
}

// SetInfoKey sets the INFO key holding effect descriptors.
func (a *Analyzer) SetInfoKey(key string) {
	a.infoKey = key
}

// SetWorkers sets the number of resolver workers. Values below 2 resolve
// sequentially.
func (a *Analyzer) SetWorkers(n int) {
	a.workers = n
}

// SetLogger sets the logger for warning and info messages.
func (a *Analyzer) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Analyze resolves a single variant read from the given input line. It
// returns SkipNoAnnotation when the variant carries no standard effect
// descriptor.
func (a *Analyzer) Analyze(v *vcf.Variant, line int) (Result, SkipReason) {
	raw, ok := v.EffectDescriptors(a.infoKey)
	if !ok {
		return Result{}, SkipNoAnnotation
	}

	effects, custom := annotate.ParseEffects(raw)
	if len(effects) == 0 {
		return Result{}, SkipNoAnnotation
	}

	for _, e := range effects {
		if e.Malformed {
			a.logger.Warn("malformed effect descriptor",
				zap.Int("line", line),
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos),
				zap.String("descriptor", e.Raw),
				zap.Stringer("class", e.Class()))
		}
		if e.CodonMismatch() {
			a.logger.Debug("codon change contradicts effect name",
				zap.Int("line", line),
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos),
				zap.String("effect", e.Name),
				zap.Stringer("codon", e.Codon))
		}
	}
	if v.IsMultiAllelic() {
		a.logger.Debug("multi-allelic variant resolved on effect names only",
			zap.Int("line", line),
			zap.String("chrom", v.Chrom),
			zap.Int64("pos", v.Pos),
			zap.String("alt", v.Alt))
	}

	return Result{
		Chrom:   v.Chrom,
		Pos:     v.Pos,
		Ref:     v.Ref,
		Alt:     v.Alt,
		Verdict: a.resolver.Resolve(effects, custom),
	}, ""
}

// AnalyzeAll resolves every variant from parser, sending verdicts to writer
// and statistics to rec in input order. Malformed data lines and variants
// without annotation are skipped and recorded; I/O errors abort the run.
func (a *Analyzer) AnalyzeAll(parser vcf.VariantParser, writer ResultWriter, rec Recorder) error {
	handle := func(r WorkResult) error {
		switch {
		case r.Err != nil:
			a.logger.Warn("skipping malformed line", zap.Int("line", r.Line), zap.Error(r.Err))
			rec.Skip(SkipMalformed)
		case r.Skip != "":
			a.logger.Debug("skipping variant",
				zap.Int("line", r.Line),
				zap.String("chrom", r.Variant.Chrom),
				zap.Int64("pos", r.Variant.Pos),
				zap.String("reason", string(r.Skip)))
			rec.Skip(r.Skip)
		default:
			rec.Add(r.Result)
			if err := writer.Write(r.Result); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
		return nil
	}

	var err error
	if a.workers < 2 {
		err = a.analyzeSequential(parser, handle)
	} else {
		err = a.analyzeParallel(parser, handle)
	}
	if err != nil {
		return err
	}

	return writer.Flush()
}

func (a *Analyzer) analyzeSequential(parser vcf.VariantParser, handle func(WorkResult) error) error {
	for seq := 0; ; seq++ {
		item, done, err := nextItem(parser, seq)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := handle(a.process(item)); err != nil {
			return err
		}
	}
}

func (a *Analyzer) analyzeParallel(parser vcf.VariantParser, handle func(WorkResult) error) error {
	items := make(chan WorkItem, 2*a.workers)
	var readErr error

	go func() {
		defer close(items)
		for seq := 0; ; seq++ {
			item, done, err := nextItem(parser, seq)
			if err != nil {
				readErr = err
				return
			}
			if done {
				return
			}
			items <- item
		}
	}()

	if err := OrderedCollect(a.ParallelAnalyze(items, a.workers), handle); err != nil {
		return err
	}

	return readErr
}

// nextItem reads the next data line. Line-level parse errors become work
// items so they are counted in order; other read errors are returned.
func nextItem(parser vcf.VariantParser, seq int) (WorkItem, bool, error) {
	v, err := parser.Next()
	if err != nil {
		var pe *vcf.ParseError
		if errors.As(err, &pe) {
			return WorkItem{Seq: seq, Line: pe.Line, Err: err}, false, nil
		}
		return WorkItem{}, false, fmt.Errorf("read variant: %w", err)
	}
	if v == nil {
		return WorkItem{}, true, nil
	}
	return WorkItem{Seq: seq, Line: parser.LineNumber(), Variant: v}, false, nil
}

func (a *Analyzer) process(item WorkItem) WorkResult {
	if item.Err != nil {
		return WorkResult{Seq: item.Seq, Line: item.Line, Err: item.Err}
	}
	res, skip := a.Analyze(item.Variant, item.Line)
	return WorkResult{Seq: item.Seq, Line: item.Line, Variant: item.Variant, Result: res, Skip: skip}
}
