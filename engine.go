package sdrecon

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/sdrecon/classify"
	"github.com/hupe1980/sdrecon/fusion"
	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/reconstruct"
	"github.com/hupe1980/sdrecon/resource"
	"github.com/hupe1980/sdrecon/sdr"
	"github.com/hupe1980/sdrecon/similarity"
)

// Sample is one encoded image: the SDR produced by the encoder together with
// the image it was encoded from.
type Sample struct {
	// Name identifies the sample in reports and logs.
	Name string
	// Label selects the partition the sample belongs to.
	Label model.Label
	// Key identifies the example inside its partition.
	Key model.Key
	// SDR is the encoded representation of Image.
	SDR *sdr.SDR
	// Image is the binary pixel vector, row-major, width*height long.
	Image []uint8
}

// Confidence holds the fusion weights of the two candidates.
type Confidence struct {
	Associative float64
	Neighbor    float64
}

// Result is the outcome of a single reconstruction query.
type Result struct {
	// Associative is the overlap-weighted blend of the closest examples.
	Associative model.Reconstruction
	// Neighbor is the training image selected by the neighbor classifier.
	Neighbor model.Reconstruction
	// NeighborIndex is the position of Neighbor in its partition's gallery.
	NeighborIndex int
	// Fused is the confidence-weighted fusion of both candidates.
	Fused []uint8
	// Final is Fused after median smoothing.
	Final []uint8
}

// PartitionStats describes a single partition.
type PartitionStats struct {
	Label    model.Label
	Examples int
}

// Stats is a point-in-time snapshot of the engine.
type Stats struct {
	Partitions  []PartitionStats
	Examples    int
	MemoryBytes int64
}

// partition holds everything learned for one label.
// The classifier is trained with gallery indices as labels so a classified
// index maps back to a training image.
type partition struct {
	mu      sync.RWMutex
	label   model.Label
	rec     *reconstruct.Reconstructor
	cls     *classify.Classifier
	gallery [][]uint8
}

// Engine partitions training samples by label and answers reconstruction
// queries with both an associative reconstructor and a neighbor classifier,
// fusing their candidates into one image.
//
// Engine is safe for concurrent use. Writes are serialized per partition.
type Engine struct {
	opts options
	rc   *resource.Controller

	mu         sync.RWMutex
	partitions map[model.Label]*partition
}

// New creates an Engine.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		opts: o,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimitBytes,
			MaxWorkers:       int64(o.maxWorkers),
			QueriesPerSec:    o.queriesPerSec,
		}),
		partitions: make(map[model.Label]*partition),
	}, nil
}

// Dimensions returns the configured image grid.
func (e *Engine) Dimensions() (width, height int) {
	return e.opts.width, e.opts.height
}

func (e *Engine) imageLen() int {
	return e.opts.width * e.opts.height
}

func (e *Engine) checkSample(s Sample) error {
	if s.SDR == nil {
		return fmt.Errorf("%w: sample %q has no SDR", ErrInvalidArgument, s.Name)
	}
	if len(s.Image) != e.imageLen() {
		return fmt.Errorf("sample %q: %w", s.Name, &ErrLengthMismatch{Expected: e.imageLen(), Actual: len(s.Image)})
	}
	return nil
}

// footprint estimates the bytes retained by a stored sample: the image is
// held by both the reconstructor and the gallery, the SDR by both components.
func footprint(s Sample) int64 {
	return 2*int64(len(s.Image)) + 2*4*int64(s.SDR.Cardinality())
}

func (e *Engine) getOrCreatePartition(label model.Label) (*partition, error) {
	e.mu.RLock()
	p, ok := e.partitions[label]
	e.mu.RUnlock()
	if ok {
		return p, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.partitions[label]; ok {
		return p, nil
	}

	rec, err := reconstruct.NewWithOptions(e.opts.reconstructOpts...)
	if err != nil {
		return nil, err
	}
	cls, err := classify.NewWithOptions(e.opts.classifyOpts...)
	if err != nil {
		return nil, err
	}

	p = &partition{label: label, rec: rec, cls: cls}
	e.partitions[label] = p
	return p, nil
}

func (e *Engine) partition(label model.Label) (*partition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.partitions[label]
	if !ok {
		return nil, partitionError(label, ErrUnknownPartition)
	}
	return p, nil
}

// Train stores the samples in the partitions of their labels, creating
// partitions on demand. Training stops at the first failing sample; samples
// before it stay stored.
func (e *Engine) Train(ctx context.Context, samples ...Sample) error {
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.trainOne(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) trainOne(ctx context.Context, s Sample) (err error) {
	start := time.Now()
	defer func() {
		e.opts.metricsCollector.RecordTrain(time.Since(start), err)
		e.opts.logger.LogTrain(ctx, s.Label, s.Key, err)
	}()

	if err := e.checkSample(s); err != nil {
		return partitionError(s.Label, err)
	}

	bytes := footprint(s)
	if err := e.rc.TryAcquireMemory(bytes); err != nil {
		return partitionError(s.Label, err)
	}

	p, err := e.getOrCreatePartition(s.Label)
	if err != nil {
		e.rc.ReleaseMemory(bytes)
		return partitionError(s.Label, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.rec.Learn(s.Key, s.SDR, s.Image); err != nil {
		e.rc.ReleaseMemory(bytes)
		return partitionError(s.Label, err)
	}
	if err := p.cls.Train(s.SDR, model.Label(len(p.gallery))); err != nil {
		// Unreachable after checkSample; the reconstructor keeps the example.
		return partitionError(s.Label, err)
	}
	p.gallery = append(p.gallery, slices.Clone(s.Image))
	return nil
}

// candidates runs both components for query. The caller holds p.mu.
func (e *Engine) candidates(p *partition, query *sdr.SDR) (assoc []uint8, idx int, err error) {
	start := time.Now()
	assoc, err = p.rec.Predict(query, e.opts.associativeK)
	e.opts.metricsCollector.RecordPredict(e.opts.associativeK, time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("associative: %w", err)
	}

	start = time.Now()
	label, err := p.cls.Classify(query, e.opts.neighborK)
	e.opts.metricsCollector.RecordClassify(e.opts.neighborK, time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("neighbor: %w", err)
	}
	return assoc, int(label), nil
}

func (e *Engine) fuse(assoc, neighbor []uint8, conf Confidence) (fused, final []uint8, err error) {
	start := time.Now()
	defer func() {
		e.opts.metricsCollector.RecordFuse(time.Since(start), err)
	}()

	return fusion.FuseAndSmooth(assoc, neighbor, conf.Associative, conf.Neighbor, e.opts.width, e.opts.height)
}

// clampUnit maps rounding noise of similarity scores back into [0, 1].
func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}

// Reconstruct reconstructs the image encoded by query from the partition of
// label. If conf is nil, both candidates are weighted by their mutual cosine
// similarity, which reduces fusion to an unweighted average unless that
// similarity is zero.
func (e *Engine) Reconstruct(ctx context.Context, label model.Label, query *sdr.SDR, conf *Confidence) (res *Result, err error) {
	defer func() {
		var neighbor model.Label
		if res != nil {
			neighbor = model.Label(res.NeighborIndex)
		}
		e.opts.logger.LogReconstruct(ctx, label, neighbor, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == nil {
		return nil, fmt.Errorf("%w: nil query", ErrInvalidArgument)
	}

	p, err := e.partition(label)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	assoc, idx, err := e.candidates(p, query)
	var neighbor []uint8
	if err == nil {
		neighbor = slices.Clone(p.gallery[idx])
	}
	p.mu.RUnlock()
	if err != nil {
		return nil, partitionError(label, err)
	}

	var c Confidence
	if conf != nil {
		c = *conf
	} else {
		mutual, err := similarity.CosineSimilarity(assoc, neighbor)
		if err != nil {
			return nil, partitionError(label, err)
		}
		mutual = clampUnit(mutual)
		c = Confidence{Associative: mutual, Neighbor: mutual}
	}

	fused, final, err := e.fuse(assoc, neighbor, c)
	if err != nil {
		return nil, partitionError(label, err)
	}

	return &Result{
		Associative:   model.Reconstruction{Image: assoc}.WithConfidence(c.Associative),
		Neighbor:      model.Reconstruction{Image: neighbor}.WithConfidence(c.Neighbor),
		NeighborIndex: idx,
		Fused:         fused,
		Final:         final,
	}, nil
}

// Partitions returns the labels of all trained partitions in ascending order.
func (e *Engine) Partitions() []model.Label {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Sorted(maps.Keys(e.partitions))
}

// Stats returns a snapshot of the engine.
func (e *Engine) Stats() Stats {
	labels := e.Partitions()

	st := Stats{
		Partitions:  make([]PartitionStats, 0, len(labels)),
		MemoryBytes: e.rc.MemoryUsage(),
	}
	for _, label := range labels {
		p, err := e.partition(label)
		if err != nil {
			continue
		}
		p.mu.RLock()
		n := p.rec.Len()
		p.mu.RUnlock()

		st.Partitions = append(st.Partitions, PartitionStats{Label: label, Examples: n})
		st.Examples += n
	}
	return st
}

// isSkippable reports whether err concerns a single sample rather than the run.
func isSkippable(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrInvalidState)
}
