package sdrecon

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/hupe1980/sdrecon/classify"
	"github.com/hupe1980/sdrecon/reconstruct"
)

const (
	// DefaultWidth and DefaultHeight describe the 28×28 digit images the
	// engine was designed around.
	DefaultWidth  = 28
	DefaultHeight = 28

	// DefaultAssociativeK is the number of examples blended by the reconstructor.
	DefaultAssociativeK = 3

	// DefaultNeighborK is the number of neighbors voting in the classifier.
	DefaultNeighborK = 5
)

type options struct {
	width            int
	height           int
	associativeK     int
	neighborK        int
	reconstructOpts  []reconstruct.Option
	classifyOpts     []classify.Option
	maxWorkers       int
	queriesPerSec    float64
	memoryLimitBytes int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Engine constructor behavior.
type Option func(*options)

// WithDimensions sets the grid dimensions of every image handled by the engine.
func WithDimensions(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithAssociativeK sets how many top-ranked examples the reconstructor blends.
func WithAssociativeK(k int) Option {
	return func(o *options) {
		o.associativeK = k
	}
}

// WithNeighborK sets how many neighbors vote in the classifier.
func WithNeighborK(k int) Option {
	return func(o *options) {
		o.neighborK = k
	}
}

// WithReconstructorOptions passes options to every partition's reconstructor.
//
// Example, switching to a true weighted average:
//
//	sdrecon.New(sdrecon.WithReconstructorOptions(reconstruct.WithNormExponent(2)))
func WithReconstructorOptions(optFns ...reconstruct.Option) Option {
	return func(o *options) {
		o.reconstructOpts = append(o.reconstructOpts, optFns...)
	}
}

// WithClassifierOptions passes options to every partition's classifier.
func WithClassifierOptions(optFns ...classify.Option) Option {
	return func(o *options) {
		o.classifyOpts = append(o.classifyOpts, optFns...)
	}
}

// WithMaxWorkers bounds the number of partitions evaluated concurrently.
// Defaults to runtime.GOMAXPROCS(0).
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithQueryRate limits evaluation to qps queries per second. 0 means unlimited.
func WithQueryRate(qps float64) Option {
	return func(o *options) {
		o.queriesPerSec = qps
	}
}

// WithMemoryLimit bounds the memory held by stored examples, estimated from
// image and SDR sizes. Train fails with ErrMemoryLimitExceeded once the
// limit is reached. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimitBytes = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sdrecon.BasicMetricsCollector{}
//	eng, _ := sdrecon.New(sdrecon.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Predicts: %d, Avg latency: %dns\n", stats.PredictCount, stats.PredictAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sdrecon.NewJSONLogger(slog.LevelInfo)
//	eng, _ := sdrecon.New(sdrecon.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		width:            DefaultWidth,
		height:           DefaultHeight,
		associativeK:     DefaultAssociativeK,
		neighborK:        DefaultNeighborK,
		maxWorkers:       runtime.GOMAXPROCS(0),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) validate() error {
	if o.width <= 0 || o.height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidArgument, o.width, o.height)
	}
	if o.width > math.MaxInt/o.height {
		return fmt.Errorf("%w: dimensions %dx%d overflow", ErrInvalidArgument, o.width, o.height)
	}
	if o.associativeK < 1 || o.neighborK < 1 {
		return fmt.Errorf("associative k %d, neighbor k %d: %w", o.associativeK, o.neighborK, ErrInvalidK)
	}
	if o.maxWorkers < 1 {
		return fmt.Errorf("%w: max workers must be positive, got %d", ErrInvalidArgument, o.maxWorkers)
	}
	if o.queriesPerSec < 0 {
		return fmt.Errorf("%w: negative query rate %v", ErrInvalidArgument, o.queriesPerSec)
	}
	if o.memoryLimitBytes < 0 {
		return fmt.Errorf("%w: negative memory limit %d", ErrInvalidArgument, o.memoryLimitBytes)
	}
	// Surface invalid component options at construction time.
	if _, err := reconstruct.NewWithOptions(o.reconstructOpts...); err != nil {
		return err
	}
	if _, err := classify.NewWithOptions(o.classifyOpts...); err != nil {
		return err
	}
	return nil
}
