package sdrecon_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/sdrecon"
	"github.com/hupe1980/sdrecon/sdr"
	"github.com/hupe1980/sdrecon/similarity"
)

// Example demonstrates training a partition and reconstructing an image from
// a partially matching SDR.
func Example() {
	ctx := context.Background()

	eng, err := sdrecon.New(sdrecon.WithDimensions(4, 4))
	if err != nil {
		log.Fatal(err)
	}

	err = eng.Train(ctx,
		sdrecon.Sample{Name: "bar", Label: 1, Key: 1, SDR: sdr.New(1, 2, 3, 4), Image: []uint8{
			1, 1, 0, 0,
			1, 1, 0, 0,
			1, 1, 0, 0,
			1, 1, 0, 0,
		}},
		sdrecon.Sample{Name: "empty", Label: 1, Key: 2, SDR: sdr.New(20, 21, 22, 23), Image: make([]uint8, 16)},
	)
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Reconstruct(ctx, 1, sdr.New(1, 2, 3, 30), nil)
	if err != nil {
		log.Fatal(err)
	}

	text, _ := similarity.ToSquareMatrixText(res.Final, 4)
	fmt.Println(text)
	fmt.Println("neighbor:", res.NeighborIndex)
	// Output:
	// 1100
	// 1100
	// 1100
	// 1100
	// neighbor: 0
}

// Example_evaluate demonstrates scoring held-out samples against their
// ground truth images.
func Example_evaluate() {
	ctx := context.Background()

	eng, err := sdrecon.New(sdrecon.WithDimensions(2, 2))
	if err != nil {
		log.Fatal(err)
	}

	diagonal := sdrecon.Sample{Name: "diag", Label: 0, SDR: sdr.New(1, 2), Image: []uint8{1, 0, 0, 1}}
	if err := eng.Train(ctx, diagonal); err != nil {
		log.Fatal(err)
	}

	report, err := eng.Evaluate(ctx, []sdrecon.Sample{
		diagonal,
		{Name: "orphan", Label: 5, SDR: sdr.New(1), Image: []uint8{1, 1, 1, 1}},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("evaluated=%d skipped=%d\n", report.Evaluated(), len(report.Skipped))
	fmt.Printf("associative=%.1f%% neighbor=%.1f%%\n",
		report.AssociativeSummary.MeanBinaryPct, report.NeighborSummary.MeanBinaryPct)
	// Output:
	// evaluated=1 skipped=1
	// associative=100.0% neighbor=100.0%
}
