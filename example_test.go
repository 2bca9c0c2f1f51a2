package redsvd_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	redsvd "github.com/tmaklin/redsvd-go"
)

func Example() {
	// A has exact rank one: every row is a multiple of (1, 2, 3).
	a := mat.NewDense(4, 3, []float64{
		1, 2, 3,
		2, 4, 6,
		3, 6, 9,
		4, 8, 12,
	})

	// Ask for two singular triplets; the sketch detects that only one
	// independent direction exists and truncates the result.
	d, err := redsvd.Compute(a, 2)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("effective rank:", d.EffectiveRank())
	fmt.Printf("sigma: %.4f\n", d.Values(nil)[0])

	// Output:
	// effective rank: 1
	// sigma: 20.4939
}
