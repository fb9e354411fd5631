package geom_test

import (
	"fmt"

	"github.com/matzehuels/kenburns/pkg/geom"
)

func ExampleInscribe() {
	image := geom.FromSize(1600, 900)
	viewport := geom.FromSize(800, 600)

	full := geom.Inscribe(image, viewport.Ratio())
	fmt.Printf("%.0fx%.0f at (%.0f,%.0f)\n", full.Width(), full.Height(), full.Left, full.Top)
	fmt.Println(geom.SameAspectRatio(full, viewport))
	// Output:
	// 1200x900 at (0,0)
	// true
}

func ExampleMatrix_Then() {
	m := geom.Translate(-100, -50).Then(geom.Scale(2, 2)).Then(geom.Translate(400, 300))
	x, y := m.Apply(100, 50)
	fmt.Println(x, y)
	// Output:
	// 400 300
}
