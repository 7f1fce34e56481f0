package virtual_test

import (
	"fmt"

	"github.com/matzehuels/schedgrid/pkg/virtual"
)

func ExampleWindow_Visible() {
	w := virtual.New(virtual.WithOverscan(1))

	// A group header followed by rows of one, three, and one lanes.
	w.SetItems([]float64{28, 40, 120, 40}, []string{"group:aircraft", "resource:ac-1", "resource:ac-2", "resource:ac-3"})

	for _, it := range w.Visible(100, 50) {
		fmt.Printf("%s at %.0f\n", it.Key, it.Start)
	}
	fmt.Println("total:", w.TotalSize())
	// Output:
	// resource:ac-1 at 28
	// resource:ac-2 at 68
	// resource:ac-3 at 188
	// total: 228
}
