package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/proximity"
	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/epa"
	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/logging"
	"github.com/akmonengine/proximity/polytope"
)

func main() {
	out := flag.String("out", "box.glb", "binary glTF file receiving the box mesh")
	debug := flag.Bool("debug", false, "log every query")
	flag.Parse()

	if *debug {
		logging.Level = logging.LevelError | logging.LevelWarning | logging.LevelInfo | logging.LevelDebug
	}

	box := actor.NewBox(mgl64.Vec3{1, 0.5, 0.5}, geom.Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatRotate(math.Pi/6, mgl64.Vec3{0, 0, 1}),
	})
	sphere := actor.NewSphere(0.5, geom.Translation(mgl64.Vec3{0, 3, 0}))

	tracker := proximity.NewTracker(box, sphere, proximity.DefaultConfig())

	// drop the sphere onto the box
	for y := 3.0; y >= 0.5; y -= 0.25 {
		sphere.SetTransform(geom.Translation(mgl64.Vec3{0, y, 0}))

		c, err := tracker.Update()
		if err != nil && !errors.Is(err, epa.ErrNoConvergence) {
			fmt.Fprintf(os.Stderr, "query failed: %v\n", err)
			os.Exit(1)
		}

		if c.Colliding {
			fmt.Printf("y=%.2f penetrating: depth=%.4f normal=%v contacts=%d\n", y, -c.Distance, c.NormalOnA, len(c.Contacts))
		} else {
			fmt.Printf("y=%.2f separated: distance=%.4f A=%v B=%v (%d iterations, %s)\n", y, c.Distance, c.PointOnA, c.PointOnB, c.Iterations, c.Termination)
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := polytope.WriteGLTF(f, box.Polytope()); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("box mesh written to %s\n", *out)
}
