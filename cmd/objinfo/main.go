// objinfo is a CLI utility for inspecting OBJ meshes and the vertex buffers built from them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/grafika/internal/engine/model"
	"github.com/Faultbox/grafika/internal/logger"
	"github.com/Faultbox/grafika/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "build":
		cmdBuild(args)
	case "layouts":
		cmdLayouts()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objinfo - OBJ mesh inspection utility

Usage:
  objinfo <command> [options]

Commands:
  info [-v] <file.obj>                        Show channel counts, faces and bounds
  build [-layout L] [-mode M] [-dump N] <file.obj>
                                              Build a vertex buffer and show its shape
  layouts                                     List predefined vertex layouts

Examples:
  objinfo info cube.obj
  objinfo build -layout position-texcoord -dump 4 cube.obj
  objinfo build -mode direct triangles.obj`)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Log skipped lines")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objinfo info [-v] <file.obj>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	if *verbose {
		logger.Init("debug", "")
		defer logger.Sync()
	}

	mesh, err := formats.LoadOBJ(path, formats.WithLogger(logger.Named("obj")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := mesh.Stats()
	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Positions:  %d\n", st.Positions)
	fmt.Printf("TexCoords:  %d\n", st.TexCoords)
	fmt.Printf("Normals:    %d\n", st.Normals)
	fmt.Printf("Faces:      %d\n", st.Faces)
	fmt.Printf("References: %d\n", st.Refs)
	fmt.Printf("Skipped:    %d\n", st.Skipped)

	// Face sizes, e.g. "3: 120  4: 6"
	sizes := make(map[int]int)
	maxSize := 0
	for i := range mesh.Faces {
		n := mesh.Faces[i].Len()
		sizes[n]++
		maxSize = max(maxSize, n)
	}
	var parts []string
	for n := 3; n <= maxSize; n++ {
		if c := sizes[n]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d: %d", n, c))
		}
	}
	if len(parts) > 0 {
		fmt.Printf("Face sizes: %s\n", strings.Join(parts, "  "))
	}

	if b, ok := mesh.Bounds(); ok {
		fmt.Printf("Bounds:     min %v max %v\n", b.Min, b.Max)
		fmt.Printf("Size:       %v\n", b.Size())
	}
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	layoutName := fs.String("layout", model.LayoutPositionNormalTexCoord.Name, "Vertex layout name")
	modeName := fs.String("mode", model.ModeIndexed.String(), "Build mode: indexed or direct")
	dump := fs.Int("dump", 0, "Print the first N vertex records")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objinfo build [-layout L] [-mode M] [-dump N] <file.obj>")
		os.Exit(1)
	}

	layout, err := model.LayoutByName(*layoutName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (try: %s)\n", err, strings.Join(model.LayoutNames(), ", "))
		os.Exit(1)
	}
	mode, err := model.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	_, buf, err := model.LoadBuffer(fs.Arg(0), layout, model.BuildOptions{Mode: mode}, nil)
	if err != nil {
		if errors.Is(err, model.ErrNonTriangleFace) {
			fmt.Fprintln(os.Stderr, "Hint: direct mode needs triangles only; use -mode indexed")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Layout:        %s (%d bytes/vertex)\n", layout.Name, layout.Stride())
	for _, ch := range layout.Channels {
		if ch.Enabled {
			fmt.Printf("  %-9s offset %2d  source %s\n", ch.Attribute, ch.Offset, ch.Source)
		}
	}
	fmt.Printf("Mode:          %s\n", mode)
	fmt.Printf("Vertices:      %d (%d floats)\n", buf.VertexCount, len(buf.Vertices))
	if buf.Indexed() {
		fmt.Printf("Indices:       %d\n", len(buf.Indices))
	}
	fmt.Printf("Triangles:     %d\n", buf.TriangleCount())
	fmt.Printf("Skipped refs:  %d\n", buf.SkippedRefs)
	fmt.Printf("Skipped faces: %d\n", buf.SkippedFaces)

	n := min(*dump, buf.VertexCount)
	for i := 0; i < n; i++ {
		fmt.Printf("  [%d] %v\n", i, buf.Record(i))
	}
}

func cmdLayouts() {
	for _, name := range model.LayoutNames() {
		l, _ := model.LayoutByName(name)
		var fields []string
		for _, ch := range l.Channels {
			if ch.Enabled {
				fields = append(fields, fmt.Sprintf("%s(%d)", ch.Attribute, ch.Attribute.Components()))
			}
		}
		fmt.Printf("%-26s %2d bytes  %s\n", name, l.Stride(), strings.Join(fields, " + "))
	}
}
