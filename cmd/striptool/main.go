// striptool is a CLI utility for converting triangle meshes into
// vertex-cache-optimized triangle strips.
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meshkit/tristrip/internal/config"
	"github.com/meshkit/tristrip/internal/logger"
	"github.com/meshkit/tristrip/internal/vcache"
	"github.com/meshkit/tristrip/pkg/tristrip"
	"github.com/meshkit/tristrip/pkg/wavefront"
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
	case "strip", "s":
		cmdStrip(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`striptool - triangle strip generator for vertex cache optimization

Usage:
  striptool <command> [options]

Commands:
  info <mesh.obj>              Show mesh statistics
  strip [options] <mesh.obj>   Stripify a mesh and report cache efficiency

Strip options:
  -cache N        target vertex cache size (default 16)
  -minlen N       dissolve strips shorter than N faces (default 0)
  -stitch=false   emit separate strips instead of one stitched stream
  -lists          emit one optimized triangle list, no strips
  -remap          remap output indices to first-touch order
  -o FILE         write the primitive groups to FILE as YAML
  -config FILE    read settings from a YAML config file
  -debug          enable debug logging

Examples:
  striptool info bunny.obj
  striptool strip -cache 24 -o bunny.strips.yaml bunny.obj`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: striptool info <mesh.obj>")
		os.Exit(1)
	}

	mesh, err := wavefront.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	degenerate := 0
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if a == b || a == c || b == c {
			degenerate++
		}
	}

	lo, hi := mesh.Bounds()

	fmt.Printf("Mesh:       %s\n", args[0])
	fmt.Printf("Vertices:   %d\n", mesh.VertexCount())
	fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
	fmt.Printf("Max index:  %d\n", mesh.MaxIndex())
	fmt.Printf("Degenerate: %d\n", degenerate)
	fmt.Printf("Bounds:     (%g %g %g) - (%g %g %g)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	fmt.Printf("Area:       %g\n", mesh.SurfaceArea())
}

func cmdStrip(args []string) {
	fs := flag.NewFlagSet("strip", flag.ExitOnError)
	cacheFlag := fs.Int("cache", 0, "target vertex cache size")
	minLenFlag := fs.Int("minlen", -1, "minimum strip length in faces")
	stitchFlag := fs.Bool("stitch", true, "stitch strips into one stream")
	listsFlag := fs.Bool("lists", false, "emit one optimized list, no strips")
	remapFlag := fs.Bool("remap", false, "remap output indices to first-touch order")
	outFlag := fs.String("o", "", "write primitive groups to this YAML file")
	configFlag := fs.String("config", "", "path to config file")
	debugFlag := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: striptool strip [options] <mesh.obj>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// flags override the config file only when actually passed
	if *cacheFlag > 0 {
		cfg.Strip.CacheSize = *cacheFlag
	}
	if *minLenFlag >= 0 {
		cfg.Strip.MinStripLength = *minLenFlag
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "stitch" {
			cfg.Strip.StitchStrips = *stitchFlag
		}
	})
	if *listsFlag {
		cfg.Strip.ListsOnly = true
	}
	if *debugFlag {
		cfg.Logging.Level = "debug"
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	mesh, err := wavefront.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := tristrip.Options{
		CacheSize:      cfg.Strip.CacheSize,
		MinStripLength: cfg.Strip.MinStripLength,
		StitchStrips:   cfg.Strip.StitchStrips,
		ListsOnly:      cfg.Strip.ListsOnly,
	}

	groups := tristrip.GenerateStrips(mesh.Indices, opts)
	if *remapFlag {
		groups, _ = tristrip.RemapIndices(groups)
	}

	before := simulateHitRatio(mesh.Indices, opts.CacheSize)
	var outIndices []uint32
	for _, g := range groups {
		outIndices = append(outIndices, g.Indices...)
	}
	after := simulateHitRatio(outIndices, opts.CacheSize)

	fmt.Printf("Input:  %d triangles, %d indices\n", mesh.TriangleCount(), len(mesh.Indices))
	fmt.Printf("Output: %d groups, %d indices\n", len(groups), len(outIndices))
	for i, g := range groups {
		fmt.Printf("  group %d: %-5s %d indices\n", i, g.Type, len(g.Indices))
	}
	fmt.Printf("Simulated cache hit ratio: %.3f -> %.3f (cache size %d)\n",
		before, after, opts.CacheSize)

	if *outFlag != "" {
		if err := writeGroups(*outFlag, groups); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outFlag)
	}
}

// simulateHitRatio replays an index stream through the cache model and
// returns the fraction of lookups that hit.
func simulateHitRatio(indices []uint32, cacheSize int) float64 {
	if len(indices) == 0 {
		return 0
	}

	cache := vcache.New(cacheSize)
	hits := 0
	for _, idx := range indices {
		id := int32(idx)
		if cache.Contains(id) {
			hits++
		} else {
			cache.Add(id)
		}
	}
	return float64(hits) / float64(len(indices))
}

// groupDoc is the YAML shape of one primitive group.
type groupDoc struct {
	Type    string   `yaml:"type"`
	Indices []uint32 `yaml:"indices,flow"`
}

func writeGroups(path string, groups []tristrip.PrimitiveGroup) error {
	docs := make([]groupDoc, len(groups))
	for i, g := range groups {
		docs[i] = groupDoc{Type: g.Type.String(), Indices: g.Indices}
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
