// Command voxelforge is the headless front to the modeling core:
// create, inspect, validate and export project files from the shell.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxelforge/internal/config"
	"voxelforge/internal/export"
	"voxelforge/internal/history"
	"voxelforge/internal/logger"
	"voxelforge/internal/mesh"
	"voxelforge/internal/persistence/indexdb"
	"voxelforge/internal/project"
	"voxelforge/internal/store"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: voxelforge <command> [flags]

commands:
  new       create an empty project file
  info      print a project summary
  validate  check a project file against the document schema
  export    write a project's surface mesh as gltf, glb or stl
  recent    list recently saved projects`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	var err error
	switch os.Args[1] {
	case "new":
		err = cmdNew(os.Args[2:])
	case "info":
		err = cmdInfo(os.Args[2:])
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "export":
		err = cmdExport(os.Args[2:])
	case "recent":
		err = cmdRecent(os.Args[2:])
	default:
		usage()
	}
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "voxelforge:", err)
		os.Exit(1)
	}
}

func initLogging(cfgPath string) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	var (
		out     = fs.String("out", "", "output project path (.vxf or .vxf.zst)")
		cfgPath = fs.String("config", "", "yaml config path")
		gridX   = fs.Int("grid_x", 0, "grid size x (default from config)")
		gridY   = fs.Int("grid_y", 0, "grid size y (default from config)")
		gridZ   = fs.Int("grid_z", 0, "grid size z (defaults to y)")
	)
	fs.Parse(args)
	if *out == "" {
		return fmt.Errorf("missing -out")
	}
	cfg, err := initLogging(*cfgPath)
	if err != nil {
		return err
	}
	x, y, z := cfg.GridSizeX, cfg.GridSizeY, cfg.GridSizeZ
	if *gridX > 0 {
		x = *gridX
	}
	if *gridY > 0 {
		y = *gridY
	}
	if *gridZ > 0 {
		z = *gridZ
	}
	doc := project.CreateTemplate(x, y, z)
	if err := project.Save(*out, doc); err != nil {
		return err
	}
	fmt.Printf("created %s (%dx%dx%d, format %s)\n", *out, x, y, z, doc.Version)
	return nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cfgPath := fs.String("config", "", "yaml config path")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: voxelforge info <project>")
	}
	if _, err := initLogging(*cfgPath); err != nil {
		return err
	}
	doc, err := project.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	painted := 0
	for _, c := range doc.MainObject.Colors {
		if c != store.DefaultFaceColor {
			painted++
		}
	}
	fmt.Printf("format   %s\n", doc.Version)
	fmt.Printf("grid     %dx%dx%d\n", doc.MainObject.GridSizeX, doc.MainObject.GridSizeY, doc.MainObject.GridSizeZ)
	fmt.Printf("created  %s\n", doc.Metadata.CreatedAt)
	fmt.Printf("updated  %s\n", doc.Metadata.UpdatedAt)
	fmt.Printf("voxels   %d\n", len(doc.MainObject.Voxels))
	fmt.Printf("painted  %d faces\n", painted)
	fmt.Printf("history  %d actions (next a%d)\n", len(doc.UndoRedoHistory), doc.NextIDs.Action)
	fmt.Printf("adjacent %d objects\n", len(doc.AdjacentObjects))
	fmt.Printf("palette  %d colors\n", len(doc.ColorPalette))
	return nil
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "yaml config path")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: voxelforge validate <project>")
	}
	if _, err := initLogging(*cfgPath); err != nil {
		return err
	}
	doc, err := project.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	l := history.NewLog(0)
	if err := l.RestoreHistory(doc.UndoRedoHistory); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if !l.Validate() {
		return fmt.Errorf("%s: history entries are malformed or duplicated", fs.Arg(0))
	}
	fmt.Printf("%s: valid (%d voxels, %d actions, format %s)\n",
		fs.Arg(0), len(doc.MainObject.Voxels), len(doc.UndoRedoHistory), doc.Version)
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var (
		format  = fs.String("format", "", "gltf, glb or stl (default from -out extension)")
		out     = fs.String("out", "", "output mesh path")
		cfgPath = fs.String("config", "", "yaml config path")
	)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: voxelforge export -out <mesh> <project>")
	}
	if *out == "" {
		return fmt.Errorf("missing -out")
	}
	if _, err := initLogging(*cfgPath); err != nil {
		return err
	}
	f := *format
	if f == "" {
		f = strings.TrimPrefix(filepath.Ext(*out), ".")
	}

	doc, err := project.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	s := store.New()
	for _, v := range doc.MainObject.Voxels {
		if err := s.InstallVoxel(v, doc.MainObject.Colors); err != nil {
			return fmt.Errorf("voxel %s: %w", v.ID, err)
		}
	}
	m := mesh.BuildExport(s)
	if m.Empty() {
		return fmt.Errorf("%s: nothing to export", fs.Arg(0))
	}

	switch f {
	case "gltf":
		err = export.SaveGLTF(m, *out)
	case "glb":
		err = export.SaveGLB(m, *out)
	case "stl":
		err = export.SaveSTL(m, *out)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d faces, %d color groups)\n", *out, m.FaceCount(), len(m.Groups))
	return nil
}

func cmdRecent(args []string) error {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	var (
		cfgPath = fs.String("config", "", "yaml config path")
		limit   = fs.Int("n", 10, "rows to list")
	)
	fs.Parse(args)
	cfg, err := initLogging(*cfgPath)
	if err != nil {
		return err
	}
	ix, err := indexdb.Open(cfg.IndexDBPath)
	if err != nil {
		return err
	}
	defer ix.Close()
	rows, err := ix.Recents(*limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no recent projects")
		return nil
	}
	for _, r := range rows {
		fmt.Printf("%-20s %6d voxels  %s  %s\n", r.Name, r.VoxelCount, r.UpdatedAt, r.Path)
	}
	return nil
}
