package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Espyo/Pikifen-sub020/common"
	"github.com/Espyo/Pikifen-sub020/config"
	"github.com/Espyo/Pikifen-sub020/debug_utils"
	"github.com/Espyo/Pikifen-sub020/geometry"
	"github.com/Espyo/Pikifen-sub020/meshio"
	"github.com/Espyo/Pikifen-sub020/spatial"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type options struct {
	config string
	level  string
	wkt    string
	obj    string
	png    string
	mesh   string
	report string
	point  string
}

func parseFlags(args []string, errOut io.Writer) (*options, error) {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(errOut)
	o := &options{}
	fs.StringVar(&o.config, "config", "", "YAML config file")
	fs.StringVar(&o.level, "level", "", "YAML level dump to triangulate")
	fs.StringVar(&o.wkt, "wkt", "", "WKT polygon or multipolygon to triangulate instead of -level")
	fs.StringVar(&o.obj, "obj", "", "write the triangles as Wavefront OBJ")
	fs.StringVar(&o.png, "png", "", "render the level to a PNG")
	fs.StringVar(&o.mesh, "mesh", "", "write the triangulation in binary form")
	fs.StringVar(&o.report, "report", "", "write the problems report as JSON, - for stdout")
	fs.StringVar(&o.point, "point", "", "print the sector at x,y")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if (o.level == "") == (o.wkt == "") {
		return nil, errors.New("need exactly one of -level and -wkt")
	}
	return o, nil
}

func parsePoint(s string) (common.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return common.Vec2{}, errors.Errorf("point %q is not x,y", s)
	}
	var p common.Vec2
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return common.Vec2{}, errors.Wrapf(err, "point %q", s)
		}
		p[i] = v
	}
	return p, nil
}

func loadLevel(o *options) (*geometry.Level, error) {
	if o.wkt != "" {
		return debug_utils.LevelFromWKT(o.wkt)
	}
	f, err := os.Open(o.level)
	if err != nil {
		return nil, errors.Wrap(err, "open level")
	}
	defer f.Close()
	return debug_utils.LoadLevelYAML(f)
}

func writeFile(path string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "write %s", path)
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg := config.Default()
	if o.config != "" {
		if cfg, err = config.LoadFile(o.config); err != nil {
			return err
		}
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	l, err := loadLevel(o)
	if err != nil {
		return err
	}
	if err := l.Validate(); err != nil {
		log.Warn("level does not validate", zap.Error(err))
	}

	problems := geometry.NewGeometryProblems()
	geometry.NewTriangulator(cfg.TriangulatorOptions(), log).TriangulateLevel(l, problems)
	for _, s := range problems.SortedSectors() {
		fmt.Fprintf(stdout, "sector %d: %s\n", s, problems.NonSimpleSectors[s])
	}
	for _, e := range problems.SortedLoneEdges() {
		fmt.Fprintf(stdout, "lone edge %d\n", e)
	}

	if o.point != "" {
		p, err := parsePoint(o.point)
		if err != nil {
			return err
		}
		loc, err := spatial.NewLocator(cfg.Index.Kind, l, cfg.Index.CellSize)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "point %g,%g: sector %d\n", p.X(), p.Y(), spatial.FindSector(l, loc, p))
	}

	if o.obj != "" {
		if err := writeFile(o.obj, func(w io.Writer) error { return debug_utils.DuDumpLevelToObj(l, w) }); err != nil {
			return err
		}
	}
	if o.png != "" {
		img, err := debug_utils.RenderLevel(l, problems, debug_utils.DefaultRenderOptions())
		if err != nil {
			return err
		}
		if err := writeFile(o.png, func(w io.Writer) error { return debug_utils.WritePNG(w, img) }); err != nil {
			return err
		}
	}
	if o.mesh != "" {
		data := meshio.FromLevel(l, problems).ToBin()
		if err := os.WriteFile(o.mesh, data, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", o.mesh)
		}
	}
	if o.report != "" {
		data, err := debug_utils.ProblemsReportJSON(l, problems)
		if err != nil {
			return err
		}
		if o.report == "-" {
			_, err = stdout.Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(o.report, data, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", o.report)
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}
}
