package dsl

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

// BuildOptions configures the AST to component-tree conversion.
type BuildOptions struct {
	// BaseDir anchors relative image paths.
	BaseDir string
	// Data feeds ${path} interpolation in text content.
	Data any
}

// Build converts a parsed scene into a component tree. The root component is
// sized from the scene header; boxes nest as children.
func Build(doc *Scene, opts BuildOptions) (*scene.Component, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil scene")
	}
	root := &scene.Component{
		Width:  scene.ParseLength(doc.Width).ToMM(),
		Height: scene.ParseLength(doc.Height).ToMM(),
	}
	if root.Width <= 0 || root.Height <= 0 {
		return nil, fmt.Errorf("scene needs a positive size, got %s x %s", doc.Width, doc.Height)
	}
	if err := fillComponent(root, doc.Block, opts); err != nil {
		return nil, err
	}
	return root, nil
}

// fillComponent applies a block's assignments and commands to a component.
func fillComponent(c *scene.Component, block *Block, opts BuildOptions) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		switch {
		case stmt.Assignment != nil:
			if err := applyProperty(c, stmt.Assignment); err != nil {
				return err
			}
		case stmt.Command != nil:
			if err := applyCommand(c, stmt.Command, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyCommand(c *scene.Component, cmd *Command, opts BuildOptions) error {
	switch cmd.Name {
	case "box":
		child, err := buildBox(cmd, opts)
		if err != nil {
			return err
		}
		c.Children = append(c.Children, child)
		return nil
	case "text":
		return buildText(c, cmd, opts)
	case "draw":
		return buildCanvas(c, cmd)
	case "image":
		return buildImage(c, cmd, opts)
	default:
		return fmt.Errorf("%s: unknown command %q", cmd.Pos, cmd.Name)
	}
}

// buildBox handles `box x y w h { ... }`.
func buildBox(cmd *Command, opts BuildOptions) (*scene.Component, error) {
	nums, err := numberArgs(cmd, 4)
	if err != nil {
		return nil, err
	}
	child := &scene.Component{
		Origin: scene.Point{X: nums[0], Y: nums[1]},
		Width:  nums[2],
		Height: nums[3],
	}
	if err := fillComponent(child, cmd.Block, opts); err != nil {
		return nil, err
	}
	return child, nil
}

// buildText handles `text { "content" ... }`. String literals in the body
// concatenate into the content; assignments set the font and alignment.
func buildText(c *scene.Component, cmd *Command, opts BuildOptions) error {
	if c.Text != nil || c.Canvas != nil || c.Image != nil {
		return fmt.Errorf("%s: component already has content", cmd.Pos)
	}
	t := &scene.Text{Font: scene.Font{Size: 12 * scene.PtToMm}}
	var content strings.Builder
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			switch {
			case stmt.Text != nil:
				if content.Len() > 0 {
					content.WriteString("\n")
				}
				content.WriteString(string(stmt.Text.Value))
			case stmt.Assignment != nil:
				if err := applyTextProperty(t, c, stmt.Assignment); err != nil {
					return err
				}
			}
		}
	}
	t.Content = Interpolate(content.String(), opts.Data)
	c.Text = t
	return nil
}

func applyTextProperty(t *scene.Text, c *scene.Component, a *Assignment) error {
	tokens := valueTokens(a.Value)
	switch a.Key {
	case "font":
		for _, tok := range tokens {
			switch strings.ToLower(tok) {
			case "bold":
				t.Font.Weight = scene.WeightBold
			case "italic":
				t.Font.Slant = scene.SlantItalic
			case "oblique":
				t.Font.Slant = scene.SlantOblique
			default:
				if l := scene.ParseLength(tok); l.Value > 0 {
					t.Font.Size = l.ToMM()
				} else {
					t.Font.Family = tok
				}
			}
		}
	case "size":
		if len(tokens) > 0 {
			t.Font.Size = scene.ParseLength(tokens[0]).ToMM()
		}
	case "align":
		for _, tok := range tokens {
			switch strings.ToLower(tok) {
			case "left", "start":
				t.HAlign = scene.AlignLeft
			case "center":
				t.HAlign = scene.AlignCenter
			case "right", "end":
				t.HAlign = scene.AlignRight
			case "top":
				t.VAlign = scene.AlignTop
			case "middle":
				t.VAlign = scene.AlignMiddle
			case "bottom":
				t.VAlign = scene.AlignBottom
			default:
				return fmt.Errorf("unknown alignment %q", tok)
			}
		}
	case "color":
		col, err := parseColorTokens(tokens)
		if err != nil {
			return err
		}
		c.Color = &col
	default:
		return fmt.Errorf("unknown text property %q", a.Key)
	}
	return nil
}

// buildCanvas handles `draw { ... }`: shape commands accumulate path
// operations in order.
func buildCanvas(c *scene.Component, cmd *Command) error {
	if c.Text != nil || c.Canvas != nil || c.Image != nil {
		return fmt.Errorf("%s: component already has content", cmd.Pos)
	}
	cv := &scene.Canvas{}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			op, err := buildDrawOp(stmt.Command)
			if err != nil {
				return err
			}
			cv.Ops = append(cv.Ops, op)
		}
	}
	c.Canvas = cv
	return nil
}

// buildDrawOp converts one shape command into a path plus its operation. The
// shape's block selects fill or stroke; a bare shape gets a thin black stroke.
func buildDrawOp(cmd *Command) (scene.DrawOp, error) {
	p := &scene.Path{}
	switch cmd.Name {
	case "rect":
		nums, err := numberArgs(cmd, 4)
		if err != nil {
			return scene.DrawOp{}, err
		}
		p.Add(scene.Rectangle{Origin: scene.Point{X: nums[0], Y: nums[1]}, W: nums[2], H: nums[3]})
	case "line":
		nums, err := numberArgs(cmd, 4)
		if err != nil {
			return scene.DrawOp{}, err
		}
		p.Add(scene.Line{
			From: scene.Point{X: nums[0], Y: nums[1]},
			To:   scene.Point{X: nums[2], Y: nums[3]},
		})
	case "circle":
		nums, err := numberArgs(cmd, 3)
		if err != nil {
			return scene.DrawOp{}, err
		}
		p.Add(scene.Arc{
			Center:     scene.Point{X: nums[0], Y: nums[1]},
			Radius:     nums[2],
			StartAngle: 0,
			EndAngle:   2 * math.Pi,
		})
	case "arc":
		nums, err := numberArgs(cmd, 5)
		if err != nil {
			return scene.DrawOp{}, err
		}
		p.Add(scene.Arc{
			Center:     scene.Point{X: nums[0], Y: nums[1]},
			Radius:     nums[2],
			StartAngle: nums[3],
			EndAngle:   nums[4],
		})
	case "curve":
		nums, err := numberArgs(cmd, 8)
		if err != nil {
			return scene.DrawOp{}, err
		}
		p.Add(scene.Bezier{
			From:     scene.Point{X: nums[0], Y: nums[1]},
			Control1: scene.Point{X: nums[2], Y: nums[3]},
			Control2: scene.Point{X: nums[4], Y: nums[5]},
			To:       scene.Point{X: nums[6], Y: nums[7]},
		})
	case "poly":
		nums, err := numberArgs(cmd, 6)
		if err != nil {
			return scene.DrawOp{}, err
		}
		if len(nums)%2 != 0 {
			return scene.DrawOp{}, fmt.Errorf("%s: poly needs coordinate pairs", cmd.Pos)
		}
		var pts []scene.Point
		for i := 0; i < len(nums); i += 2 {
			pts = append(pts, scene.Point{X: nums[i], Y: nums[i+1]})
		}
		p.Add(scene.Polygon{Points: pts})
	default:
		return scene.DrawOp{}, fmt.Errorf("%s: unknown shape %q", cmd.Pos, cmd.Name)
	}

	op, err := buildShapeOp(cmd)
	if err != nil {
		return scene.DrawOp{}, err
	}
	return scene.DrawOp{Path: p, Op: op}, nil
}

func buildShapeOp(cmd *Command) (scene.Operation, error) {
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			a := stmt.Assignment
			tokens := valueTokens(a.Value)
			switch a.Key {
			case "fill":
				paint, err := parseFillPaint(tokens)
				if err != nil {
					return nil, err
				}
				return scene.Fill{Paint: paint}, nil
			case "stroke":
				return parseStroke(tokens)
			default:
				return nil, fmt.Errorf("unknown shape property %q", a.Key)
			}
		}
	}
	return scene.Stroke{Paint: scene.Solid{Color: scene.Color{A: 1}}, Width: 1}, nil
}

// parseFillPaint reads either a plain color or
// `gradient x0 y0 x1 y1 <color> <color> ...` with stops spread evenly.
func parseFillPaint(tokens []string) (scene.Paint, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("fill needs a value")
	}
	if !strings.EqualFold(tokens[0], "gradient") {
		col, err := parseColorTokens(tokens)
		if err != nil {
			return nil, err
		}
		return scene.Solid{Color: col}, nil
	}
	rest := tokens[1:]
	if len(rest) < 6 {
		return nil, fmt.Errorf("gradient needs 4 coordinates and at least 2 colors")
	}
	nums := parseNumbers(rest[:4])
	g := scene.LinearGradient{
		Start: scene.Point{X: nums[0], Y: nums[1]},
		End:   scene.Point{X: nums[2], Y: nums[3]},
	}
	colors := rest[4:]
	for i, tok := range colors {
		col, err := parseHexColor(tok)
		if err != nil {
			return nil, err
		}
		offset := 0.0
		if len(colors) > 1 {
			offset = float64(i) / float64(len(colors)-1)
		}
		g.Stops = append(g.Stops, scene.Stop{Offset: offset, Color: col})
	}
	return g, nil
}

// parseStroke reads `stroke: <color> [width] [dash n n ...]`.
func parseStroke(tokens []string) (scene.Operation, error) {
	st := scene.Stroke{Paint: scene.Solid{Color: scene.Color{A: 1}}, Width: 1}
	i := 0
	if i < len(tokens) && strings.HasPrefix(tokens[i], "#") {
		col, err := parseHexColor(tokens[i])
		if err != nil {
			return nil, err
		}
		st.Paint = scene.Solid{Color: col}
		i++
	}
	if i < len(tokens) && !strings.EqualFold(tokens[i], "dash") {
		st.Width = scene.ParseLength(tokens[i]).ToMM()
		i++
	}
	if i < len(tokens) && strings.EqualFold(tokens[i], "dash") {
		for _, tok := range tokens[i+1:] {
			st.Dash = append(st.Dash, scene.ParseLength(tok).ToMM())
		}
	}
	return st, nil
}

// buildImage handles `image "path" { align: ... }`.
func buildImage(c *scene.Component, cmd *Command, opts BuildOptions) error {
	if c.Text != nil || c.Canvas != nil || c.Image != nil {
		return fmt.Errorf("%s: component already has content", cmd.Pos)
	}
	if len(cmd.Args) == 0 {
		return fmt.Errorf("%s: image needs a path", cmd.Pos)
	}
	path := cmd.Args[0].Value
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.BaseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image %s: %w", path, err)
	}

	im := &scene.Image{Img: img}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			a := stmt.Assignment
			tokens := valueTokens(a.Value)
			switch a.Key {
			case "align":
				for _, tok := range tokens {
					switch strings.ToLower(tok) {
					case "left":
						im.HAlign = scene.AlignLeft
					case "center":
						im.HAlign = scene.AlignCenter
					case "right":
						im.HAlign = scene.AlignRight
					case "top":
						im.VAlign = scene.AlignTop
					case "middle":
						im.VAlign = scene.AlignMiddle
					case "bottom":
						im.VAlign = scene.AlignBottom
					}
				}
			case "scale":
				nums := parseNumbers(tokens)
				switch len(nums) {
				case 1:
					im.Scale = &scene.Point{X: nums[0], Y: nums[0]}
				case 2:
					im.Scale = &scene.Point{X: nums[0], Y: nums[1]}
				}
			default:
				return fmt.Errorf("unknown image property %q", a.Key)
			}
		}
	}
	c.Image = im
	return nil
}

// applyProperty handles box-level assignments.
func applyProperty(c *scene.Component, a *Assignment) error {
	tokens := valueTokens(a.Value)
	switch a.Key {
	case "background":
		col, err := parseColorTokens(tokens)
		if err != nil {
			return err
		}
		c.Background = &col
	case "color":
		col, err := parseColorTokens(tokens)
		if err != nil {
			return err
		}
		c.Color = &col
	case "margins":
		nums := parseNumbers(tokens)
		switch len(nums) {
		case 1:
			c.Margins = scene.Margins{Top: nums[0], Right: nums[0], Bottom: nums[0], Left: nums[0]}
		case 4:
			c.Margins = scene.Margins{Top: nums[0], Right: nums[1], Bottom: nums[2], Left: nums[3]}
		default:
			return fmt.Errorf("margins needs 1 or 4 values, got %d", len(nums))
		}
	case "border":
		brush, err := parseBrush(tokens)
		if err != nil {
			return err
		}
		c.Border = scene.Uniform(brush)
	case "border-top", "border-right", "border-bottom", "border-left":
		brush, err := parseBrush(tokens)
		if err != nil {
			return err
		}
		if c.Border == nil {
			c.Border = &scene.Border{}
		}
		switch a.Key {
		case "border-top":
			c.Border.Top = brush
		case "border-right":
			c.Border.Right = brush
		case "border-bottom":
			c.Border.Bottom = brush
		case "border-left":
			c.Border.Left = brush
		}
	default:
		return fmt.Errorf("unknown property %q", a.Key)
	}
	return nil
}

// parseBrush reads `<width> [color] [dash n n ...]`.
func parseBrush(tokens []string) (scene.Brush, error) {
	if len(tokens) == 0 {
		return scene.Brush{}, fmt.Errorf("border needs at least a width")
	}
	b := scene.Brush{
		Width: scene.ParseLength(tokens[0]).ToMM(),
		Color: scene.Color{A: 1},
	}
	rest := tokens[1:]
	if len(rest) > 0 && strings.HasPrefix(rest[0], "#") {
		col, err := parseHexColor(rest[0])
		if err != nil {
			return scene.Brush{}, err
		}
		b.Color = col
		rest = rest[1:]
	}
	if len(rest) > 0 && strings.EqualFold(rest[0], "dash") {
		for _, tok := range rest[1:] {
			b.Dash = append(b.Dash, scene.ParseLength(tok).ToMM())
		}
	}
	return b, nil
}

func parseColorTokens(tokens []string) (scene.Color, error) {
	if len(tokens) == 0 {
		return scene.Color{}, fmt.Errorf("missing color value")
	}
	return parseHexColor(tokens[0])
}

// parseHexColor reads #rgb, #rrggbb or #rrggbbaa into channel floats.
func parseHexColor(value string) (scene.Color, error) {
	v := strings.TrimPrefix(value, "#")
	hex := func(s string) float64 {
		n := 0
		for _, r := range s {
			n *= 16
			switch {
			case r >= '0' && r <= '9':
				n += int(r - '0')
			case r >= 'a' && r <= 'f':
				n += int(r-'a') + 10
			case r >= 'A' && r <= 'F':
				n += int(r-'A') + 10
			}
		}
		return float64(n) / 255.0
	}
	switch len(v) {
	case 3:
		return scene.Color{
			R: hex(strings.Repeat(string(v[0]), 2)),
			G: hex(strings.Repeat(string(v[1]), 2)),
			B: hex(strings.Repeat(string(v[2]), 2)),
			A: 1,
		}, nil
	case 6:
		return scene.Color{R: hex(v[0:2]), G: hex(v[2:4]), B: hex(v[4:6]), A: 1}, nil
	case 8:
		return scene.Color{R: hex(v[0:2]), G: hex(v[2:4]), B: hex(v[4:6]), A: hex(v[6:8])}, nil
	default:
		return scene.Color{}, fmt.Errorf("cannot parse color %q", value)
	}
}

// valueTokens flattens a Value into its string tokens.
func valueTokens(v *Value) []string {
	if v == nil || v.Expr == nil {
		return nil
	}
	out := make([]string, 0, len(v.Expr.Parts))
	for _, part := range v.Expr.Parts {
		out = append(out, part.Value)
	}
	return out
}

func parseNumbers(tokens []string) []float64 {
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, scene.ParseLength(tok).ToMM())
	}
	return out
}

// numberArgs requires at least min numeric arguments on a command.
func numberArgs(cmd *Command, min int) ([]float64, error) {
	var out []float64
	for _, arg := range cmd.Args {
		out = append(out, scene.ParseLength(arg.Value).ToMM())
	}
	if len(out) < min {
		return nil, fmt.Errorf("%s: %s needs %d numeric arguments, got %d",
			cmd.Pos, cmd.Name, min, len(out))
	}
	return out, nil
}
