package character

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Type tags of serialized nodes.
const (
	tagTile           = "tile"
	tagSprite         = "animation_sprite"
	tagFrame          = "animation_frame"
	tagAnimation      = "animation"
	tagHurtbox        = "animation_hurtbox"
	tagDirectHitbox   = "animation_direct_hitbox"
	tagCustomHitbox   = "animation_custom_hitbox"
	tagLegacyHitbox   = "animation_hitbox"
	tagPalette        = "palette"
	masterColorCount  = 64
	maxAttributeValue = 0xff
)

type wireTile struct {
	Type           string  `json:"type"`
	Representation [][]int `json:"representation"`
}

type wireTileset struct {
	TileNames []string   `json:"tilenames"`
	Tiles     []wireTile `json:"tiles"`
}

type wireIllustration struct {
	Tiles []wireTile `json:"tiles"`
}

type wireSprite struct {
	Type       string `json:"type"`
	Tile       string `json:"tile"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Attr       int    `json:"attr"`
	Foreground bool   `json:"foreground"`
}

type wireHurtbox struct {
	Type   string `json:"type"`
	Left   int    `json:"left"`
	Top    int    `json:"top"`
	Right  int    `json:"right"`
	Bottom int    `json:"bottom"`
}

type wireDirectHitbox struct {
	Type    string `json:"type"`
	Left    int    `json:"left"`
	Top     int    `json:"top"`
	Right   int    `json:"right"`
	Bottom  int    `json:"bottom"`
	Damages int    `json:"damages"`
	BaseH   int    `json:"base_h"`
	BaseV   int    `json:"base_v"`
	ForceH  int    `json:"force_h"`
	ForceV  int    `json:"force_v"`
	Enabled bool   `json:"enabled"`
}

type wireCustomHitbox struct {
	Type    string `json:"type"`
	Left    int    `json:"left"`
	Top     int    `json:"top"`
	Right   int    `json:"right"`
	Bottom  int    `json:"bottom"`
	Routine string `json:"hitbox_routine"`
	Value1  int    `json:"value1"`
	Value2  int    `json:"value2"`
	Value3  int    `json:"value3"`
	Value4  int    `json:"value4"`
	Value5  int    `json:"value5"`
	Enabled bool   `json:"enabled"`
}

type wireFrame struct {
	Type     string          `json:"type"`
	Duration int             `json:"duration"`
	Sprites  []wireSprite    `json:"sprites"`
	Hitbox   json.RawMessage `json:"hitbox"`
	Hurtbox  json.RawMessage `json:"hurtbox"`
}

type wireAnimation struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Frames []wireFrame `json:"frames"`
}

type wirePalette struct {
	Type   string `json:"type,omitempty"`
	Colors []int  `json:"colors"`
}

type wireColorSwaps struct {
	Primary   []wirePalette `json:"primary_colors"`
	Secondary []wirePalette `json:"secondary_colors"`
	Alternate []wirePalette `json:"alternate_colors"`
}

type wireDocument struct {
	Name                *string           `json:"name"`
	Tileset             *wireTileset      `json:"tileset"`
	IllustrationToken   *wireIllustration `json:"illustration_token"`
	IllustrationSmall   *wireIllustration `json:"illustration_small"`
	IllustrationLarge   *wireIllustration `json:"illustration_large"`
	Animations          []wireAnimation   `json:"animations"`
	VictoryAnimation    *wireAnimation    `json:"victory_animation"`
	DefeatAnimation     *wireAnimation    `json:"defeat_animation"`
	MenuSelectAnimation *wireAnimation    `json:"menu_select_animation"`
	ColorSwaps          *wireColorSwaps   `json:"color_swaps"`
	States              []json.RawMessage `json:"states"`
	SourceCode          string            `json:"sourcecode"`
	NetloadRoutine      string            `json:"netload_routine"`
}

// checkTag accepts an empty tag (older files omit it) or the expected one.
func checkTag(got, want, where string) error {
	if got != "" && got != want {
		return invalidf("%s: unknown type %q, want %q", where, got, want)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func decodeTile(w wireTile, where string) (Tile, error) {
	var t Tile
	if err := checkTag(w.Type, tagTile, where); err != nil {
		return t, err
	}
	if len(w.Representation) != TileSize {
		return t, invalidf("%s: got %d rows, want %d", where, len(w.Representation), TileSize)
	}
	for y, row := range w.Representation {
		if len(row) != TileSize {
			return t, invalidf("%s: row %d has %d pixels, want %d", where, y, len(row), TileSize)
		}
		for x, v := range row {
			if v < 0 || v > 3 {
				return t, invalidf("%s: pixel %d,%d has value %d, want [0,3]", where, x, y, v)
			}
			t[y][x] = uint8(v)
		}
	}
	return t, nil
}

func decodeTiles(in []wireTile, where string) ([]Tile, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]Tile, len(in))
	for i, w := range in {
		t, err := decodeTile(w, where+".tiles["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func decodeIllustration(w *wireIllustration, k IllustrationKind) (Illustration, error) {
	where := "illustration_" + k.String()
	if w == nil {
		return Illustration{}, invalidf("%s: missing", where)
	}
	tiles, err := decodeTiles(w.Tiles, where)
	if err != nil {
		return Illustration{}, err
	}
	cols, rows := k.Size()
	if len(tiles) != cols*rows {
		return Illustration{}, invalidf("%s: got %d tiles, want %d", where, len(tiles), cols*rows)
	}
	return Illustration{Tiles: tiles}, nil
}

func decodeBox(left, top, right, bottom int, where string) (Box, error) {
	b := Box{Left: left, Top: top, Right: right, Bottom: bottom}
	for _, v := range []int{left, top, right, bottom} {
		if !InCoordRange(v) {
			return b, invalidf("%s: edge %d out of range [%d,%d]", where, v, MinCoord, MaxCoord)
		}
	}
	if !b.Valid() {
		return b, invalidf("%s: inverted box %+v", where, b)
	}
	return b, nil
}

func decodeHitbox(raw json.RawMessage, where string) (*Hitbox, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, invalidf("%s: %v", where, err)
	}
	switch tag.Type {
	case tagDirectHitbox, tagLegacyHitbox, "":
		var w wireDirectHitbox
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, invalidf("%s: %v", where, err)
		}
		b, err := decodeBox(w.Left, w.Top, w.Right, w.Bottom, where)
		if err != nil {
			return nil, err
		}
		return &Hitbox{
			Kind:    DirectHitbox,
			Box:     b,
			Enabled: w.Enabled,
			Damages: w.Damages,
			BaseH:   w.BaseH,
			BaseV:   w.BaseV,
			ForceH:  w.ForceH,
			ForceV:  w.ForceV,
		}, nil
	case tagCustomHitbox:
		var w wireCustomHitbox
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, invalidf("%s: %v", where, err)
		}
		b, err := decodeBox(w.Left, w.Top, w.Right, w.Bottom, where)
		if err != nil {
			return nil, err
		}
		return &Hitbox{
			Kind:    CustomHitbox,
			Box:     b,
			Enabled: w.Enabled,
			Routine: w.Routine,
			Values:  [5]int{w.Value1, w.Value2, w.Value3, w.Value4, w.Value5},
		}, nil
	}
	return nil, invalidf("%s: unknown hitbox type %q", where, tag.Type)
}

func decodeHurtbox(raw json.RawMessage, where string) (*Hurtbox, error) {
	var w wireHurtbox
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, invalidf("%s: %v", where, err)
	}
	if err := checkTag(w.Type, tagHurtbox, where); err != nil {
		return nil, err
	}
	b, err := decodeBox(w.Left, w.Top, w.Right, w.Bottom, where)
	if err != nil {
		return nil, err
	}
	return &Hurtbox{Box: b}, nil
}

func decodeFrame(w wireFrame, where string) (Frame, error) {
	var f Frame
	if err := checkTag(w.Type, tagFrame, where); err != nil {
		return f, err
	}
	if w.Duration < 1 {
		return f, invalidf("%s: duration %d, want at least 1", where, w.Duration)
	}
	f.Duration = w.Duration
	if w.Sprites != nil {
		f.Sprites = make([]Sprite, len(w.Sprites))
		for i, s := range w.Sprites {
			sw := where + ".sprites[" + strconv.Itoa(i) + "]"
			if err := checkTag(s.Type, tagSprite, sw); err != nil {
				return f, err
			}
			if s.Attr < 0 || s.Attr > maxAttributeValue {
				return f, invalidf("%s: attr %d out of range", sw, s.Attr)
			}
			if !InCoordRange(s.X) || !InCoordRange(s.Y) {
				return f, invalidf("%s: position (%d,%d) out of range [%d,%d]", sw, s.X, s.Y, MinCoord, MaxCoord)
			}
			f.Sprites[i] = Sprite{Tile: s.Tile, X: s.X, Y: s.Y, Attr: uint8(s.Attr), Foreground: s.Foreground}
		}
	}
	var err error
	if !isNull(w.Hitbox) {
		if f.Hitbox, err = decodeHitbox(w.Hitbox, where+".hitbox"); err != nil {
			return f, err
		}
	}
	if !isNull(w.Hurtbox) {
		if f.Hurtbox, err = decodeHurtbox(w.Hurtbox, where+".hurtbox"); err != nil {
			return f, err
		}
	}
	return f, nil
}

func decodeAnimation(w *wireAnimation, where string) (Animation, error) {
	if w == nil {
		return Animation{}, invalidf("%s: missing", where)
	}
	if err := checkTag(w.Type, tagAnimation, where); err != nil {
		return Animation{}, err
	}
	a := Animation{Name: w.Name}
	if w.Frames != nil {
		a.Frames = make([]Frame, len(w.Frames))
		for i, wf := range w.Frames {
			f, err := decodeFrame(wf, where+".frames["+strconv.Itoa(i)+"]")
			if err != nil {
				return Animation{}, err
			}
			a.Frames[i] = f
		}
	}
	return a, nil
}

func decodeSwaps(in []wirePalette, where string) ([]Swap, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]Swap, len(in))
	for i, p := range in {
		pw := where + "[" + strconv.Itoa(i) + "]"
		if err := checkTag(p.Type, tagPalette, pw); err != nil {
			return nil, err
		}
		if len(p.Colors) != len(Swap{}) {
			return nil, invalidf("%s: got %d colors, want %d", pw, len(p.Colors), len(Swap{}))
		}
		for j, c := range p.Colors {
			if c < 0 || c >= masterColorCount {
				return nil, invalidf("%s: color %d out of range", pw, c)
			}
			out[i][j] = uint8(c)
		}
	}
	return out, nil
}

// Import parses a serialized character and validates it. On error no
// document is returned; the cause of validation errors is ErrInvalid.
func Import(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, invalidf("not a JSON object")
	}
	var w wireDocument
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, invalidf("%v", err)
	}
	if w.Name == nil || *w.Name == "" {
		return nil, invalidf("missing name")
	}
	if w.Tileset == nil {
		return nil, invalidf("missing tileset")
	}
	if w.ColorSwaps == nil {
		return nil, invalidf("missing color_swaps")
	}

	d := &Document{
		Name:           *w.Name,
		SourceCode:     w.SourceCode,
		NetloadRoutine: w.NetloadRoutine,
	}

	if len(w.Tileset.TileNames) != len(w.Tileset.Tiles) {
		return nil, invalidf("tileset: %d names for %d tiles", len(w.Tileset.TileNames), len(w.Tileset.Tiles))
	}
	seen := make(map[string]bool, len(w.Tileset.TileNames))
	for _, n := range w.Tileset.TileNames {
		if seen[n] {
			return nil, invalidf("tileset: duplicate tile name %q", n)
		}
		seen[n] = true
	}
	var err error
	if w.Tileset.TileNames != nil {
		d.Tileset.Names = append([]string{}, w.Tileset.TileNames...)
	}
	if d.Tileset.Tiles, err = decodeTiles(w.Tileset.Tiles, "tileset"); err != nil {
		return nil, err
	}

	if d.IllustrationToken, err = decodeIllustration(w.IllustrationToken, IllustrationToken); err != nil {
		return nil, err
	}
	if d.IllustrationSmall, err = decodeIllustration(w.IllustrationSmall, IllustrationSmall); err != nil {
		return nil, err
	}
	if d.IllustrationLarge, err = decodeIllustration(w.IllustrationLarge, IllustrationLarge); err != nil {
		return nil, err
	}

	if w.Animations != nil {
		d.Animations = make([]Animation, len(w.Animations))
		for i := range w.Animations {
			if d.Animations[i], err = decodeAnimation(&w.Animations[i], "animations["+strconv.Itoa(i)+"]"); err != nil {
				return nil, err
			}
		}
	}
	if d.VictoryAnimation, err = decodeAnimation(w.VictoryAnimation, "victory_animation"); err != nil {
		return nil, err
	}
	if d.DefeatAnimation, err = decodeAnimation(w.DefeatAnimation, "defeat_animation"); err != nil {
		return nil, err
	}
	if d.MenuSelectAnimation, err = decodeAnimation(w.MenuSelectAnimation, "menu_select_animation"); err != nil {
		return nil, err
	}
	names := make(map[string]bool)
	for _, a := range d.AllAnimations() {
		if names[a.Name] {
			return nil, invalidf("duplicate animation name %q", a.Name)
		}
		names[a.Name] = true
	}

	if d.ColorSwaps.Primary, err = decodeSwaps(w.ColorSwaps.Primary, "color_swaps.primary_colors"); err != nil {
		return nil, err
	}
	if d.ColorSwaps.Secondary, err = decodeSwaps(w.ColorSwaps.Secondary, "color_swaps.secondary_colors"); err != nil {
		return nil, err
	}
	if d.ColorSwaps.Alternate, err = decodeSwaps(w.ColorSwaps.Alternate, "color_swaps.alternate_colors"); err != nil {
		return nil, err
	}

	if w.States != nil {
		d.States = make([]json.RawMessage, len(w.States))
		for i, s := range w.States {
			buf := &bytes.Buffer{}
			if err := json.Compact(buf, s); err != nil {
				return nil, invalidf("states[%d]: %v", i, err)
			}
			d.States[i] = buf.Bytes()
		}
	}
	return d, nil
}

func encodeTiles(in []Tile) []wireTile {
	if in == nil {
		return nil
	}
	out := make([]wireTile, len(in))
	for i, t := range in {
		rows := make([][]int, TileSize)
		for y := range t {
			rows[y] = make([]int, TileSize)
			for x := range t[y] {
				rows[y][x] = int(t[y][x])
			}
		}
		out[i] = wireTile{Type: tagTile, Representation: rows}
	}
	return out
}

func encodeFrame(f *Frame) (wireFrame, error) {
	w := wireFrame{Type: tagFrame, Duration: f.Duration}
	if f.Sprites != nil {
		w.Sprites = make([]wireSprite, len(f.Sprites))
		for i, s := range f.Sprites {
			w.Sprites[i] = wireSprite{Type: tagSprite, Tile: s.Tile, X: s.X, Y: s.Y, Attr: int(s.Attr), Foreground: s.Foreground}
		}
	}
	var hitbox, hurtbox interface{}
	if hb := f.Hitbox; hb != nil {
		switch hb.Kind {
		case DirectHitbox:
			hitbox = wireDirectHitbox{
				Type: tagDirectHitbox, Left: hb.Left, Top: hb.Top, Right: hb.Right, Bottom: hb.Bottom,
				Damages: hb.Damages, BaseH: hb.BaseH, BaseV: hb.BaseV, ForceH: hb.ForceH, ForceV: hb.ForceV,
				Enabled: hb.Enabled,
			}
		case CustomHitbox:
			hitbox = wireCustomHitbox{
				Type: tagCustomHitbox, Left: hb.Left, Top: hb.Top, Right: hb.Right, Bottom: hb.Bottom,
				Routine: hb.Routine,
				Value1:  hb.Values[0], Value2: hb.Values[1], Value3: hb.Values[2], Value4: hb.Values[3], Value5: hb.Values[4],
				Enabled: hb.Enabled,
			}
		default:
			return w, errors.Errorf("unknown hitbox kind %v", hb.Kind)
		}
	}
	if hb := f.Hurtbox; hb != nil {
		hurtbox = wireHurtbox{Type: tagHurtbox, Left: hb.Left, Top: hb.Top, Right: hb.Right, Bottom: hb.Bottom}
	}
	var err error
	if w.Hitbox, err = json.Marshal(hitbox); err != nil {
		return w, err
	}
	if w.Hurtbox, err = json.Marshal(hurtbox); err != nil {
		return w, err
	}
	return w, nil
}

func encodeAnimation(a *Animation) (*wireAnimation, error) {
	w := &wireAnimation{Type: tagAnimation, Name: a.Name}
	if a.Frames != nil {
		w.Frames = make([]wireFrame, len(a.Frames))
		for i := range a.Frames {
			f, err := encodeFrame(&a.Frames[i])
			if err != nil {
				return nil, errors.Wrapf(err, "animation %q frame %d", a.Name, i)
			}
			w.Frames[i] = f
		}
	}
	return w, nil
}

func encodeSwaps(in []Swap) []wirePalette {
	if in == nil {
		return nil
	}
	out := make([]wirePalette, len(in))
	for i, s := range in {
		out[i] = wirePalette{Colors: []int{int(s[0]), int(s[1]), int(s[2]), int(s[3])}}
	}
	return out
}

// Export serializes the document as indented JSON accepted by Import.
func Export(d *Document) ([]byte, error) {
	name := d.Name
	w := wireDocument{
		Name: &name,
		Tileset: &wireTileset{
			TileNames: d.Tileset.Names,
			Tiles:     encodeTiles(d.Tileset.Tiles),
		},
		IllustrationToken: &wireIllustration{Tiles: encodeTiles(d.IllustrationToken.Tiles)},
		IllustrationSmall: &wireIllustration{Tiles: encodeTiles(d.IllustrationSmall.Tiles)},
		IllustrationLarge: &wireIllustration{Tiles: encodeTiles(d.IllustrationLarge.Tiles)},
		ColorSwaps: &wireColorSwaps{
			Primary:   encodeSwaps(d.ColorSwaps.Primary),
			Secondary: encodeSwaps(d.ColorSwaps.Secondary),
			Alternate: encodeSwaps(d.ColorSwaps.Alternate),
		},
		States:         d.States,
		SourceCode:     d.SourceCode,
		NetloadRoutine: d.NetloadRoutine,
	}
	var err error
	if d.Animations != nil {
		w.Animations = make([]wireAnimation, len(d.Animations))
		for i := range d.Animations {
			a, err := encodeAnimation(&d.Animations[i])
			if err != nil {
				return nil, err
			}
			w.Animations[i] = *a
		}
	}
	if w.VictoryAnimation, err = encodeAnimation(&d.VictoryAnimation); err != nil {
		return nil, err
	}
	if w.DefeatAnimation, err = encodeAnimation(&d.DefeatAnimation); err != nil {
		return nil, err
	}
	if w.MenuSelectAnimation, err = encodeAnimation(&d.MenuSelectAnimation); err != nil {
		return nil, err
	}
	return json.MarshalIndent(&w, "", "  ")
}

// FileName is the name offered when downloading an exported document.
func (d *Document) FileName() string {
	return d.Name + ".json"
}
