package engine

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed maps/base.csv
var baseMap string

// Position addresses a hex as printed on the board: a row letter and a
// 1-based column, e.g. "C4".
type Position struct {
	Row    byte `json:"row"`
	Column int  `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", p.Row, p.Column)
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(b []byte) error {
	pos, ok := ParsePosition(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPosition, b)
	}
	*p = pos
	return nil
}

// Bounds of the base map. Rows at odd indexes (B, D, ...) are one hex short.
const (
	boardRows    = 9
	boardColumns = 13
)

// ParsePosition reads a position like "A13" or "i1" within the base map bounds.
func ParsePosition(s string) (Position, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Position{}, false
	}
	row := s[0]
	if row < 'A' || row >= 'A'+boardRows {
		return Position{}, false
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 1 {
		return Position{}, false
	}
	limit := boardColumns
	if (row-'A')%2 == 1 {
		limit--
	}
	if col > limit {
		return Position{}, false
	}
	return Position{Row: row, Column: col}, true
}

// cell is a half-hex on the raw grid. Every hex covers two side-by-side
// cells, and odd rows are padded with one water cell at each end, which
// lines the staggered rows up so that hex neighbours are grid neighbours.
type cell struct {
	row, col int
}

// LinesToMap expands comma-separated terrain rows into the raw grid.
func LinesToMap(lines []string) (map[cell]Terrain, error) {
	tiles := make(map[cell]Terrain)
	i := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		col := 0
		if i%2 == 1 {
			tiles[cell{i, col}] = TerrainWater
			col++
		}
		for _, name := range strings.Split(line, ",") {
			t, ok := ParseTerrain(name)
			if !ok {
				return nil, fmt.Errorf("row %d: unknown terrain %q", i+1, strings.TrimSpace(name))
			}
			for range 2 {
				tiles[cell{i, col}] = t
				col++
			}
		}
		if i%2 == 1 {
			tiles[cell{i, col}] = TerrainWater
		}
		i++
	}
	return tiles, nil
}

// Placement is a structure standing on the board.
type Placement struct {
	Owner     Terrain   `json:"owner"`
	Structure Structure `json:"structure"`
}

// Board is the hex map plus every structure placed on it.
type Board struct {
	tiles   map[cell]Terrain
	rowLens []int
	maxRow  int
	maxCol  int

	Rows       []string               `json:"rows"`
	Structures map[Position]Placement `json:"structures"`
	// Terraformed holds hexes whose terrain changed during play.
	Terraformed map[Position]Terrain `json:"terraformed,omitempty"`
}

// NewBoard builds a board from terrain rows.
func NewBoard(lines []string) (*Board, error) {
	tiles, err := LinesToMap(lines)
	if err != nil {
		return nil, err
	}
	b := &Board{tiles: tiles, Structures: make(map[Position]Placement)}
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.Rows = append(b.Rows, strings.TrimSpace(line))
			b.rowLens = append(b.rowLens, len(strings.Split(line, ",")))
		}
	}
	for c := range tiles {
		b.maxRow = max(b.maxRow, c.row)
		b.maxCol = max(b.maxCol, c.col)
	}
	return b, nil
}

// BaseBoard returns an empty board with the standard map.
func BaseBoard() *Board {
	b, err := NewBoard(strings.Split(baseMap, "\n"))
	if err != nil {
		panic(fmt.Sprintf("base map: %v", err))
	}
	return b
}

// UnmarshalJSON rebuilds the grid from the stored rows.
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rows        []string               `json:"rows"`
		Structures  map[Position]Placement `json:"structures"`
		Terraformed map[Position]Terrain   `json:"terraformed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	nb, err := NewBoard(raw.Rows)
	if err != nil {
		return err
	}
	if raw.Structures != nil {
		nb.Structures = raw.Structures
	}
	nb.Terraformed = raw.Terraformed
	*b = *nb
	return nil
}

// Contains reports whether pos is a hex on this board.
func (b *Board) Contains(pos Position) bool {
	r := int(pos.Row) - 'A'
	return r >= 0 && r < len(b.rowLens) && pos.Column >= 1 && pos.Column <= b.rowLens[r]
}

// Terrain returns the terrain at pos.
func (b *Board) Terrain(pos Position) (Terrain, bool) {
	if !b.Contains(pos) {
		return TerrainNone, false
	}
	if t, ok := b.Terraformed[pos]; ok {
		return t, true
	}
	return b.tiles[toRaw(pos)], true
}

// Terraform turns an empty land hex into terrain t.
func (b *Board) Terraform(pos Position, t Terrain) error {
	cur, ok := b.Terrain(pos)
	if !ok || !cur.Buildable() || !t.Buildable() {
		return fmt.Errorf("%w: cannot turn %s into %s", ErrInvalidPosition, pos, t)
	}
	if _, taken := b.Structures[pos]; taken {
		return fmt.Errorf("%w: %s is built on", ErrInvalidPosition, pos)
	}
	if b.Terraformed == nil {
		b.Terraformed = make(map[Position]Terrain)
	}
	b.Terraformed[pos] = t
	return nil
}

// Neighbors returns the hexes directly adjacent to pos, sorted.
func (b *Board) Neighbors(pos Position) []Position {
	if !b.Contains(pos) {
		return nil
	}
	c := toRaw(pos)
	// The hex's other half lies left on even rows and right on odd rows.
	other := cell{c.row, c.col - 1}
	if c.row%2 == 1 {
		other = cell{c.row, c.col + 1}
	}
	seen := make(map[Position]bool)
	var out []Position
	for _, n := range append(b.rawNeighbors(c), b.rawNeighbors(other)...) {
		p := fromRaw(n)
		if p == pos || seen[p] || !b.Contains(p) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

func (b *Board) rawNeighbors(c cell) []cell {
	var out []cell
	if c.row > 0 {
		out = append(out, cell{c.row - 1, c.col})
	}
	if c.row < b.maxRow {
		out = append(out, cell{c.row + 1, c.col})
	}
	if c.col > 0 {
		out = append(out, cell{c.row, c.col - 1})
	}
	if c.col < b.maxCol {
		out = append(out, cell{c.row, c.col + 1})
	}
	return out
}

func toRaw(p Position) cell {
	return cell{row: int(p.Row) - 'A', col: 2*(p.Column-1) + 1}
}

func fromRaw(c cell) Position {
	col := (c.col-1)/2 + 1
	if c.row%2 == 0 {
		col = c.col/2 + 1
	}
	return Position{Row: byte('A' + c.row), Column: col}
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Row != ps[j].Row {
			return ps[i].Row < ps[j].Row
		}
		return ps[i].Column < ps[j].Column
	})
}

// StructureAt returns the structure on pos, if any.
func (b *Board) StructureAt(pos Position) (Placement, bool) {
	pl, ok := b.Structures[pos]
	return pl, ok
}

// Place puts a new structure on an empty, buildable hex.
func (b *Board) Place(pos Position, owner Terrain, s Structure) error {
	t, ok := b.Terrain(pos)
	if !ok {
		return fmt.Errorf("%w: %s is off the board", ErrInvalidPosition, pos)
	}
	if !t.Buildable() {
		return fmt.Errorf("%w: %s is %s", ErrInvalidPosition, pos, t)
	}
	if pl, taken := b.Structures[pos]; taken {
		return fmt.Errorf("%w: %s already has a %s", ErrInvalidPosition, pos, pl.Structure)
	}
	b.Structures[pos] = Placement{Owner: owner, Structure: s}
	return nil
}

// Replace swaps the structure on an occupied hex, keeping the owner.
func (b *Board) Replace(pos Position, s Structure) error {
	pl, ok := b.Structures[pos]
	if !ok {
		return fmt.Errorf("%w: nothing built at %s", ErrInvalidPosition, pos)
	}
	pl.Structure = s
	b.Structures[pos] = pl
	return nil
}

// NeighborStructureOwners returns the structures adjacent to pos.
func (b *Board) NeighborStructureOwners(pos Position) []Placement {
	var out []Placement
	for _, n := range b.Neighbors(pos) {
		if pl, ok := b.Structures[n]; ok {
			out = append(out, pl)
		}
	}
	return out
}

// OwnedBy returns every hex holding a structure of owner, sorted.
func (b *Board) OwnedBy(owner Terrain) []Position {
	var out []Position
	for pos, pl := range b.Structures {
		if pl.Owner == owner {
			out = append(out, pos)
		}
	}
	sortPositions(out)
	return out
}

// ConnectedStructures returns the owner's structures reachable from pos
// through directly adjacent hexes that also hold the owner's structures.
func (b *Board) ConnectedStructures(pos Position, owner Terrain) []Position {
	if pl, ok := b.Structures[pos]; !ok || pl.Owner != owner {
		return nil
	}
	seen := map[Position]bool{pos: true}
	queue := []Position{pos}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range b.Neighbors(cur) {
			if pl, ok := b.Structures[n]; ok && pl.Owner == owner && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	out := make([]Position, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}
