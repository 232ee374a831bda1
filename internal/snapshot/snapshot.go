// Package snapshot saves a game in progress as zstd-compressed JSON so a
// session can be resumed later.
package snapshot

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"tmengine/internal/engine"
)

// Version is bumped whenever the body layout changes.
const Version = 1

var ErrCorrupt = errors.New("snapshot: corrupt")

// Header is the first line of a snapshot. It can be read without decoding
// the game.
type Header struct {
	Version int    `json:"version"`
	GameID  string `json:"game_id"`
	Seed    uint64 `json:"seed"`
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	Digest  string `json:"digest"`
}

// Snapshot is a game and the header describing it.
type Snapshot struct {
	Header Header
	Game   *engine.Game
}

// Capture wraps g for writing.
func Capture(gameID string, seed uint64, g *engine.Game) Snapshot {
	return Snapshot{
		Header: Header{
			Version: Version,
			GameID:  gameID,
			Seed:    seed,
			Round:   g.Round,
			Phase:   g.Phase.String(),
		},
		Game: g,
	}
}

// Encode writes snap to w. The header digest is filled from the body.
func Encode(w io.Writer, snap Snapshot) error {
	body, err := json.Marshal(snap.Game)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	sum := sha256.Sum256(body)
	snap.Header.Digest = hex.EncodeToString(sum[:])

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := bw.Write(body); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// Decode reads a snapshot from r and reattaches the players' factions from
// reg.
func Decode(r io.Reader, reg *engine.FactionRegistry) (Snapshot, error) {
	var snap Snapshot
	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(line, &snap.Header); err != nil {
		return snap, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("snapshot: version %d, want %d", snap.Header.Version, Version)
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	sum := sha256.Sum256(body)
	if hex.EncodeToString(sum[:]) != snap.Header.Digest {
		return snap, fmt.Errorf("%w: digest mismatch", ErrCorrupt)
	}

	var g engine.Game
	if err := json.Unmarshal(body, &g); err != nil {
		return snap, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := g.AttachFactions(reg); err != nil {
		return snap, err
	}
	snap.Game = &g
	return snap, nil
}

// Write saves snap to path, replacing any earlier snapshot only once the
// new one is complete.
func Write(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Read loads the snapshot saved at path.
func Read(path string, reg *engine.FactionRegistry) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Decode(f, reg)
}
