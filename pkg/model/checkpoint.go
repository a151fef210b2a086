package model

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"math/rand"
	"os"

	"github.com/golang/snappy"
)

// Checkpoint file layout:
//
//	[magic:8][version:4][payloadLen:4][payload:N][checksum:4]
//
// The payload is a snappy-compressed JSON document holding the model
// configuration and every parameter tensor by name. The trailing CRC32
// covers the compressed payload.
const (
	checkpointMagic   = "GNETCKPT"
	checkpointVersion = uint32(1)
)

type checkpointPayload struct {
	Config Config                      `json:"config"`
	Params map[string]checkpointParam `json:"params"`
}

type checkpointParam struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Save writes the model's configuration and parameters to path
func (c *Classifier) Save(path string) error {
	payload := checkpointPayload{
		Config: c.cfg,
		Params: make(map[string]checkpointParam),
	}
	for _, p := range c.Params() {
		payload.Params[p.Name] = checkpointParam{
			Rows: p.Value.Rows,
			Cols: p.Value.Cols,
			Data: p.Value.Data,
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(checkpointMagic)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.BigEndian, checkpointVersion); err != nil {
		return err
	}
	if err := binary.Write(f, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := f.Write(compressed); err != nil {
		return err
	}
	if err := binary.Write(f, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return err
	}
	return f.Sync()
}

// Load reads a checkpoint and reconstructs the classifier it was saved
// from. Returns ErrCorruptCheckpoint on framing or checksum failure.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	headerLen := len(checkpointMagic) + 8
	if len(data) < headerLen+4 {
		return nil, fmt.Errorf("%w: truncated file", ErrCorruptCheckpoint)
	}
	if string(data[:len(checkpointMagic)]) != checkpointMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptCheckpoint)
	}
	version := binary.BigEndian.Uint32(data[len(checkpointMagic):])
	if version != checkpointVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptCheckpoint, version)
	}
	payloadLen := binary.BigEndian.Uint32(data[len(checkpointMagic)+4:])
	if len(data) != headerLen+int(payloadLen)+4 {
		return nil, fmt.Errorf("%w: length mismatch", ErrCorruptCheckpoint)
	}

	compressed := data[headerLen : headerLen+int(payloadLen)]
	checksum := binary.BigEndian.Uint32(data[headerLen+int(payloadLen):])
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptCheckpoint)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}
	var payload checkpointPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}

	// Parameter values are overwritten below; the rng only seeds
	// throwaway initial weights.
	c, err := New(payload.Config, rand.New(rand.NewSource(0)))
	if err != nil {
		return nil, err
	}
	for _, p := range c.Params() {
		saved, ok := payload.Params[p.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing parameter %s", ErrCorruptCheckpoint, p.Name)
		}
		if saved.Rows != p.Value.Rows || saved.Cols != p.Value.Cols {
			return nil, fmt.Errorf("%w: parameter %s is %dx%d, model expects %dx%d",
				ErrCorruptCheckpoint, p.Name, saved.Rows, saved.Cols, p.Value.Rows, p.Value.Cols)
		}
		if len(saved.Data) != saved.Rows*saved.Cols {
			return nil, fmt.Errorf("%w: parameter %s has %d values for a %dx%d shape",
				ErrCorruptCheckpoint, p.Name, len(saved.Data), saved.Rows, saved.Cols)
		}
		copy(p.Value.Data, saved.Data)
	}
	return c, nil
}
