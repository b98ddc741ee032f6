package emu

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/xXJSONDeruloXx/simple-gb-emu/internal/curated"
)

// Error patterns for save states.
const (
	StateError     = "emu state: %v"
	StateFileError = "emu state file: %v"
	StateTitle     = "emu state: saved for %q, loaded cartridge is %q"
)

type machineState struct {
	Title  string
	Cycles uint64
	Bus   []byte
	CPU   []byte
	Timer []byte
	PPU   []byte
}

// SaveState serializes everything but the cartridge ROM.
func (m *Machine) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	err := enc.Encode(machineState{
		Title:  m.Title(),
		Cycles: m.cycles,
		Bus:    m.bus.SaveState(),
		CPU:    m.cpu.SaveState(),
		Timer:  m.timer.SaveState(),
		PPU:    m.ppu.SaveState(),
	})
	if err != nil {
		return nil, curated.Errorf(StateError, err)
	}
	return buf.Bytes(), nil
}

// LoadState restores a state made by SaveState for the same cartridge. The
// machine is unchanged if an error is returned.
func (m *Machine) LoadState(data []byte) error {
	var s machineState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return curated.Errorf(StateError, err)
	}
	if s.Title != m.Title() {
		return curated.Errorf(StateTitle, s.Title, m.Title())
	}

	// a component that fails to restore rolls the others back
	undo, err := m.SaveState()
	if err != nil {
		return err
	}
	if err := m.restore(s); err != nil {
		var u machineState
		if gob.NewDecoder(bytes.NewReader(undo)).Decode(&u) == nil {
			_ = m.restore(u)
		}
		return curated.Errorf(StateError, err)
	}

	m.log.Logf(TagState, "restored state for %q", s.Title)
	return nil
}

func (m *Machine) restore(s machineState) error {
	if err := m.bus.LoadState(s.Bus); err != nil {
		return err
	}
	if err := m.cpu.LoadState(s.CPU); err != nil {
		return err
	}
	if err := m.timer.LoadState(s.Timer); err != nil {
		return err
	}
	if err := m.ppu.LoadState(s.PPU); err != nil {
		return err
	}
	m.cycles = s.Cycles
	return nil
}

func (m *Machine) SaveStateToFile(path string) error {
	data, err := m.SaveState()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return curated.Errorf(StateFileError, err)
	}
	return nil
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return curated.Errorf(StateFileError, err)
	}
	return m.LoadState(data)
}
