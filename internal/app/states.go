package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gosnes/internal/bus"
)

const stateVersion = "1"

// StateManager manages save state slots on disk
type StateManager struct {
	saveDirectory string
	maxSlots      int
}

// SaveState is a saved system state with the metadata needed to refuse
// loading it against another ROM
type SaveState struct {
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	ROMChecksum string    `json:"rom_checksum"`
	SlotNumber  int       `json:"slot_number"`

	System bus.State `json:"system"`
}

// StateSlotInfo describes one save state slot
type StateSlotInfo struct {
	SlotNumber int       `json:"slot_number"`
	Used       bool      `json:"used"`
	Timestamp  time.Time `json:"timestamp"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
}

// NewStateManager creates a state manager. The directory is created on the
// first save.
func NewStateManager(saveDirectory string) *StateManager {
	return &StateManager{
		saveDirectory: saveDirectory,
		maxSlots:      10,
	}
}

// SaveState saves the current system state to a slot
func (sm *StateManager) SaveState(b *bus.Bus, slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d", slot)
	}

	checksum, err := romChecksum(romPath)
	if err != nil {
		return err
	}

	state := &SaveState{
		Version:     stateVersion,
		Timestamp:   time.Now(),
		ROMPath:     romPath,
		ROMChecksum: checksum,
		SlotNumber:  slot,
		System:      b.SaveState(),
	}

	return sm.saveToFile(state, sm.getSlotFilePath(slot, romPath))
}

// LoadState restores a slot into the bus
func (sm *StateManager) LoadState(b *bus.Bus, slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d", slot)
	}

	filePath := sm.getSlotFilePath(slot, romPath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	state, err := sm.loadFromFile(filePath)
	if err != nil {
		return err
	}
	if err := sm.validateSaveState(state, romPath); err != nil {
		return fmt.Errorf("invalid save state: %w", err)
	}

	return b.LoadState(state.System)
}

func (sm *StateManager) saveToFile(state *SaveState, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write save state: %w", err)
	}
	return nil
}

func (sm *StateManager) loadFromFile(filePath string) (*SaveState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read save state: %w", err)
	}

	var state SaveState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

func (sm *StateManager) validateSaveState(state *SaveState, romPath string) error {
	if state.Version != stateVersion {
		return fmt.Errorf("unsupported version %q", state.Version)
	}

	checksum, err := romChecksum(romPath)
	if err != nil {
		return err
	}
	if state.ROMChecksum != checksum {
		return fmt.Errorf("state was saved from a different ROM (%s)", filepath.Base(state.ROMPath))
	}
	return nil
}

// getSlotFilePath generates the file path for a save slot
func (sm *StateManager) getSlotFilePath(slot int, romPath string) string {
	romName := filepath.Base(romPath)
	romNameWithoutExt := romName[:len(romName)-len(filepath.Ext(romName))]
	fileName := fmt.Sprintf("%s_slot_%d.state", romNameWithoutExt, slot)
	return filepath.Join(sm.saveDirectory, fileName)
}

// romChecksum hashes the ROM file
func romChecksum(romPath string) (string, error) {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return "", fmt.Errorf("failed to read ROM for checksum: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// GetSlotInfo returns information about all save slots
func (sm *StateManager) GetSlotInfo(romPath string) []StateSlotInfo {
	slots := make([]StateSlotInfo, sm.maxSlots)

	for i := range slots {
		slots[i].SlotNumber = i

		filePath := sm.getSlotFilePath(i, romPath)
		stat, err := os.Stat(filePath)
		if err != nil {
			continue
		}
		slots[i].Used = true
		slots[i].FilePath = filePath
		slots[i].FileSize = stat.Size()
		slots[i].Timestamp = stat.ModTime()
		if state, err := sm.loadFromFile(filePath); err == nil {
			slots[i].Timestamp = state.Timestamp
		}
	}

	return slots
}

// DeleteState deletes a save state from a slot
func (sm *StateManager) DeleteState(slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d", slot)
	}

	filePath := sm.getSlotFilePath(slot, romPath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete save state: %w", err)
	}
	return nil
}

// HasSaveState checks if a save state exists in a slot
func (sm *StateManager) HasSaveState(slot int, romPath string) bool {
	if slot < 0 || slot >= sm.maxSlots {
		return false
	}
	_, err := os.Stat(sm.getSlotFilePath(slot, romPath))
	return err == nil
}

// GetMaxSlots returns the maximum number of save slots
func (sm *StateManager) GetMaxSlots() int {
	return sm.maxSlots
}

// SetMaxSlots sets the maximum number of save slots
func (sm *StateManager) SetMaxSlots(slots int) {
	if slots > 0 {
		sm.maxSlots = slots
	}
}

// GetSaveDirectory returns the save directory path
func (sm *StateManager) GetSaveDirectory() string {
	return sm.saveDirectory
}
