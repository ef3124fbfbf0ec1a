package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// MaxSavedColors caps the user-defined palette file.
const MaxSavedColors = 100

var ErrPaletteFull = errors.New("saved palette exceeds entry cap")

type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

type PaletteColor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hex      string `json:"hex"`
	RGB      RGB    `json:"rgb"`
	Category string `json:"category,omitempty"`
	Custom   bool   `json:"custom"`
}

// SavedColor is one entry of the saved-palette file.
type SavedColor struct {
	ID   string `json:"id"`
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

func hexToRGB(hex string) RGB {
	var r, g, b uint8
	if len(hex) == 7 {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return RGB{R: int(r), G: int(g), B: int(b)}
}

func builtin(id, name, hex, category string) PaletteColor {
	return PaletteColor{ID: id, Name: name, Hex: hex, RGB: hexToRGB(hex), Category: category}
}

// DefaultPalette returns the built-in colors every new project starts
// with.
func DefaultPalette() []PaletteColor {
	return []PaletteColor{
		builtin("white", "White", "#ffffff", "gray"),
		builtin("light-gray", "Light Gray", "#c0c0c0", "gray"),
		builtin("gray", "Gray", "#808080", "gray"),
		builtin("dark-gray", "Dark Gray", "#404040", "gray"),
		builtin("black", "Black", "#000000", "gray"),
		builtin("red", "Red", "#e53935", "warm"),
		builtin("orange", "Orange", "#fb8c00", "warm"),
		builtin("yellow", "Yellow", "#fdd835", "warm"),
		builtin("brown", "Brown", "#6d4c41", "warm"),
		builtin("green", "Green", "#43a047", "cool"),
		builtin("teal", "Teal", "#00897b", "cool"),
		builtin("blue", "Blue", "#1e88e5", "cool"),
		builtin("indigo", "Indigo", "#3949ab", "cool"),
		builtin("purple", "Purple", "#8e24aa", "cool"),
		builtin("pink", "Pink", "#d81b60", "warm"),
		builtin("cyan", "Cyan", "#00acc1", "cool"),
	}
}

// LoadSavedPalette reads the user's saved colors. A missing file is an
// empty palette, not an error.
func LoadSavedPalette(path string) ([]SavedColor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []SavedColor{}, nil
		}
		return nil, fmt.Errorf("read palette: %w", err)
	}
	var colors []SavedColor
	if err := json.Unmarshal(raw, &colors); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}
	return colors, nil
}

// SaveSavedPalette writes the user's saved colors atomically, rejecting
// lists over the cap.
func SaveSavedPalette(path string, colors []SavedColor) error {
	if len(colors) > MaxSavedColors {
		return fmt.Errorf("%d entries: %w", len(colors), ErrPaletteFull)
	}
	payload, err := json.MarshalIndent(colors, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, payload)
}
