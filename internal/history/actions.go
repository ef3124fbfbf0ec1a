// Package history is the command log of the editor: a strict two-stack
// undo/redo sequencer over typed, immutable action records. It stores
// and moves commands; computing inverses is the caller's job.
package history

import (
	"encoding/json"
	"fmt"

	"voxelforge/internal/grid"
	"voxelforge/internal/store"
)

type ActionType string

const (
	ActionAddVoxel     ActionType = "addVoxel"
	ActionDeleteVoxel  ActionType = "deleteVoxel"
	ActionColorFace    ActionType = "colorFace"
	ActionCameraMove   ActionType = "cameraMove"
	ActionCameraRotate ActionType = "cameraRotate"
	ActionCameraZoom   ActionType = "cameraZoom"
)

// Target tags which object an action edited.
const (
	TargetMain     = "main"
	TargetAdjacent = "adjacent"
)

// AddVoxelData records a voxel addition. AdjacentDirection is set when
// the add was an extrusion from an existing face.
type AddVoxelData struct {
	VoxelID           store.VoxelID  `json:"voxelId"`
	Position          grid.Pos       `json:"position"`
	AdjacentDirection grid.Direction `json:"adjacentDirection,omitempty"`
}

// DeleteVoxelData carries the full snapshot needed to undo the delete.
type DeleteVoxelData struct {
	VoxelID   store.VoxelID  `json:"voxelId"`
	Position  grid.Pos       `json:"position"`
	VoxelData store.Snapshot `json:"voxelData"`
}

// ColorFaceData records a repaint with enough state to undo it.
type ColorFaceData struct {
	VoxelID       store.VoxelID `json:"voxelId"`
	FaceID        grid.FaceName `json:"faceId"`
	PreviousColor string        `json:"previousColor"`
	NewColor      string        `json:"newColor"`
}

// CameraData records a viewport move/rotate/zoom. The core never applies
// these; they ride the stacks so the shell can replay them.
type CameraData struct {
	From [3]float64 `json:"from"`
	To   [3]float64 `json:"to"`
}

// Action is one immutable history entry. Data holds exactly one of the
// typed payload structs above, discriminated by Type.
type Action struct {
	ID           string     `json:"id"`
	Type         ActionType `json:"type"`
	Timestamp    string     `json:"timestamp"`
	Description  string     `json:"description"`
	Data         any        `json:"data"`
	TargetObject string     `json:"targetObject"`
}

// actionWire mirrors Action with the payload left raw so UnmarshalJSON
// can route it by type, the way protocol messages are routed.
type actionWire struct {
	ID           string          `json:"id"`
	Type         ActionType      `json:"type"`
	Timestamp    string          `json:"timestamp"`
	Description  string          `json:"description"`
	Data         json.RawMessage `json:"data"`
	TargetObject string          `json:"targetObject"`
}

func (a *Action) UnmarshalJSON(b []byte) error {
	var w actionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	a.ID = w.ID
	a.Type = w.Type
	a.Timestamp = w.Timestamp
	a.Description = w.Description
	a.TargetObject = w.TargetObject
	a.Data = nil
	if len(w.Data) == 0 || string(w.Data) == "null" {
		return nil
	}
	data, err := decodePayload(w.Type, w.Data)
	if err != nil {
		return err
	}
	a.Data = data
	return nil
}

func decodePayload(t ActionType, raw json.RawMessage) (any, error) {
	switch t {
	case ActionAddVoxel:
		var d AddVoxelData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("addVoxel payload: %w", err)
		}
		return d, nil
	case ActionDeleteVoxel:
		var d DeleteVoxelData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("deleteVoxel payload: %w", err)
		}
		return d, nil
	case ActionColorFace:
		var d ColorFaceData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("colorFace payload: %w", err)
		}
		return d, nil
	case ActionCameraMove, ActionCameraRotate, ActionCameraZoom:
		var d CameraData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("camera payload: %w", err)
		}
		return d, nil
	}
	// Unknown types keep their raw payload so a newer file survives a
	// round-trip through an older build.
	return raw, nil
}
