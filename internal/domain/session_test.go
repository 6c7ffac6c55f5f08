package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewState_Clone(t *testing.T) {
	state := NewViewState("s1", NewCoordinate(31.23, 121.47), SearchFilter{RadiusMeters: 3000})
	state.Focus = &FocusState{Coordinate: NewCoordinate(31.2, 121.4), Zoom: FocusDetail, MapZoom: 18}
	state.Guidance = &PermissionGuidance{Action: GuidanceOpenSettings, Message: "open settings"}

	clone := state.Clone()
	clone.Focus.Zoom = FocusNormal
	clone.Guidance.Message = "changed"
	clone.IssuedSeq = 5

	assert.Equal(t, FocusDetail, state.Focus.Zoom)
	assert.Equal(t, "open settings", state.Guidance.Message)
	assert.Zero(t, state.IssuedSeq)

	var nilState *ViewState
	assert.Nil(t, nilState.Clone())
}

func TestSearchResult_FindPlace(t *testing.T) {
	result := &SearchResult{Places: []NormalizedPlace{{ID: "a", Name: "A"}, {ID: "place-1", Name: "B"}}}

	place, ok := result.FindPlace("place-1")
	assert.True(t, ok)
	assert.Equal(t, "B", place.Name)

	_, ok = result.FindPlace("missing")
	assert.False(t, ok)

	var empty *SearchResult
	_, ok = empty.FindPlace("a")
	assert.False(t, ok)
}
