package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDiff(t *testing.T) {
	physics := NewSession("sess-1", "Physics", []string{"History of Physics", "Future of Physics"})
	advanced := physics.Advance("History of Physics", []string{"Early History"})

	tests := []struct {
		name     string
		old      *State
		new      State
		wantDiff *StateDiff // nil means no change
	}{
		{
			name:     "Initial Load Without Session",
			old:      nil,
			new:      NewState(),
			wantDiff: &StateDiff{Request: ptr(Idle())},
		},
		{
			name: "No Changes",
			old:  &State{Session: physics, Request: Idle(), Generation: 1},
			new:  State{Session: physics.Clone(), Request: Idle(), Generation: 1},
		},
		{
			name: "Start Requested",
			old:  ptr(NewState()),
			new:  State{Request: Loading(), Generation: 1},
			wantDiff: &StateDiff{
				Generation: 1,
				Request:    ptr(Loading()),
			},
		},
		{
			name: "Session Created",
			old:  &State{Request: Loading(), Generation: 1},
			new:  State{Session: physics, Request: Idle(), Generation: 1},
			wantDiff: &StateDiff{
				Generation: 1,
				SessionID:  ptr("sess-1"),
				Topic:      ptr("Physics"),
				Menu:       physics.Menu,
				Request:    ptr(Idle()),
				History:    &HistoryDelta{Appended: []string{"Topic: Physics"}, Replace: true},
			},
		},
		{
			name: "Selection Applied",
			old:  &State{Session: physics, Request: Loading(), Generation: 1},
			new:  State{Session: advanced, Request: Idle(), Generation: 1},
			wantDiff: &StateDiff{
				Generation: 1,
				Menu:       []string{"Early History"},
				Request:    ptr(Idle()),
				History:    &HistoryDelta{Appended: []string{"Selected: History of Physics"}},
			},
		},
		{
			name: "Selection Failed",
			old:  &State{Session: physics, Request: Loading(), Generation: 1},
			new:  State{Session: physics, Request: Failed(MsgSelectFailed), Generation: 1},
			wantDiff: &StateDiff{
				Generation: 1,
				Request:    ptr(Failed(MsgSelectFailed)),
			},
		},
		{
			name: "Reset",
			old:  &State{Session: advanced, Request: Idle(), Generation: 1},
			new:  State{Request: Idle(), Generation: 2},
			wantDiff: &StateDiff{
				Generation: 2,
				SessionID:  ptr(""),
			},
		},
		{
			name:     "Reset Without Session",
			old:      &State{Request: Idle(), Generation: 2},
			new:      State{Request: Idle(), Generation: 3},
			wantDiff: &StateDiff{Generation: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Unchanged Fields Omitted", func(t *testing.T) {
		s := NewSession("sess-1", "Physics", []string{"A"})
		diff := Diff(&State{Session: s, Request: Loading()}, State{Session: s, Request: Failed("boom")})
		require.NotNil(t, diff)

		bytes, err := json.Marshal(diff)
		require.NoError(t, err)
		assert.JSONEq(t, `{"generation":0,"request":{"phase":"error","message":"boom"}}`, string(bytes))
	})

	t.Run("Dropped Session As Empty ID", func(t *testing.T) {
		s := NewSession("sess-1", "Physics", []string{"A"})
		diff := Diff(&State{Session: s}, State{Generation: 3})
		require.NotNil(t, diff)

		bytes, err := json.Marshal(diff)
		require.NoError(t, err)
		assert.JSONEq(t, `{"generation":3,"session_id":""}`, string(bytes))
	})
}
