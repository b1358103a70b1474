/*
 * history.go, part of polytop.
 *
 * Copyright 2025 The polytop authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package universe

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rmera/polytop/chemjson"
	"go.uber.org/zap"
)

//State is one saved state of a universe.
type State struct {
	ID       uuid.UUID
	Document *chemjson.Document
	Current  string //name of the molecule being edited, if any
}

//History is the undo log of a universe: a list of states and the
//position of the state currently shown.
type History struct {
	states []*State
	index  int
	log    *zap.Logger
}

//NewHistory returns an empty history. log can be nil.
func NewHistory(log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{index: -1, log: log}
}

//Len returns the number of states saved.
func (H *History) Len() int { return len(H.states) }

//Save appends the state of U, with current as the molecule being edited, after the
//current state. The states that could be redone are lost.
func (H *History) Save(U *Universe, current string) (*State, error) {
	D, err := U.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("History.Save: %w", err)
	}
	S := &State{ID: uuid.New(), Document: D, Current: current}
	H.states = append(H.states[:H.index+1], S)
	H.index++
	H.log.Debug("state saved", zap.String("id", S.ID.String()), zap.Int("index", H.index))
	return S, nil
}

//Current returns the current state, or nil if nothing was saved.
func (H *History) Current() *State {
	if H.index < 0 {
		return nil
	}
	return H.states[H.index]
}

//CanUndo returns true if there is a state before the current one.
func (H *History) CanUndo() bool { return H.index > 0 }

//CanRedo returns true if there is a state after the current one.
func (H *History) CanRedo() bool { return H.index < len(H.states)-1 }

//Undo restores in U the state before the current one, and returns it.
func (H *History) Undo(U *Universe) (*State, error) {
	if !H.CanUndo() {
		return nil, fmt.Errorf("Undo: %w", ErrNoState)
	}
	return H.restore(U, H.index-1)
}

//Redo restores in U the state after the current one, and returns it.
func (H *History) Redo(U *Universe) (*State, error) {
	if !H.CanRedo() {
		return nil, fmt.Errorf("Redo: %w", ErrNoState)
	}
	return H.restore(U, H.index+1)
}

func (H *History) restore(U *Universe, i int) (*State, error) {
	S := H.states[i]
	if err := U.Restore(S.Document); err != nil {
		return nil, err
	}
	H.index = i
	H.log.Debug("state restored", zap.String("id", S.ID.String()), zap.Int("index", i))
	return S, nil
}
