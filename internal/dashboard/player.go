// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dashboard

import "sync"

// Player tracks the playback state of the results page video.
type Player struct {
	mu       sync.Mutex
	duration float64
	current  float64
	playing  bool
}

// NewPlayer returns a paused player at the start of a video of the given
// length in seconds.
func NewPlayer(duration int) *Player {
	return &Player{duration: float64(max(0, duration))}
}

// Play starts playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
}

// Pause stops playback at the current time.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

// TogglePlayPause flips between playing and paused and returns whether the
// player is now playing.
func (p *Player) TogglePlayPause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = !p.playing
	return p.playing
}

// Seek moves the position, clamped to the video.
func (p *Player) Seek(second float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.clamp(second)
}

// TimeUpdate records the position reported during playback.
func (p *Player) TimeUpdate(second float64) {
	p.Seek(second)
}

func (p *Player) clamp(second float64) float64 {
	if second < 0 {
		return 0
	}
	if p.duration > 0 && second > p.duration {
		return p.duration
	}
	return second
}

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Playing reports whether the player is playing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Position renders the position as "m:ss / m:ss".
func (p *Player) Position() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return FormatTime(p.current) + " / " + FormatTime(p.duration)
}
