/*
Package playback defines the contract with the video player that hosts an
interactive session, and the keyboard controls layered on top of it.

Arrow keys seek by a step that depends on the held modifiers:

	none        10s
	Shift        3s
	Ctrl         1m
	Ctrl+Shift   0s

Seeks are clamped to [0, duration-1s]. Space toggles between playing and
paused.
*/
package playback
