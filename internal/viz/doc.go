// Package viz provides terminal visualization for hard-disk gas runs.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of a running gas with a statistics side panel
//   - [RunInteractive]: preset picker and parameter editor in front of [Model]
//   - [Canvas]: Braille-based pixel canvas with line and circle primitives
//   - Theme selection with 5 built-in color schemes
//
// Species A is drawn as filled disks and species B as rings; the divider is
// drawn only while it is present.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	D     - Remove the divider
//	R     - Rebuild the initial gas from the same seed
//	+/-   - Double/halve steps per frame
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Replay recent history
package viz
