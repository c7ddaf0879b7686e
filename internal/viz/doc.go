// Package viz renders hover episodes in the terminal with Bubble Tea.
//
//   - [Model]: one simulator flown in real time, with attitude and ground
//     track views, an envelope panel and a cost chart
//   - [App]: preset picker that configures and launches a [Model]
//   - [Canvas]: Braille dot canvas used by both views
//
// # Key Bindings
//
//	Arrows - Elevator and aileron (manual controller)
//	, .    - Rudder
//	W S    - Collective
//	C      - Center the sticks on the hover trim
//	Space  - Pause/Resume
//	R      - Reset the episode
//	[ ]    - Replay recent steps
//	G      - Toggle GIF recording of the attitude view
//	T      - Cycle color themes
//	?      - Show help
package viz
