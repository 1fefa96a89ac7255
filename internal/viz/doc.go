// Package viz is the live terminal view of the pendulum.
//
// The scene is stepped in real time on a bubbletea tick. Two braille canvases
// show the bob from above (x-z, with its trail) and from the side (x-y, with rod,
// ground and base magnet); asciigraph charts track energy and force magnitude.
//
//	space  pause          x / z  prod the bob
//	r      reset          tab    select parameter
//	↑ / ↓  tune ±5%       [ / ]  replay history
//	t      cycle theme    q      quit
package viz
