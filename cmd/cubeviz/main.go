// cubeviz - animated Rubik's cube viewer with session recording and replay.
package main

import (
	"github.com/SeamusWaldron/cubeviz/internal/cli"
)

func main() {
	cli.Execute()
}
