// Command shiftlock is the command-line front end of the shift time engine.
package main

import "github.com/warp/shiftlock/cli"

func main() {
	cli.Execute()
}
