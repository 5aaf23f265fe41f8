// Command mont is the CLI entrypoint for the task graph engine.
package main

import "github.com/yarlson/mont/cmd"

func main() {
	cmd.Execute()
}
