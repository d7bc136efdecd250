// Command arbor validates, draws and runs behavior tree files.
package main

func main() {
	Execute()
}
