// Command propinspect prints the packed layouts of the scene hierarchy and
// runs a small publish demo against it.
package main

func main() {
	execute()
}
